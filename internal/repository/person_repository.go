package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"compliance-planner/internal/model"
)

// PersonRepository handles CRUD for people.
type PersonRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Create(ctx context.Context, person *model.Person) error {
	if err := r.db.WithContext(ctx).Create(person).Error; err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

func (r *PersonRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Person, error) {
	var person model.Person
	if err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, id).First(&person).Error; err != nil {
		return nil, translate(err)
	}
	return &person, nil
}

func (r *PersonRepository) ListByOrganization(ctx context.Context, orgID uint) ([]model.Person, error) {
	var people []model.Person
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("id ASC").Find(&people).Error; err != nil {
		return nil, err
	}
	return people, nil
}

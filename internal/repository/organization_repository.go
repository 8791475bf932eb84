package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"compliance-planner/internal/model"
)

// OrganizationRepository handles CRUD for organizations.
type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		return fmt.Errorf("create organization: %w", translate(err))
	}
	return nil
}

// GetOrCreate finds an organization by name, creating it when missing.
func (r *OrganizationRepository) GetOrCreate(ctx context.Context, name string) (*model.Organization, error) {
	var org model.Organization
	db := r.db.WithContext(ctx)
	err := db.Where("name = ?", name).First(&org).Error
	switch {
	case err == nil:
		return &org, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		org = model.Organization{Name: name}
		if err := db.Create(&org).Error; err != nil {
			return nil, fmt.Errorf("create organization: %w", err)
		}
		return &org, nil
	default:
		return nil, fmt.Errorf("find organization: %w", err)
	}
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uint) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, translate(err)
	}
	return &org, nil
}

func (r *OrganizationRepository) ListAll(ctx context.Context) ([]model.Organization, error) {
	var orgs []model.Organization
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

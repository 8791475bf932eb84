package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"compliance-planner/internal/model"
)

// StructureRepository handles CRUD for structures.
type StructureRepository struct {
	db *gorm.DB
}

func NewStructureRepository(db *gorm.DB) *StructureRepository {
	return &StructureRepository{db: db}
}

func (r *StructureRepository) Create(ctx context.Context, structure *model.Structure) error {
	if err := r.db.WithContext(ctx).Create(structure).Error; err != nil {
		return fmt.Errorf("create structure: %w", err)
	}
	return nil
}

func (r *StructureRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Structure, error) {
	var structure model.Structure
	if err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, id).First(&structure).Error; err != nil {
		return nil, translate(err)
	}
	return &structure, nil
}

func (r *StructureRepository) ListByOrganization(ctx context.Context, orgID uint) ([]model.Structure, error) {
	var structures []model.Structure
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("id ASC").Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

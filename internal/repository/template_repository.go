package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"compliance-planner/internal/model"
)

// TemplateRepository handles CRUD for compliance templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, tpl *model.Template) error {
	if err := r.db.WithContext(ctx).Create(tpl).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Template, error) {
	var tpl model.Template
	if err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, id).First(&tpl).Error; err != nil {
		return nil, translate(err)
	}
	return &tpl, nil
}

func (r *TemplateRepository) ListByOrganization(ctx context.Context, orgID uint) ([]model.Template, error) {
	var templates []model.Template
	if err := r.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("title ASC").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

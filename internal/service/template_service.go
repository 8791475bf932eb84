package service

import (
	"context"
	"fmt"
	"strings"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
)

// TemplateInput represents data required to create a template.
type TemplateInput struct {
	Title              string
	Description        string
	RecurrenceUnit     string
	RecurrenceEvery    int
	FirstDueOffsetDays int
	Anchor             string
}

// TemplateRepository is the template persistence the service needs.
type TemplateRepository interface {
	TemplateStore
	Create(ctx context.Context, tpl *model.Template) error
	ListByOrganization(ctx context.Context, orgID uint) ([]model.Template, error)
}

// TemplateService wraps template-related business logic.
type TemplateService struct {
	repo TemplateRepository
}

func NewTemplateService(repo TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

func (s *TemplateService) Create(ctx context.Context, orgID uint, input TemplateInput) (*model.Template, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	unit, err := recurrence.ParseUnit(input.RecurrenceUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	anchor, err := recurrence.ParseAnchor(input.Anchor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	rule := recurrence.Rule{
		Unit:               unit,
		Every:              input.RecurrenceEvery,
		FirstDueOffsetDays: input.FirstDueOffsetDays,
		Anchor:             anchor,
	}
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	tpl := model.Template{
		OrganizationID:     orgID,
		Title:              title,
		Description:        strings.TrimSpace(input.Description),
		RecurrenceUnit:     string(rule.Unit),
		RecurrenceEvery:    rule.Every,
		FirstDueOffsetDays: rule.FirstDueOffsetDays,
		Anchor:             string(rule.Anchor),
	}
	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return &tpl, nil
}

func (s *TemplateService) Get(ctx context.Context, orgID, id uint) (*model.Template, error) {
	tpl, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, lookupError("template", id, err)
	}
	return tpl, nil
}

func (s *TemplateService) List(ctx context.Context, orgID uint) ([]model.Template, error) {
	return s.repo.ListByOrganization(ctx, orgID)
}

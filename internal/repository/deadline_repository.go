package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"compliance-planner/internal/model"
)

// DeadlineFilter narrows List results. Zero values mean "any".
type DeadlineFilter struct {
	Status     string
	TemplateID *uint
	GroupID    string
	ActiveOnly bool
	DueFrom    *time.Time
	DueTo      *time.Time
}

// DeadlineRepository persists materialized deadlines.
type DeadlineRepository struct {
	db *gorm.DB
}

func NewDeadlineRepository(db *gorm.DB) *DeadlineRepository {
	return &DeadlineRepository{db: db}
}

// CreateBatch inserts every deadline and the audit entry in one transaction.
// On any error nothing from the batch stays committed.
func (r *DeadlineRepository) CreateBatch(ctx context.Context, deadlines []model.Deadline, entry *model.AuditEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range deadlines {
			if err := tx.Create(&deadlines[i]).Error; err != nil {
				return fmt.Errorf("create deadline %d of %d: %w", i+1, len(deadlines), err)
			}
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("create audit entry: %w", err)
			}
		}
		return nil
	})
}

// CancelGroup marks every deadline of a recurrence group inactive and returns
// how many rows belong to the group.
func (r *DeadlineRepository) CancelGroup(ctx context.Context, orgID uint, groupID string, entry *model.AuditEntry) (int64, error) {
	var matched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Model(&model.Deadline{}).
			Where("organization_id = ? AND recurrence_group_id = ?", orgID, groupID)
		if err := scope.Count(&matched).Error; err != nil {
			return fmt.Errorf("count group: %w", err)
		}
		if matched == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&model.Deadline{}).
			Where("organization_id = ? AND recurrence_group_id = ?", orgID, groupID).
			Update("recurrence_active", false).Error; err != nil {
			return fmt.Errorf("cancel group: %w", err)
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("create audit entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

func (r *DeadlineRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Deadline, error) {
	var deadline model.Deadline
	if err := r.db.WithContext(ctx).Where("organization_id = ? AND id = ?", orgID, id).First(&deadline).Error; err != nil {
		return nil, translate(err)
	}
	return &deadline, nil
}

// MarkCompleted sets the deadline status and completion time, writing the
// audit entry in the same transaction.
func (r *DeadlineRepository) MarkCompleted(ctx context.Context, deadline *model.Deadline, completedAt time.Time, entry *model.AuditEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deadline.Status = model.StatusCompleted
		deadline.CompletedAt = &completedAt
		if err := tx.Save(deadline).Error; err != nil {
			return fmt.Errorf("complete deadline: %w", err)
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("create audit entry: %w", err)
			}
		}
		return nil
	})
}

// List returns the organization's deadlines ordered by due date.
func (r *DeadlineRepository) List(ctx context.Context, orgID uint, f DeadlineFilter) ([]model.Deadline, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.TemplateID != nil {
		q = q.Where("template_id = ?", *f.TemplateID)
	}
	if f.GroupID != "" {
		q = q.Where("recurrence_group_id = ?", f.GroupID)
	}
	if f.ActiveOnly {
		q = q.Where("(is_recurring = ? OR recurrence_active = ?)", false, true)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", f.DueFrom.UTC())
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", f.DueTo.UTC())
	}

	var deadlines []model.Deadline
	if err := q.Order("due_date ASC, id ASC").Find(&deadlines).Error; err != nil {
		return nil, err
	}
	return deadlines, nil
}

// ListPendingDueBefore returns pending, active deadlines of every organization
// due on or before until. The reminder digest polls this.
func (r *DeadlineRepository) ListPendingDueBefore(ctx context.Context, until time.Time) ([]model.Deadline, error) {
	var deadlines []model.Deadline
	if err := r.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", model.StatusPending, until.UTC()).
		Where("(is_recurring = ? OR recurrence_active = ?)", false, true).
		Order("organization_id ASC, due_date ASC, id ASC").
		Find(&deadlines).Error; err != nil {
		return nil, err
	}
	return deadlines, nil
}

// LastCompletion returns when the target last completed a deadline of the
// template, or nil if it never did.
func (r *DeadlineRepository) LastCompletion(ctx context.Context, templateID uint, targetType string, targetID uint) (*time.Time, error) {
	column := "person_id"
	if targetType == model.TargetStructure {
		column = "structure_id"
	}
	var deadline model.Deadline
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND "+column+" = ? AND status = ? AND completed_at IS NOT NULL", templateID, targetID, model.StatusCompleted).
		Order("completed_at DESC").
		First(&deadline).Error
	switch {
	case err == nil:
		return deadline.CompletedAt, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find last completion: %w", err)
	}
}

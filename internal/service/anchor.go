package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
)

// CompletionStore reports the last completion of a template by a target.
type CompletionStore interface {
	LastCompletion(ctx context.Context, templateID uint, targetType string, targetID uint) (*time.Time, error)
}

// StoreAnchorResolver resolves anchors from the target entity and from
// completion history. LAST_COMPLETION resolves to one interval after the
// latest completion. When the anchor has no date for a target (no hire date
// on file, never completed) the caller's start date is used.
type StoreAnchorResolver struct {
	completions CompletionStore
	log         *logrus.Logger
}

func NewStoreAnchorResolver(completions CompletionStore, log *logrus.Logger) *StoreAnchorResolver {
	return &StoreAnchorResolver{completions: completions, log: log}
}

func (r *StoreAnchorResolver) ResolveAnchorDate(ctx context.Context, tpl model.Template, target Target, fallback time.Time) (time.Time, error) {
	var resolved *time.Time
	switch recurrence.Anchor(tpl.Anchor) {
	case recurrence.AnchorHireDate:
		if target.Person != nil {
			resolved = target.Person.HireDate
		}
	case recurrence.AnchorAssignmentStart:
		switch {
		case target.Person != nil:
			resolved = target.Person.AssignmentStart
		case target.Structure != nil:
			resolved = target.Structure.OpenedAt
		}
	case recurrence.AnchorLastCompletion:
		last, err := r.completions.LastCompletion(ctx, tpl.ID, target.Type, target.ID)
		if err != nil {
			return time.Time{}, fmt.Errorf("last completion: %w", err)
		}
		if last != nil {
			// The completed cycle is done; the series restarts one interval later.
			rule := tpl.Rule()
			rule.FirstDueOffsetDays = 0
			next := recurrence.ComputeDueDate(*last, rule, 1)
			resolved = &next
		}
	}

	if resolved == nil {
		if tpl.Anchor != "" && recurrence.Anchor(tpl.Anchor) != recurrence.AnchorCustom {
			r.log.WithFields(logrus.Fields{
				"anchor":      tpl.Anchor,
				"template_id": tpl.ID,
				"target_type": target.Type,
				"target_id":   target.ID,
			}).Debug("anchor date unavailable, using start date")
		}
		return fallback, nil
	}
	return *resolved, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"compliance-planner/internal/metrics"
	"compliance-planner/internal/model"
	"compliance-planner/internal/repository"
)

// TemplateStore loads templates scoped to an organization.
type TemplateStore interface {
	FindByID(ctx context.Context, orgID, id uint) (*model.Template, error)
}

// DeadlineStore persists deadlines. Batch writes are atomic.
type DeadlineStore interface {
	CreateBatch(ctx context.Context, deadlines []model.Deadline, entry *model.AuditEntry) error
	CancelGroup(ctx context.Context, orgID uint, groupID string, entry *model.AuditEntry) (int64, error)
	FindByID(ctx context.Context, orgID, id uint) (*model.Deadline, error)
	MarkCompleted(ctx context.Context, deadline *model.Deadline, completedAt time.Time, entry *model.AuditEntry) error
	List(ctx context.Context, orgID uint, f repository.DeadlineFilter) ([]model.Deadline, error)
}

// GenerateInput is a validated generation request from a caller.
type GenerateInput struct {
	OrganizationID uint
	TemplateID     uint
	Target         TargetSpec
	StartDate      time.Time
	EndDate        *time.Time
}

// GenerateResult is what a generation call created.
type GenerateResult struct {
	Deadlines []model.Deadline
	GroupIDs  []string
}

// ListInput filters deadline listings. NextOnly keeps, per recurrence group
// and target, only the earliest pending occurrence.
type ListInput struct {
	Filter   repository.DeadlineFilter
	NextOnly bool
}

// DeadlineService generates, lists, completes and cancels deadlines.
type DeadlineService struct {
	templates TemplateStore
	resolver  *TargetResolver
	generator *Generator
	deadlines DeadlineStore
	metrics   *metrics.Metrics
	log       *logrus.Logger
	now       func() time.Time
}

func NewDeadlineService(
	templates TemplateStore,
	resolver *TargetResolver,
	generator *Generator,
	deadlines DeadlineStore,
	m *metrics.Metrics,
	log *logrus.Logger,
) *DeadlineService {
	return &DeadlineService{
		templates: templates,
		resolver:  resolver,
		generator: generator,
		deadlines: deadlines,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Generate materializes deadlines for a template and target selection. All
// deadlines and the audit entry are committed together or not at all.
func (s *DeadlineService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	start := s.now()
	res, err := s.generate(ctx, in)
	s.metrics.ObserveGenerateLatency(s.now().Sub(start))
	s.metrics.IncGenerateRequest(outcome(err))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *DeadlineService) generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if in.TemplateID == 0 {
		return nil, validationf("templateId is required")
	}
	if in.StartDate.IsZero() {
		return nil, validationf("startDate is required")
	}
	if err := in.Target.Validate(); err != nil {
		return nil, err
	}

	tpl, err := s.templates.FindByID(ctx, in.OrganizationID, in.TemplateID)
	if err != nil {
		return nil, lookupError("template", in.TemplateID, err)
	}

	targets, err := s.resolver.Resolve(ctx, in.OrganizationID, in.Target)
	if err != nil {
		return nil, err
	}

	deadlines, err := s.generator.Generate(ctx, GenerateRequest{
		OrganizationID: in.OrganizationID,
		Template:       *tpl,
		Targets:        targets,
		BaseDate:       in.StartDate,
		EndDate:        in.EndDate,
	})
	if err != nil {
		return nil, err
	}

	groups := groupIDs(deadlines)
	entry := &model.AuditEntry{
		OrganizationID: in.OrganizationID,
		Action:         "deadlines.generate",
		Subject:        strings.Join(groups, ","),
		Detail: fmt.Sprintf("template=%d target=%s:%d targets=%d deadlines=%d",
			tpl.ID, in.Target.Kind, in.Target.ID, len(targets), len(deadlines)),
	}
	if err := s.deadlines.CreateBatch(ctx, deadlines, entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	for _, d := range deadlines {
		s.metrics.AddGenerated(d.TargetType(), 1)
	}
	s.log.WithFields(logrus.Fields{
		"organization_id": in.OrganizationID,
		"template_id":     tpl.ID,
		"target_kind":     in.Target.Kind,
		"targets":         len(targets),
		"deadlines":       len(deadlines),
		"groups":          groups,
	}).Info("deadlines generated")

	return &GenerateResult{Deadlines: deadlines, GroupIDs: groups}, nil
}

// CancelRecurrence deactivates every occurrence of a recurrence group.
func (s *DeadlineService) CancelRecurrence(ctx context.Context, orgID uint, groupID string) (int64, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return 0, validationf("recurrence group id is required")
	}
	entry := &model.AuditEntry{
		OrganizationID: orgID,
		Action:         "recurrence.cancel",
		Subject:        groupID,
	}
	n, err := s.deadlines.CancelGroup(ctx, orgID, groupID, entry)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: recurrence group %s", ErrNotFound, groupID)
		}
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.metrics.IncCancelled()
	s.log.WithFields(logrus.Fields{
		"organization_id": orgID,
		"group_id":        groupID,
		"deadlines":       n,
	}).Info("recurrence cancelled")
	return n, nil
}

// Complete marks a deadline done. Completing twice keeps the first completion.
func (s *DeadlineService) Complete(ctx context.Context, orgID, deadlineID uint, completedAt time.Time) (*model.Deadline, error) {
	d, err := s.deadlines.FindByID(ctx, orgID, deadlineID)
	if err != nil {
		return nil, lookupError("deadline", deadlineID, err)
	}
	if d.Status == model.StatusCompleted {
		return d, nil
	}
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	entry := &model.AuditEntry{
		OrganizationID: orgID,
		Action:         "deadline.complete",
		Subject:        fmt.Sprintf("%d", d.ID),
	}
	if err := s.deadlines.MarkCompleted(ctx, d, completedAt.UTC(), entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return d, nil
}

// List returns deadlines matching the input.
func (s *DeadlineService) List(ctx context.Context, orgID uint, in ListInput) ([]model.Deadline, error) {
	f := in.Filter
	if in.NextOnly {
		f.Status = model.StatusPending
		f.ActiveOnly = true
	}
	deadlines, err := s.deadlines.List(ctx, orgID, f)
	if err != nil {
		return nil, fmt.Errorf("list deadlines: %w", err)
	}
	if in.NextOnly {
		deadlines = NextPerSeries(deadlines)
	}
	return deadlines, nil
}

// NextPerSeries keeps the earliest deadline of each (group, target) series.
// Deadlines outside any recurrence group are kept as they are. Output is in
// due-date order.
func NextPerSeries(deadlines []model.Deadline) []model.Deadline {
	type seriesKey struct {
		group      string
		targetType string
		targetID   uint
	}
	earliest := make(map[seriesKey]int)
	var out []model.Deadline
	for _, d := range deadlines {
		if d.RecurrenceGroupID == "" {
			out = append(out, d)
			continue
		}
		k := seriesKey{d.RecurrenceGroupID, d.TargetType(), d.TargetID()}
		if i, ok := earliest[k]; ok {
			if d.DueDate.Before(out[i].DueDate) {
				out[i] = d
			}
			continue
		}
		earliest[k] = len(out)
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}

func groupIDs(deadlines []model.Deadline) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, d := range deadlines {
		if _, ok := seen[d.RecurrenceGroupID]; ok {
			continue
		}
		seen[d.RecurrenceGroupID] = struct{}{}
		ids = append(ids, d.RecurrenceGroupID)
	}
	return ids
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoTargets):
		return "no_targets"
	default:
		return "error"
	}
}

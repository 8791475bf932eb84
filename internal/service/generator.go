package service

import (
	"context"
	"fmt"
	"time"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
)

// AnchorResolver maps a template anchor to the concrete base date for one
// target. fallback is the start date supplied by the caller.
type AnchorResolver interface {
	ResolveAnchorDate(ctx context.Context, tpl model.Template, target Target, fallback time.Time) (time.Time, error)
}

// GenerateRequest is one generation call over already resolved targets.
type GenerateRequest struct {
	OrganizationID uint
	Template       model.Template
	Targets        []Target
	BaseDate       time.Time
	EndDate        *time.Time
}

// Generator expands a template into deadlines for a set of targets. It does
// no I/O of its own; the anchor resolver is the only collaborator it calls.
type Generator struct {
	lookahead  int
	grouping   Grouping
	anchors    AnchorResolver
	newGroupID func() string
}

// NewGenerator builds a generator. A non-positive lookahead falls back to
// recurrence.DefaultLookahead; a nil anchor resolver uses the base date for
// every target.
func NewGenerator(lookahead int, grouping Grouping, anchors AnchorResolver) *Generator {
	if lookahead <= 0 {
		lookahead = recurrence.DefaultLookahead
	}
	if grouping == "" {
		grouping = GroupPerCall
	}
	return &Generator{
		lookahead:  lookahead,
		grouping:   grouping,
		anchors:    anchors,
		newGroupID: NewGroupID,
	}
}

// Lookahead reports the per-target occurrence cap.
func (g *Generator) Lookahead() int {
	return g.lookahead
}

// Generate returns the deadlines to persist, target by target in the order
// given, each target's occurrences in due-date order. When an anchor resolves
// to an earlier date, the series is rolled forward from it to the first due
// date on or after the base date plus the offset.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) ([]model.Deadline, error) {
	if len(req.Targets) == 0 {
		return nil, ErrNoTargets
	}
	rule := req.Template.Rule()
	if err := rule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: template %d: %w", ErrValidation, req.Template.ID, err)
	}
	if req.BaseDate.IsZero() {
		return nil, validationf("start date is required")
	}

	var end *time.Time
	if req.EndDate != nil {
		e := recurrence.Day(*req.EndDate)
		end = &e
	}

	floor := recurrence.ComputeDueDate(req.BaseDate, rule, 0)

	var groupID string
	if g.grouping == GroupPerCall {
		groupID = g.newGroupID()
	}
	var out []model.Deadline
	for _, target := range req.Targets {
		base := req.BaseDate
		if g.anchors != nil {
			resolved, err := g.anchors.ResolveAnchorDate(ctx, req.Template, target, req.BaseDate)
			if err != nil {
				return nil, fmt.Errorf("resolve anchor for %s %d: %w", target.Type, target.ID, err)
			}
			base = resolved
		}

		// An anchor only sets the phase of the series; nothing is due
		// before the caller's start date plus the offset.
		from := recurrence.FirstIterationOnOrAfter(base, rule, floor)

		if g.grouping == GroupPerTarget {
			groupID = g.newGroupID()
		}
		for _, due := range recurrence.ExpandFrom(base, rule, from, end, g.lookahead) {
			out = append(out, newOccurrence(req, target, groupID, due, end))
		}
	}
	return out, nil
}

func newOccurrence(req GenerateRequest, target Target, groupID string, due time.Time, end *time.Time) model.Deadline {
	tplID := req.Template.ID
	d := model.Deadline{
		OrganizationID:    req.OrganizationID,
		TemplateID:        &tplID,
		Title:             req.Template.Title,
		Description:       req.Template.Description,
		DueDate:           due,
		Status:            model.StatusPending,
		IsRecurring:       true,
		RecurrenceGroupID: groupID,
		RecurrenceActive:  true,
		RecurrenceEndDate: end,
	}
	id := target.ID
	if target.Type == model.TargetStructure {
		d.StructureID = &id
	} else {
		d.PersonID = &id
	}
	return d
}

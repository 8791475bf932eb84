package httpapi

import (
	"time"

	"compliance-planner/internal/model"
	"compliance-planner/internal/recurrence"
)

type organizationView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type personView struct {
	ID              uint    `json:"id"`
	FullName        string  `json:"fullName"`
	Email           string  `json:"email,omitempty"`
	HireDate        *string `json:"hireDate,omitempty"`
	AssignmentStart *string `json:"assignmentStart,omitempty"`
}

type structureView struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address,omitempty"`
	OpenedAt *string `json:"openedAt,omitempty"`
}

type templateView struct {
	ID                 uint   `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description,omitempty"`
	RecurrenceUnit     string `json:"recurrenceUnit"`
	RecurrenceEvery    int    `json:"recurrenceEvery"`
	FirstDueOffsetDays int    `json:"firstDueOffsetDays"`
	Anchor             string `json:"anchor"`
	RRule              string `json:"rrule,omitempty"`
}

type deadlineView struct {
	ID                uint       `json:"id"`
	TemplateID        *uint      `json:"templateId,omitempty"`
	TargetType        string     `json:"targetType"`
	TargetID          uint       `json:"targetId"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	DueDate           string     `json:"dueDate"`
	Status            string     `json:"status"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurrenceGroupID string     `json:"recurrenceGroupId,omitempty"`
	RecurrenceActive  bool       `json:"recurrenceActive"`
	RecurrenceEndDate *string    `json:"recurrenceEndDate,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

type generateView struct {
	Deadlines          []deadlineView `json:"deadlines"`
	Count              int            `json:"count"`
	RecurrenceGroupIDs []string       `json:"recurrenceGroupIds"`
}

type cancelView struct {
	RecurrenceGroupID string `json:"recurrenceGroupId"`
	Deadlines         int64  `json:"deadlines"`
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(recurrence.DateLayout)
	return &s
}

func newOrganizationView(o model.Organization) organizationView {
	return organizationView{ID: o.ID, Name: o.Name}
}

func newPersonView(p model.Person) personView {
	return personView{
		ID:              p.ID,
		FullName:        p.FullName,
		Email:           p.Email,
		HireDate:        dateString(p.HireDate),
		AssignmentStart: dateString(p.AssignmentStart),
	}
}

func newStructureView(s model.Structure) structureView {
	return structureView{
		ID:       s.ID,
		Name:     s.Name,
		Address:  s.Address,
		OpenedAt: dateString(s.OpenedAt),
	}
}

func newTemplateView(t model.Template, base time.Time) templateView {
	v := templateView{
		ID:                 t.ID,
		Title:              t.Title,
		Description:        t.Description,
		RecurrenceUnit:     t.RecurrenceUnit,
		RecurrenceEvery:    t.RecurrenceEvery,
		FirstDueOffsetDays: t.FirstDueOffsetDays,
		Anchor:             t.Anchor,
	}
	if rule, err := t.Rule().RRule(base); err == nil {
		v.RRule = rule
	}
	return v
}

func newDeadlineView(d model.Deadline) deadlineView {
	return deadlineView{
		ID:                d.ID,
		TemplateID:        d.TemplateID,
		TargetType:        d.TargetType(),
		TargetID:          d.TargetID(),
		Title:             d.Title,
		Description:       d.Description,
		DueDate:           d.DueDate.Format(recurrence.DateLayout),
		Status:            d.Status,
		IsRecurring:       d.IsRecurring,
		RecurrenceGroupID: d.RecurrenceGroupID,
		RecurrenceActive:  d.RecurrenceActive,
		RecurrenceEndDate: dateString(d.RecurrenceEndDate),
		CompletedAt:       d.CompletedAt,
	}
}

func mapViews[T, V any](items []T, view func(T) V) []V {
	out := make([]V, 0, len(items))
	for _, it := range items {
		out = append(out, view(it))
	}
	return out
}

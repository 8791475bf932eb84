package model

import (
	"time"

	"compliance-planner/internal/recurrence"
)

// Template describes a recurring compliance obligation.
type Template struct {
	ID                 uint `gorm:"primaryKey"`
	OrganizationID     uint `gorm:"index"`
	Title              string
	Description        string
	RecurrenceUnit     string
	RecurrenceEvery    int
	FirstDueOffsetDays int
	Anchor             string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Rule extracts the arithmetic part of the template.
func (t Template) Rule() recurrence.Rule {
	return recurrence.Rule{
		Unit:               recurrence.Unit(t.RecurrenceUnit),
		Every:              t.RecurrenceEvery,
		FirstDueOffsetDays: t.FirstDueOffsetDays,
		Anchor:             recurrence.Anchor(t.Anchor),
	}
}

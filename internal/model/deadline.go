package model

import "time"

const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
)

const (
	TargetPerson    = "PERSON"
	TargetStructure = "STRUCTURE"
)

// Deadline is one materialized occurrence of a template for one target.
// Exactly one of PersonID and StructureID is set.
type Deadline struct {
	ID                uint  `gorm:"primaryKey"`
	OrganizationID    uint  `gorm:"index"`
	TemplateID        *uint `gorm:"index"`
	PersonID          *uint `gorm:"index"`
	StructureID       *uint `gorm:"index"`
	Title             string
	Description       string
	DueDate           time.Time `gorm:"index"`
	Status            string    `gorm:"default:PENDING;index"`
	IsRecurring       bool      `gorm:"default:false"`
	RecurrenceGroupID string    `gorm:"index"`
	RecurrenceActive  bool      `gorm:"default:false"`
	RecurrenceEndDate *time.Time
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TargetType reports which kind of entity the deadline targets.
func (d Deadline) TargetType() string {
	if d.StructureID != nil {
		return TargetStructure
	}
	return TargetPerson
}

// TargetID returns the id of the targeted person or structure.
func (d Deadline) TargetID() uint {
	switch {
	case d.PersonID != nil:
		return *d.PersonID
	case d.StructureID != nil:
		return *d.StructureID
	}
	return 0
}

package model

import "time"

// Person is an employee or contractor that deadlines can target.
type Person struct {
	ID              uint   `gorm:"primaryKey"`
	OrganizationID  uint   `gorm:"index"`
	FullName        string
	Email           string
	HireDate        *time.Time
	AssignmentStart *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package model

import "time"

// Organization owns people, structures, templates and deadlines.
type Organization struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

package model

import "time"

// Structure is a site, facility or unit that deadlines can target.
type Structure struct {
	ID             uint   `gorm:"primaryKey"`
	OrganizationID uint   `gorm:"index"`
	Name           string
	Address        string
	OpenedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

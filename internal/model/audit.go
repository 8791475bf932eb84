package model

import "time"

// AuditEntry records a state-changing action on deadlines.
type AuditEntry struct {
	ID             uint   `gorm:"primaryKey"`
	OrganizationID uint   `gorm:"index"`
	Action         string `gorm:"index"`
	Subject        string
	Detail         string
	CreatedAt      time.Time
}

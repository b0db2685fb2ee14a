package domain

import "time"

// Idempotency remembers which resource a client-supplied Idempotency-Key
// produced for one user within a scope (e.g. "loan-requests"), until
// ExpiresAt. Keys are unique per (scope, user_id, key), so two borrowers
// reusing the same key never see each other's resources.
//
// Column types are left to the dialect so the table migrates on both
// SQLite and PostgreSQL.
type Idempotency struct {
	ID         string    `gorm:"size:36;primaryKey"`
	Scope      string    `gorm:"size:64;not null;uniqueIndex:ux_scope_user_key,priority:1"`
	UserID     uint      `gorm:"not null;uniqueIndex:ux_scope_user_key,priority:2"`
	Key        string    `gorm:"size:255;not null;uniqueIndex:ux_scope_user_key,priority:3"`
	ResourceID uint      `gorm:"not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

func (Idempotency) TableName() string { return "idempotency" }

// Expired reports whether the record is no longer valid at now.
func (i Idempotency) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

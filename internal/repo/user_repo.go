// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can be
// called with a plain handle or inside a transaction. They follow the "thin
// repository" approach: no business logic, only CRUD persistence and query
// composition.
//
// Error semantics:
//   - When a user is not found, functions return gorm.ErrRecordNotFound
//     (also exported as ErrNotFound).
//   - Constraint violations and connectivity errors are propagated as-is.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateUser inserts u and fills in its generated ID.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by primary key, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id uint) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CountUsersByEmail returns how many users are registered with email.
func CountUsersByEmail(ctx context.Context, db *gorm.DB, email string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", email).
		Count(&n).Error
	return n, err
}

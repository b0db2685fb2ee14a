// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// LoanRequest model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
)

// CreateLoanRequest inserts a PENDING loan for userID. CreatedAt and
// UpdatedAt are both set to now (UTC).
func CreateLoanRequest(ctx context.Context, db *gorm.DB, l *domain.LoanRequest) error {
	now := time.Now().UTC()
	l.Status = domain.StatusPending
	l.CreatedAt = now
	l.UpdatedAt = now
	return db.WithContext(ctx).Create(l).Error
}

// GetLoanRequest fetches a loan by primary key, or ErrNotFound.
func GetLoanRequest(ctx context.Context, db *gorm.DB, id uint) (*domain.LoanRequest, error) {
	var l domain.LoanRequest
	if err := db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// CountLoansByStatus returns the number of loans owned by userID in status.
func CountLoansByStatus(ctx context.Context, db *gorm.DB, userID uint, status domain.LoanStatus) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&n).Error
	return n, err
}

// UpdateLoanDecision overwrites status and reason of loan id and refreshes
// updated_at. There is no guard on the current status. Returns ErrNotFound
// when no row matched.
func UpdateLoanDecision(ctx context.Context, db *gorm.DB, id uint, status domain.LoanStatus, reason *string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.LoanRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"reason":     reason,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides append-only access to the API audit log.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
)

// CreateAPILog appends one audit row. CreatedAt is set to now (UTC).
func CreateAPILog(ctx context.Context, db *gorm.DB, direction domain.Direction, url string, payload *string, statusCode int) (*domain.APILog, error) {
	rec := &domain.APILog{
		Direction:  direction,
		URL:        url,
		Payload:    payload,
		StatusCode: statusCode,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListAPILogs returns audit rows in insertion order, optionally filtered by
// direction (empty means all).
func ListAPILogs(ctx context.Context, db *gorm.DB, direction domain.Direction) ([]domain.APILog, error) {
	var out []domain.APILog
	q := db.WithContext(ctx).Order("id ASC")
	if direction != "" {
		q = q.Where("direction = ?", direction)
	}
	err := q.Find(&out).Error
	return out, err
}

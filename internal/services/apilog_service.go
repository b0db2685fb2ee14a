// Package services – APILogger
//
// APILogger writes the append-only audit trail of external interactions:
// outbound calls to the credit-scoring API and inbound webhook deliveries.
// Payloads are JSON-encoded before storage; a nil payload is stored as NULL.
package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
	"github.com/tbourn/go-loan-service/internal/repo"
)

// APILogger records external interactions in the api_logs table.
type APILogger struct {
	DB *gorm.DB
}

// Record persists one audit row. Persistence failures are returned unchanged.
func (a *APILogger) Record(ctx context.Context, direction domain.Direction, url string, payload any, statusCode int) error {
	return a.record(ctx, a.DB, direction, url, payload, statusCode)
}

// record writes through db, which may be a transaction handle.
func (a *APILogger) record(ctx context.Context, db *gorm.DB, direction domain.Direction, url string, payload any, statusCode int) error {
	var text *string
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		s := string(b)
		text = &s
	}
	if _, err := repo.CreateAPILog(ctx, db, direction, url, text, statusCode); err != nil {
		return err
	}
	apiLogsRecorded.WithLabelValues(string(direction)).Inc()
	return nil
}

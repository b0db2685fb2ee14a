// Package services – LoanService
//
// This file implements the loan request lifecycle:
//
//   - Create validates the request, inserts a PENDING loan and records the
//     outbound call to the credit-scoring API. The call itself is mocked: it
//     is written to the audit log with status code 0 and never sent.
//   - Get reads a single loan.
//   - ApplyDecision handles the scoring webhook. The incoming payload is
//     audited before anything else, so the trail survives invalid input.
//
// Status transitions are not guarded: a decided loan can be overwritten by a
// later webhook. The single-pending-loan rule is a check-then-act test at
// creation time and is not protected against concurrent requests.
package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
	"github.com/tbourn/go-loan-service/internal/repo"
)

const (
	// DefaultScoringURL is the mocked credit-scoring endpoint.
	DefaultScoringURL = "https://mock-credit-score.com/api/score"
	// DefaultCallbackPath is appended to the request base URL to form the
	// callback handed to the scoring API.
	DefaultCallbackPath = "/webhooks/credit-score"

	// idempotencyScope namespaces Idempotency-Key values for loan creation.
	idempotencyScope = "loan-requests"
)

// CreateLoanInput carries a loan creation request.
type CreateLoanInput struct {
	UserID uint
	Amount decimal.Decimal
	// BaseURL is the scheme://host[/prefix] the request arrived on.
	BaseURL string
	// IdempotencyKey is optional; when set, a repeat by the same user within
	// the TTL returns the loan created by the first call.
	IdempotencyKey string
}

// ScoreUser is the borrower block of a ScoreRequest.
type ScoreUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ScoreRequest is the body of the outbound call to the scoring API.
type ScoreRequest struct {
	LoanID      uint      `json:"loan_id"`
	Amount      float64   `json:"amount"`
	User        ScoreUser `json:"user"`
	CallbackURL string    `json:"callback_url"`
}

// WebhookPayload is the decision delivered by the scoring API.
type WebhookPayload struct {
	LoanID uint    `json:"loan_id"`
	Score  int     `json:"score"`
	Status string  `json:"status"`
	Reason *string `json:"reason"`
}

// Decision is the result of applying a webhook.
type Decision struct {
	LoanID uint              `json:"loan_id"`
	Status domain.LoanStatus `json:"status"`
}

// LoanService coordinates loan persistence, the mocked scoring call and the
// webhook decision.
type LoanService struct {
	DB    *gorm.DB
	Audit *APILogger

	// ScoringURL is the outbound endpoint written to the audit log.
	ScoringURL string
	// CallbackPath is appended to CreateLoanInput.BaseURL.
	CallbackPath string
	// IdempotencyTTL bounds how long an Idempotency-Key is honored.
	IdempotencyTTL time.Duration

	now func() time.Time
}

// NewLoanService constructs a LoanService with default endpoints.
func NewLoanService(db *gorm.DB, audit *APILogger) *LoanService {
	return &LoanService{
		DB:             db,
		Audit:          audit,
		ScoringURL:     DefaultScoringURL,
		CallbackPath:   DefaultCallbackPath,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// Create validates and stores a new PENDING loan, then records the outbound
// scoring request. It reports replayed=true when the loan was returned from a
// previous call with the same idempotency key.
//
// Checks run in this order: user exists (ErrUserNotFound), amount in range
// (ErrInvalidAmount), at most two decimal places (ErrAmountPrecision), no
// pending loan for the user (ErrDuplicatePending).
// The insert and the outbound audit row commit together.
func (s *LoanService) Create(ctx context.Context, in CreateLoanInput) (*domain.LoanRequest, bool, error) {
	ctx, span := otel.Tracer("services/LoanService").Start(ctx, "Create",
		trace.WithAttributes(attribute.Int64("user.id", int64(in.UserID))),
	)
	defer span.End()

	if in.IdempotencyKey != "" {
		if prev, err := s.replay(ctx, in.UserID, in.IdempotencyKey); err == nil && prev != nil {
			span.SetAttributes(attribute.Bool("idempotency.replayed", true))
			return prev, true, nil
		}
	}

	user, err := repo.GetUser(ctx, s.DB, in.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}

	if !domain.AmountInRange(in.Amount) {
		return nil, false, ErrInvalidAmount
	}
	if !domain.AmountHasCents(in.Amount) {
		return nil, false, ErrAmountPrecision
	}

	var (
		loan *domain.LoanRequest
		out  ScoreRequest
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := repo.CountLoansByStatus(ctx, tx, user.ID, domain.StatusPending)
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrDuplicatePending
		}

		loan = &domain.LoanRequest{UserID: user.ID, Amount: in.Amount}
		if err := repo.CreateLoanRequest(ctx, tx, loan); err != nil {
			return err
		}

		out = ScoreRequest{
			LoanID:      loan.ID,
			Amount:      loan.Amount.InexactFloat64(),
			User:        ScoreUser{Name: user.Name, Email: user.Email},
			CallbackURL: s.callbackURL(in.BaseURL),
		}
		// Status 0: the call is not made, so there is no answer yet.
		return s.Audit.record(ctx, tx, domain.DirectionOutgoing, s.scoringURL(), out, 0)
	})
	if err != nil {
		return nil, false, err
	}

	span.SetAttributes(attribute.Int64("loan.id", int64(loan.ID)))
	loansCreated.Inc()
	log.Ctx(ctx).Info().
		Uint("loan_id", loan.ID).
		Uint("user_id", user.ID).
		Str("scoring_url", s.scoringURL()).
		Str("callback_url", out.CallbackURL).
		Msg("outgoing -> mock credit api")

	if in.IdempotencyKey != "" {
		if _, err := repo.CreateIdempotency(ctx, s.DB, idempotencyScope, user.ID, in.IdempotencyKey, loan.ID, http.StatusOK, s.idempotencyTTL()); err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint("loan_id", loan.ID).Msg("store idempotency key")
		}
	}
	return loan, false, nil
}

// Get returns the loan with id, or ErrLoanNotFound.
func (s *LoanService) Get(ctx context.Context, id uint) (*domain.LoanRequest, error) {
	ctx, span := otel.Tracer("services/LoanService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("loan.id", int64(id))),
	)
	defer span.End()

	l, err := repo.GetLoanRequest(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return l, nil
}

// ApplyDecision records the webhook delivery received at url, then
// overwrites the loan's status and reason.
//
// The audit row (INCOMING, status 200) is written first and committed on its
// own, whatever the outcome of the update. Errors: ErrInvalidStatus,
// ErrLoanNotFound, or the underlying DB error.
func (s *LoanService) ApplyDecision(ctx context.Context, url string, p WebhookPayload) (*Decision, error) {
	ctx, span := otel.Tracer("services/LoanService").Start(ctx, "ApplyDecision",
		trace.WithAttributes(
			attribute.Int64("loan.id", int64(p.LoanID)),
			attribute.String("loan.status", p.Status),
		),
	)
	defer span.End()

	if err := s.Audit.Record(ctx, domain.DirectionIncoming, url, p, http.StatusOK); err != nil {
		return nil, err
	}

	if err := validate.Var(p.Status, "required,loanstatus"); err != nil {
		return nil, ErrInvalidStatus
	}
	status := domain.LoanStatus(p.Status)

	if err := repo.UpdateLoanDecision(ctx, s.DB, p.LoanID, status, p.Reason, s.clock()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	loanDecisions.WithLabelValues(string(status)).Inc()
	log.Ctx(ctx).Info().
		Uint("loan_id", p.LoanID).
		Str("status", string(status)).
		Int("score", p.Score).
		Msg("loan decision applied")
	return &Decision{LoanID: p.LoanID, Status: status}, nil
}

// replay returns the loan userID created with key, if the key is still valid.
func (s *LoanService) replay(ctx context.Context, userID uint, key string) (*domain.LoanRequest, error) {
	rec, err := repo.GetIdempotency(ctx, s.DB, idempotencyScope, userID, key, s.clock())
	if err != nil {
		return nil, err
	}
	loan, err := repo.GetLoanRequest(ctx, s.DB, rec.ResourceID)
	if err != nil {
		return nil, err
	}
	if loan.UserID != userID {
		return nil, repo.ErrNotFound
	}
	return loan, nil
}

func (s *LoanService) callbackURL(base string) string {
	path := s.CallbackPath
	if path == "" {
		path = DefaultCallbackPath
	}
	return strings.TrimRight(base, "/") + path
}

func (s *LoanService) scoringURL() string {
	if s.ScoringURL == "" {
		return DefaultScoringURL
	}
	return s.ScoringURL
}

func (s *LoanService) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s *LoanService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

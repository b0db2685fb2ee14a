// Package services – UserService
//
// This file implements the user registry. It validates and normalizes
// registration input, enforces email uniqueness and persists the user.
//
// Uniqueness is checked with a count query before the insert. Two concurrent
// registrations can both pass that check; the unique index on users.email then
// rejects the loser, which is reported as ErrDuplicateEmail as well.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/go-loan-service/internal/domain"
	"github.com/tbourn/go-loan-service/internal/repo"
)

// CreateUserInput carries the registration fields.
type CreateUserInput struct {
	Name        string
	Email       string
	PhoneNumber string
}

// UserService provides user registration and lookup.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewUserService constructs a UserService bound to db.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Create registers a new user.
//
// Errors:
//   - ErrInvalidEmail / ErrInvalidPhone for malformed input.
//   - ErrDuplicateEmail when the email is already registered.
//   - the underlying DB error otherwise.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Create")
	defer span.End()

	email := strings.TrimSpace(in.Email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if err := validate.Var(in.PhoneNumber, "min=7,max=15"); err != nil {
		return nil, ErrInvalidPhone
	}

	n, err := repo.CountUsersByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrDuplicateEmail
	}

	u := &domain.User{
		Name:        normalizeName(in.Name),
		Email:       email,
		PhoneNumber: in.PhoneNumber,
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if repo.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", int64(u.ID)))
	usersRegistered.Inc()
	log.Ctx(ctx).Info().Uint("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Get returns the user with id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Get",
		trace.WithAttributes(attribute.Int64("user.id", int64(id))),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// normalizeName applies NFC normalization, trims, and collapses runs of
// whitespace to a single space.
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

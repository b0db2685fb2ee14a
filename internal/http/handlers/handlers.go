// Package handlers wires HTTP endpoints to the application services.
//
// Handlers are transport-thin: they bind and validate the JSON body, call a
// service, and translate the result into a response or an error envelope.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-loan-service/internal/domain"
	"github.com/tbourn/go-loan-service/internal/http/middleware"
	"github.com/tbourn/go-loan-service/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService registers and looks up borrowers.
type UserService interface {
	Create(ctx context.Context, in services.CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
}

// LoanService manages loan requests and applies scoring decisions.
//
// Create reports replayed=true when the loan was returned for a repeated
// Idempotency-Key instead of being created.
type LoanService interface {
	Create(ctx context.Context, in services.CreateLoanInput) (*domain.LoanRequest, bool, error)
	Get(ctx context.Context, id uint) (*domain.LoanRequest, error)
	ApplyDecision(ctx context.Context, url string, p services.WebhookPayload) (*services.Decision, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the service.
type Handlers struct {
	userSvc UserService
	loanSvc LoanService
	// basePath is the API mount point, used to build callback URLs.
	basePath string
}

// New constructs Handlers. basePath is the prefix routes are mounted under
// ("/" or "" for root).
func New(userSvc UserService, loanSvc LoanService, basePath string) *Handlers {
	basePath = strings.TrimRight(strings.TrimSpace(basePath), "/")
	return &Handlers{userSvc: userSvc, loanSvc: loanSvc, basePath: basePath}
}

//
// Helpers
//

// idParam parses the :id path parameter as a positive integer.
func idParam(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return uint(n), true
}

// baseURL is the scheme://host[/prefix] the request arrived on.
func (h *Handlers) baseURL(c *gin.Context) string {
	return middleware.Scheme(c.Request) + "://" + c.Request.Host + h.basePath
}

// requestURL is the full URL of the current request.
func requestURL(c *gin.Context) string {
	return middleware.Scheme(c.Request) + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// UseJSONFieldNames makes binding errors report json tag names (phone_number
// rather than PhoneNumber). It is safe to call more than once.
func UseJSONFieldNames() {
	jsonNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

var jsonNamesOnce sync.Once

// bindError turns a binding failure into a client message. Validation errors
// name the JSON field and the failed rule; anything else is a syntax error.
func bindError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", fe.Field())
		case "email":
			return "invalid email address"
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return "invalid JSON body"
}

package services

import (
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-loan-service/internal/domain"
)

// validate is shared by the services. validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("loanstatus", func(fl validator.FieldLevel) bool {
		return domain.LoanStatus(fl.Field().String()).Valid()
	})
	return v
}

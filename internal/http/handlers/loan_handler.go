// Loan HTTP handlers.
//
//   - POST /loan-requests       (create, optional Idempotency-Key)
//   - GET  /loan-requests/{id}  (read)
//
// Creating a loan records the outbound credit-scoring request in the audit
// log; the decision arrives later through the webhook.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tbourn/go-loan-service/internal/domain"
	"github.com/tbourn/go-loan-service/internal/http/middleware"
	"github.com/tbourn/go-loan-service/internal/services"
)

// CreateLoanRequest is the JSON payload for requesting a loan. Amount accepts
// a JSON number or a decimal string.
type CreateLoanRequest struct {
	UserID *uint            `json:"user_id" binding:"required" example:"1"`
	Amount *decimal.Decimal `json:"amount"  binding:"required" swaggertype:"number" example:"5000"`
}

// timestampLayout is RFC 3339 with a fixed six-digit fraction, so a decision
// applied in the same second as creation still renders a later updated_at.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// LoanOut is the public representation of a loan request.
type LoanOut struct {
	ID        uint    `json:"id"               example:"1"`
	UserID    uint    `json:"user_id"          example:"1"`
	Amount    float64 `json:"amount"           example:"5000"`
	Status    string  `json:"status"           example:"PENDING" enums:"PENDING,APPROVED,REJECTED"`
	Reason    *string `json:"reason,omitempty" example:"income verified"`
	CreatedAt string  `json:"created_at"       example:"2024-05-01T10:00:00.000000Z"`
	UpdatedAt string  `json:"updated_at"       example:"2024-05-01T10:00:00.000000Z"`
}

func toLoanOut(l *domain.LoanRequest) LoanOut {
	return LoanOut{
		ID:        l.ID,
		UserID:    l.UserID,
		Amount:    l.Amount.InexactFloat64(),
		Status:    string(l.Status),
		Reason:    l.Reason,
		CreatedAt: l.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt: l.UpdatedAt.UTC().Format(timestampLayout),
	}
}

// CreateLoan godoc
// @ID          createLoan
// @Summary     Request a loan
// @Description Creates a PENDING loan and hands it to the credit-scoring API.
// @Description A user may hold one pending loan at a time. Repeating a request
// @Description with the same Idempotency-Key returns the original loan.
// @Tags        Loans
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header    string                      false  "Client retry key"
// @Param       body             body      handlers.CreateLoanRequest  true   "Loan payload"
// @Success     200              {object}  handlers.LoanOut
// @Header      200              {string}  Idempotency-Replayed  "true when served from a previous request"
// @Failure     400              {object}  handlers.ErrorResponse  "Invalid amount or pending loan exists"
// @Failure     404              {object}  handlers.ErrorResponse  "User not found"
// @Failure     500              {object}  handlers.ErrorResponse  "Internal error"
// @Router      /loan-requests [post]
func (h *Handlers) CreateLoan(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindError(err))
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	loan, replayed, err := h.loanSvc.Create(c.Request.Context(), services.CreateLoanInput{
		UserID:         *req.UserID,
		Amount:         *req.Amount,
		BaseURL:        h.baseURL(c),
		IdempotencyKey: key,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	if replayed {
		middleware.MarkReplay(c)
	}
	ok(c, http.StatusOK, toLoanOut(loan))
}

// GetLoan godoc
// @ID          getLoan
// @Summary     Get a loan request
// @Tags        Loans
// @Produce     json
// @Param       id   path      int  true  "Loan ID"
// @Success     200  {object}  handlers.LoanOut
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "Loan not found"
// @Router      /loan-requests/{id} [get]
func (h *Handlers) GetLoan(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	loan, err := h.loanSvc.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, toLoanOut(loan))
}

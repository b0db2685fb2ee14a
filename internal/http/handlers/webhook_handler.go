// Credit-scoring webhook.
//
//   - POST /webhook/credit-score
//
// The scoring API posts its decision here. The delivery is written to the
// audit log before the status is checked, so rejected deliveries still leave
// a trace; only bodies that are not valid JSON for WebhookRequest are refused
// without one.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-loan-service/internal/services"
)

// WebhookRequest is the decision payload sent by the scoring API.
type WebhookRequest struct {
	LoanID *uint   `json:"loan_id" binding:"required" example:"1"`
	Score  *int    `json:"score"   binding:"required" example:"720"`
	Status string  `json:"status"  example:"APPROVED" enums:"PENDING,APPROVED,REJECTED"`
	Reason *string `json:"reason"  example:"income verified"`
}

// WebhookResponse acknowledges an applied decision.
type WebhookResponse struct {
	Message string `json:"message" example:"Loan updated"`
	LoanID  uint   `json:"loan_id" example:"1"`
	Status  string `json:"status"  example:"APPROVED"`
}

// CreditScoreWebhook godoc
// @ID          creditScoreWebhook
// @Summary     Receive a credit-scoring decision
// @Description Records the delivery, then sets the loan's status and reason.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.WebhookRequest  true  "Decision payload"
// @Success     200   {object}  handlers.WebhookResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid status value"
// @Failure     404   {object}  handlers.ErrorResponse  "Loan not found"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /webhook/credit-score [post]
func (h *Handlers) CreditScoreWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindError(err))
		return
	}

	d, err := h.loanSvc.ApplyDecision(c.Request.Context(), requestURL(c), services.WebhookPayload{
		LoanID: *req.LoanID,
		Score:  *req.Score,
		Status: req.Status,
		Reason: req.Reason,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, WebhookResponse{
		Message: "Loan updated",
		LoanID:  d.LoanID,
		Status:  string(d.Status),
	})
}

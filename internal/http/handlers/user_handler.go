// User HTTP handlers.
//
//   - POST /users       (register)
//   - GET  /users/{id}  (lookup)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-loan-service/internal/services"
)

// CreateUserRequest is the JSON payload for registering a user.
type CreateUserRequest struct {
	Name        string `json:"name"         binding:"required"                example:"Ada Lovelace"`
	Email       string `json:"email"        binding:"required,email"          example:"ada@example.com"`
	PhoneNumber string `json:"phone_number" binding:"required,min=7,max=15"   example:"+302101234567"`
}

// CreateUser godoc
// @ID          createUser
// @Summary     Register a user
// @Description Creates a borrower. Emails are unique across users.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateUserRequest  true  "User payload"
// @Success     200   {object}  domain.User
// @Failure     400   {object}  handlers.ErrorResponse  "Invalid input or email already exists"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, bindError(err))
		return
	}

	u, err := h.userSvc.Create(c.Request.Context(), services.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Tags        Users
// @Produce     json
// @Param       id   path      int  true  "User ID"
// @Success     200  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad id"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	id, valid := idParam(c)
	if !valid {
		return
	}
	u, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// Package domain defines the persistence models for users, loan requests and
// the API audit log. These types are mapped with GORM and form the core data
// layer of the loan origination service.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a LoanRequest.
type LoanStatus string

const (
	StatusPending  LoanStatus = "PENDING"
	StatusApproved LoanStatus = "APPROVED"
	StatusRejected LoanStatus = "REJECTED"
)

// Valid reports whether s is one of the three known lifecycle states.
func (s LoanStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Direction marks an APILog row as inbound or outbound traffic.
type Direction string

const (
	DirectionIncoming Direction = "INCOMING"
	DirectionOutgoing Direction = "OUTGOING"
)

// Loan amount bounds. Both are exclusive.
var (
	MinLoanAmount = decimal.Zero
	MaxLoanAmount = decimal.NewFromInt(1_000_000)
)

// AmountInRange reports whether amount lies strictly between MinLoanAmount
// and MaxLoanAmount.
func AmountInRange(amount decimal.Decimal) bool {
	return amount.GreaterThan(MinLoanAmount) && amount.LessThan(MaxLoanAmount)
}

// AmountHasCents reports whether amount fits the numeric(12,2) column without
// rounding. Trailing zeros are fine: 10.500 has cents, 10.005 does not.
func AmountHasCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(2))
}

// User is a registered borrower. Email is unique across all users.
//
// Fields:
//   - ID: auto-increment primary key.
//   - Name: display name (indexed).
//   - Email: unique, required.
//   - PhoneNumber: required, 7–15 characters.
//   - Loans: owned loan requests; deleted with the user.
type User struct {
	ID          uint   `json:"id"           gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name"         gorm:"type:varchar(255);index"`
	Email       string `json:"email"        gorm:"type:varchar(320);not null;uniqueIndex:ux_users_email"`
	PhoneNumber string `json:"phone_number" gorm:"type:varchar(15);not null"`

	Loans []LoanRequest `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// LoanRequest is a single credit request submitted by a user.
//
// A user should hold at most one PENDING request at a time. That rule is
// checked when a request is created and is not backed by a constraint.
type LoanRequest struct {
	ID        uint            `json:"id"               gorm:"primaryKey;autoIncrement"`
	UserID    uint            `json:"user_id"          gorm:"not null;index:idx_loan_user_status,priority:1"`
	Amount    decimal.Decimal `json:"amount"           gorm:"type:numeric(12,2);not null"`
	Status    LoanStatus      `json:"status"           gorm:"type:varchar(16);not null;default:'PENDING';index:idx_loan_user_status,priority:2"`
	Reason    *string         `json:"reason,omitempty" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"       gorm:"not null"`
	UpdatedAt time.Time       `json:"updated_at"       gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for LoanRequest.
func (LoanRequest) TableName() string { return "loan_requests" }

// APILog is an append-only audit record of one external interaction.
// Payload holds the JSON-encoded body, or NULL when there was none.
// StatusCode 0 means the outbound call has not been answered.
type APILog struct {
	ID         uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	Direction  Direction `json:"direction"   gorm:"type:varchar(8);not null;index;check:direction IN ('INCOMING','OUTGOING')"`
	URL        string    `json:"url"         gorm:"type:text;not null"`
	Payload    *string   `json:"payload"     gorm:"type:text"`
	StatusCode int       `json:"status_code" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"  gorm:"not null"`
}

// TableName returns the database table name for APILog.
func (APILog) TableName() string { return "api_logs" }

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusOverdue   PaymentStatus = "OVERDUE"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// IsValidPaymentStatus reports whether s is one of the known invoice statuses.
func IsValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusOverdue, PaymentStatusCancelled:
		return true
	}
	return false
}

// Invoice is a billing record issued to a tenant. DueDate is a calendar date;
// only its year, month and day are meaningful.
type Invoice struct {
	ID          string          `json:"id" db:"id"`
	TenantID    string          `json:"tenant_id" db:"tenant_id"`
	ApartmentID string          `json:"apartment_id" db:"apartment_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	DueDate     time.Time       `json:"due_date" db:"due_date"`
	Status      PaymentStatus   `json:"status" db:"status"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

func (i Invoice) IsPaid() bool {
	return i.Status == PaymentStatusPaid
}

package models

import (
	"regexp"
	"strings"
	"time"
)

var mpesaPhonePattern = regexp.MustCompile(`^(?:254|\+254|0)?(7|1)(?:(?:[0-9][0-9])|(?:[0-9][0-9]))[0-9]{6}$`)

// ValidMpesaPhone reports whether phone looks like a Safaricom M-Pesa number.
func ValidMpesaPhone(phone string) bool {
	return mpesaPhonePattern.MatchString(strings.TrimSpace(phone))
}

type PaymentRequest struct {
	InvoiceID string `json:"invoice_id"`
	Phone     string `json:"phone"`
}

// PaymentSession identifies an in-flight payment confirmation.
type PaymentSession struct {
	ID        string        `json:"id"`
	InvoiceID string        `json:"invoice_id"`
	Status    PaymentStatus `json:"status"`
	StartedAt time.Time     `json:"started_at"`
}

type PaymentResult struct {
	InvoiceID   string        `json:"invoice_id"`
	Status      PaymentStatus `json:"status"`
	ConfirmedAt time.Time     `json:"confirmed_at"`
}

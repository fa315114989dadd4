package models

import "time"

type ReminderMethod string

const (
	ReminderMethodEmail ReminderMethod = "EMAIL"
	ReminderMethodSMS   ReminderMethod = "SMS"
)

func IsValidReminderMethod(m ReminderMethod) bool {
	return m == ReminderMethodEmail || m == ReminderMethodSMS
}

type ReminderType string

const (
	ReminderTypePreDue  ReminderType = "PRE_DUE"
	ReminderTypeOverdue ReminderType = "OVERDUE"
)

// ReminderConfig is the policy the automation evaluates invoices against.
type ReminderConfig struct {
	Enabled        bool             `json:"enabled" db:"enabled"`
	SendBeforeDays int              `json:"send_before_days" db:"send_before_days"`
	SendAfterDays  int              `json:"send_after_days" db:"send_after_days"`
	Methods        []ReminderMethod `json:"methods" db:"methods"`
}

// DefaultReminderConfig returns the policy a fresh installation starts with.
func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		Enabled:        true,
		SendBeforeDays: 3,
		SendAfterDays:  1,
		Methods:        []ReminderMethod{ReminderMethodEmail, ReminderMethodSMS},
	}
}

// Clone returns a copy that shares no backing storage with c.
func (c ReminderConfig) Clone() ReminderConfig {
	out := c
	out.Methods = append([]ReminderMethod(nil), c.Methods...)
	if out.Methods == nil {
		out.Methods = []ReminderMethod{}
	}
	return out
}

// NormalizeMethods drops duplicate methods while keeping first-seen order.
func NormalizeMethods(methods []ReminderMethod) []ReminderMethod {
	seen := make(map[ReminderMethod]struct{}, len(methods))
	out := make([]ReminderMethod, 0, len(methods))
	for _, m := range methods {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// SentReminder is an append-only log entry. TenantName is captured when the
// entry is created and is not updated if the tenant is renamed later.
type SentReminder struct {
	ID         string         `json:"id" db:"id"`
	InvoiceID  string         `json:"invoice_id" db:"invoice_id"`
	TenantName string         `json:"tenant_name" db:"tenant_name"`
	SentAt     time.Time      `json:"sent_at" db:"sent_at"`
	Method     ReminderMethod `json:"method" db:"method"`
	Type       ReminderType   `json:"type" db:"type"`
}

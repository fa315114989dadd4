package reminder

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stanstork/luxerent-api/internal/models"
)

// ErrInvalidConfiguration is returned when Evaluate is called without a policy.
var ErrInvalidConfiguration = errors.New("reminder: invalid configuration")

// Clock supplies the sent-at timestamp of new entries.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator supplies unique ids for new entries.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// UUIDGenerator produces random v4 UUIDs.
var UUIDGenerator IDGenerator = IDFunc(uuid.NewString)

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// Engine decides which invoices are due for a reminder. It keeps no state
// between calls; identity and timestamps come from the injected generator and
// clock.
type Engine struct {
	clock Clock
	ids   IDGenerator
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{clock: SystemClock, ids: UUIDGenerator}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns one log entry per (eligible invoice, configured method).
// Nothing passed in is modified. A disabled policy yields an empty slice; a nil
// policy is the only error.
func (e *Engine) Evaluate(invoices []models.Invoice, tenants []models.Tenant, cfg *models.ReminderConfig, referenceDate time.Time) ([]models.SentReminder, error) {
	if cfg == nil {
		return nil, ErrInvalidConfiguration
	}
	reminders := []models.SentReminder{}
	if !cfg.Enabled {
		return reminders, nil
	}

	names := tenantNames(tenants)
	for _, inv := range invoices {
		if inv.IsPaid() {
			continue
		}
		kind, ok := Classify(DaysUntil(inv.DueDate, referenceDate), cfg.SendBeforeDays, cfg.SendAfterDays)
		if !ok {
			continue
		}
		name, ok := names[inv.TenantID]
		if !ok {
			continue
		}
		for _, method := range cfg.Methods {
			reminders = append(reminders, models.SentReminder{
				ID:         e.ids.NewID(),
				InvoiceID:  inv.ID,
				TenantName: name,
				SentAt:     e.clock.Now(),
				Method:     method,
				Type:       kind,
			})
		}
	}
	return reminders, nil
}

// tenantNames indexes tenant names by id; the first tenant with a given id wins.
func tenantNames(tenants []models.Tenant) map[string]string {
	names := make(map[string]string, len(tenants))
	for _, t := range tenants {
		if _, ok := names[t.ID]; !ok {
			names[t.ID] = t.Name
		}
	}
	return names
}

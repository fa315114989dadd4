package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stanstork/luxerent-api/internal/models"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type InvoiceRepository interface {
	List(ctx context.Context) ([]models.Invoice, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (models.Invoice, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (models.Invoice, error)
}

type TenantRepository interface {
	List(ctx context.Context) ([]models.Tenant, error)
	Get(ctx context.Context, id string) (models.Tenant, error)
}

type ApartmentRepository interface {
	List(ctx context.Context) ([]models.Apartment, error)
}

// ReminderRepository holds the automation policy and the append-only log of
// reminders it has produced.
type ReminderRepository interface {
	GetConfig(ctx context.Context) (models.ReminderConfig, error)
	UpdateConfig(ctx context.Context, cfg models.ReminderConfig) (models.ReminderConfig, error)
	// AppendLogs adds entries to the log. Either all entries are stored or none.
	AppendLogs(ctx context.Context, entries []models.SentReminder) error
	// ListLogs returns at most limit entries, newest first.
	ListLogs(ctx context.Context, limit int) ([]models.SentReminder, error)
}

// Store groups the repositories of one backend.
type Store struct {
	Invoices   InvoiceRepository
	Tenants    TenantRepository
	Apartments ApartmentRepository
	Reminders  ReminderRepository
	Users      UserRepository
}

func NewPostgresStore(db *sql.DB) Store {
	return Store{
		Invoices:   NewInvoiceRepository(db),
		Tenants:    NewTenantRepository(db),
		Apartments: NewApartmentRepository(db),
		Reminders:  NewReminderRepository(db),
		Users:      NewUserRepository(db),
	}
}

func clampLogLimit(limit int) int {
	if limit <= 0 {
		return defaultLogLimit
	}
	if limit > maxLogLimit {
		return maxLogLimit
	}
	return limit
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

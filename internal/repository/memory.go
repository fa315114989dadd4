package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stanstork/luxerent-api/internal/models"
)

// memoryDB backs every repository of the in-process store. Data lives for
// the lifetime of the process.
type memoryDB struct {
	mu         sync.RWMutex
	apartments []models.Apartment
	tenants    []models.Tenant
	invoices   []models.Invoice
	config     models.ReminderConfig
	logs       []models.SentReminder
	users      map[string]models.User
	emails     map[string]string
}

// NewMemoryStore returns a store whose repositories share one in-process
// dataset initialised from seed.
func NewMemoryStore(seed Seed) Store {
	db := &memoryDB{
		apartments: append([]models.Apartment(nil), seed.Apartments...),
		tenants:    append([]models.Tenant(nil), seed.Tenants...),
		invoices:   append([]models.Invoice(nil), seed.Invoices...),
		config:     models.DefaultReminderConfig(),
		users:      make(map[string]models.User),
		emails:     make(map[string]string),
	}
	if seed.Config != nil {
		db.config = seed.Config.Clone()
	}
	return Store{
		Invoices:   &memoryInvoices{db: db},
		Tenants:    &memoryTenants{db: db},
		Apartments: &memoryApartments{db: db},
		Reminders:  &memoryReminders{db: db},
		Users:      &memoryUsers{db: db},
	}
}

type memoryInvoices struct{ db *memoryDB }

func (r *memoryInvoices) List(ctx context.Context) ([]models.Invoice, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return append([]models.Invoice{}, r.db.invoices...), nil
}

func (r *memoryInvoices) ListByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Invoice{}
	for _, inv := range r.db.invoices {
		if inv.TenantID == tenantID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memoryInvoices) Get(ctx context.Context, id string) (models.Invoice, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, inv := range r.db.invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return models.Invoice{}, ErrNotFound
}

func (r *memoryInvoices) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (models.Invoice, error) {
	if !models.IsValidPaymentStatus(status) {
		return models.Invoice{}, fmt.Errorf("invalid payment status %q", status)
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.invoices {
		if r.db.invoices[i].ID == id {
			r.db.invoices[i].Status = status
			return r.db.invoices[i], nil
		}
	}
	return models.Invoice{}, ErrNotFound
}

type memoryTenants struct{ db *memoryDB }

func (r *memoryTenants) List(ctx context.Context) ([]models.Tenant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return append([]models.Tenant{}, r.db.tenants...), nil
}

func (r *memoryTenants) Get(ctx context.Context, id string) (models.Tenant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, t := range r.db.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Tenant{}, ErrNotFound
}

type memoryApartments struct{ db *memoryDB }

func (r *memoryApartments) List(ctx context.Context) ([]models.Apartment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return append([]models.Apartment{}, r.db.apartments...), nil
}

type memoryReminders struct{ db *memoryDB }

func (r *memoryReminders) GetConfig(ctx context.Context) (models.ReminderConfig, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.config.Clone(), nil
}

func (r *memoryReminders) UpdateConfig(ctx context.Context, cfg models.ReminderConfig) (models.ReminderConfig, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.config = cfg.Clone()
	return r.db.config.Clone(), nil
}

func (r *memoryReminders) AppendLogs(ctx context.Context, entries []models.SentReminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.logs = append(r.db.logs, entries...)
	return nil
}

func (r *memoryReminders) ListLogs(ctx context.Context, limit int) ([]models.SentReminder, error) {
	limit = clampLogLimit(limit)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.SentReminder, 0, min(limit, len(r.db.logs)))
	for i := len(r.db.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.db.logs[i])
	}
	return out, nil
}

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) CreateUser(params CreateUserParams) (models.User, error) {
	user, err := newUser(params, time.Now())
	if err != nil {
		return models.User{}, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, taken := r.db.emails[user.Email]; taken {
		return models.User{}, ErrEmailTaken
	}
	r.db.users[user.ID] = user
	r.db.emails[user.Email] = user.ID
	return user, nil
}

func (r *memoryUsers) AuthenticateUser(email, password string) (models.User, error) {
	r.db.mu.RLock()
	id, ok := r.db.emails[normalizeEmail(email)]
	user := r.db.users[id]
	r.db.mu.RUnlock()
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	if err := checkPassword(user, password); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *memoryUsers) IsEmailAvailable(email string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	_, taken := r.db.emails[normalizeEmail(email)]
	return !taken, nil
}

func (r *memoryUsers) GetUserByID(userID string) (models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	user, ok := r.db.users[userID]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

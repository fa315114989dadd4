package automation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/metrics"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/notification"
	"github.com/stanstork/luxerent-api/internal/reminder"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/textgen"
)

const (
	triggerManual   = "manual"
	triggerSchedule = "schedule"
)

// RunResult describes one automation run.
type RunResult struct {
	Reminders []models.SentReminder `json:"reminders"`
	Count     int                   `json:"count"`
	Duration  time.Duration         `json:"-"`
}

type Options struct {
	// Interval between scheduled runs. Zero disables the schedule; runs then
	// happen only on Notify or Run.
	Interval time.Duration
	// SimulatedDelay pauses each run before the log is written.
	SimulatedDelay time.Duration
	Clock          reminder.Clock
}

// Service evaluates the stored portfolio against the stored policy, records
// the resulting reminders and hands them to the notifiers.
type Service struct {
	store    repository.Store
	engine   *reminder.Engine
	text     textgen.Generator
	notifier notification.Notifier
	clock    reminder.Clock
	opts     Options
	logger   zerolog.Logger

	appendMu sync.Mutex
	notifyCh chan struct{}
}

func NewService(store repository.Store, engine *reminder.Engine, text textgen.Generator, notifier notification.Notifier, logger zerolog.Logger, opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = reminder.SystemClock
	}
	return &Service{
		store:    store,
		engine:   engine,
		text:     text,
		notifier: notifier,
		clock:    clock,
		opts:     opts,
		logger:   logger.With().Str("component", "automation").Logger(),
		notifyCh: make(chan struct{}, 1),
	}
}

type snapshot struct {
	invoices []models.Invoice
	tenants  []models.Tenant
	config   models.ReminderConfig
}

func (s *Service) snapshot(ctx context.Context) (snapshot, error) {
	invoices, err := s.store.Invoices.List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load invoices: %w", err)
	}
	tenants, err := s.store.Tenants.List(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load tenants: %w", err)
	}
	cfg, err := s.store.Reminders.GetConfig(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("load reminder config: %w", err)
	}
	return snapshot{invoices: invoices, tenants: tenants, config: cfg}, nil
}

// Run performs one automation pass and returns the reminders it recorded.
// Delivery failures are logged and counted but never fail the run.
func (s *Service) Run(ctx context.Context) (RunResult, error) {
	return s.run(ctx, triggerManual)
}

func (s *Service) run(ctx context.Context, trigger string) (result RunResult, err error) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		metrics.ObserveAutomationRun(trigger, err, result.Duration)
	}()

	snap, err := s.snapshot(ctx)
	if err != nil {
		return RunResult{}, err
	}

	entries, err := s.engine.Evaluate(snap.invoices, snap.tenants, &snap.config, s.clock.Now())
	if err != nil {
		return RunResult{}, err
	}

	if d := s.opts.SimulatedDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return RunResult{}, ctx.Err()
		}
	}

	if len(entries) > 0 {
		s.appendMu.Lock()
		err = s.store.Reminders.AppendLogs(ctx, entries)
		s.appendMu.Unlock()
		if err != nil {
			return RunResult{}, fmt.Errorf("append reminder log: %w", err)
		}
	}

	for _, e := range entries {
		metrics.IncReminderEmitted(string(e.Type), string(e.Method))
	}
	s.dispatch(ctx, entries, snap)

	s.logger.Info().
		Str("trigger", trigger).
		Int("reminders", len(entries)).
		Bool("enabled", snap.config.Enabled).
		Msg("automation run finished")

	return RunResult{Reminders: entries, Count: len(entries)}, nil
}

func (s *Service) dispatch(ctx context.Context, entries []models.SentReminder, snap snapshot) {
	if len(entries) == 0 || s.notifier == nil {
		return
	}

	invoices := make(map[string]models.Invoice, len(snap.invoices))
	for _, inv := range snap.invoices {
		invoices[inv.ID] = inv
	}
	tenants := make(map[string]models.Tenant, len(snap.tenants))
	for _, t := range snap.tenants {
		if _, ok := tenants[t.ID]; !ok {
			tenants[t.ID] = t
		}
	}

	// one draft per invoice, shared by all of its channels
	bodies := make(map[string]string)
	for _, e := range entries {
		inv := invoices[e.InvoiceID]
		tenant := tenants[inv.TenantID]

		body, ok := bodies[e.InvoiceID]
		if !ok {
			body = s.text.GenerateReminderMessage(ctx, e.TenantName, inv.Amount, inv.DueDate, e.Type == models.ReminderTypeOverdue)
			if body == "" {
				body = textgen.ReminderFallback(e.TenantName, inv.Amount, inv.DueDate)
			}
			bodies[e.InvoiceID] = body
		}

		msg := notification.Message{Reminder: e, Recipient: recipient(tenant, e.Method), Body: body}
		if err := s.notifier.Notify(ctx, msg); err != nil {
			metrics.IncNotifyFailure(string(e.Method))
		}
	}
}

func recipient(t models.Tenant, method models.ReminderMethod) string {
	switch method {
	case models.ReminderMethodEmail:
		return t.Email
	case models.ReminderMethodSMS:
		return t.Phone
	}
	return ""
}

// Notify requests an immediate run from the loop started by Start. It never
// blocks; a request already pending absorbs this one.
func (s *Service) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// Start runs the automation on its interval and on Notify until ctx is done.
func (s *Service) Start(ctx context.Context) {
	var tick <-chan time.Time
	if s.opts.Interval > 0 {
		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	s.logger.Info().Dur("interval", s.opts.Interval).Msg("automation loop started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("automation loop stopped")
			return
		case <-tick:
			s.runLogged(ctx, triggerSchedule)
		case <-s.notifyCh:
			s.runLogged(ctx, triggerManual)
		}
	}
}

func (s *Service) runLogged(ctx context.Context, trigger string) {
	if _, err := s.run(ctx, trigger); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("automation run failed")
	}
}

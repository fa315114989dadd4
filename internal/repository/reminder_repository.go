package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/stanstork/luxerent-api/internal/models"
)

type reminderRepository struct {
	db *sql.DB
}

func NewReminderRepository(db *sql.DB) ReminderRepository {
	return &reminderRepository{db: db}
}

// The policy is a single row keyed by id = 1, created by the initial migration.
func (r *reminderRepository) GetConfig(ctx context.Context) (models.ReminderConfig, error) {
	const query = `
		SELECT enabled, send_before_days, send_after_days, methods
		FROM luxerent.reminder_config
		WHERE id = 1`

	cfg, err := scanReminderConfig(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultReminderConfig(), nil
	}
	return cfg, err
}

func (r *reminderRepository) UpdateConfig(ctx context.Context, cfg models.ReminderConfig) (models.ReminderConfig, error) {
	const query = `
		INSERT INTO luxerent.reminder_config (id, enabled, send_before_days, send_after_days, methods, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    send_before_days = EXCLUDED.send_before_days,
		    send_after_days = EXCLUDED.send_after_days,
		    methods = EXCLUDED.methods,
		    updated_at = NOW()
		RETURNING enabled, send_before_days, send_after_days, methods`

	row := r.db.QueryRowContext(ctx, query, cfg.Enabled, cfg.SendBeforeDays, cfg.SendAfterDays, pq.Array(methodStrings(cfg.Methods)))
	return scanReminderConfig(row)
}

func (r *reminderRepository) AppendLogs(ctx context.Context, entries []models.SentReminder) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reminder log tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `
		INSERT INTO luxerent.sent_reminders (id, invoice_id, tenant_name, sent_at, method, type)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.ID, e.InvoiceID, e.TenantName, e.SentAt, e.Method, e.Type); err != nil {
			return fmt.Errorf("insert reminder %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reminder log: %w", err)
	}
	return nil
}

func (r *reminderRepository) ListLogs(ctx context.Context, limit int) ([]models.SentReminder, error) {
	const query = `
		SELECT id, invoice_id, tenant_name, sent_at, method, type
		FROM luxerent.sent_reminders
		ORDER BY sent_at DESC, seq DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, clampLogLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query reminder log: %w", err)
	}
	defer rows.Close()

	logs := []models.SentReminder{}
	for rows.Next() {
		var e models.SentReminder
		if err := rows.Scan(&e.ID, &e.InvoiceID, &e.TenantName, &e.SentAt, &e.Method, &e.Type); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func scanReminderConfig(scanner rowScanner) (models.ReminderConfig, error) {
	var (
		cfg     models.ReminderConfig
		methods pq.StringArray
	)
	if err := scanner.Scan(&cfg.Enabled, &cfg.SendBeforeDays, &cfg.SendAfterDays, &methods); err != nil {
		return models.ReminderConfig{}, err
	}
	cfg.Methods = make([]models.ReminderMethod, 0, len(methods))
	for _, m := range methods {
		cfg.Methods = append(cfg.Methods, models.ReminderMethod(m))
	}
	return cfg, nil
}

func methodStrings(methods []models.ReminderMethod) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}

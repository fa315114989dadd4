package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stanstork/luxerent-api/internal/models"
)

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `id, tenant_id, apartment_id, amount, due_date, status, description, created_at`

func (r *invoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	const query = `
		SELECT ` + invoiceColumns + `
		FROM luxerent.invoices
		ORDER BY due_date DESC, id`
	return r.query(ctx, query)
}

func (r *invoiceRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.Invoice, error) {
	const query = `
		SELECT ` + invoiceColumns + `
		FROM luxerent.invoices
		WHERE tenant_id = $1
		ORDER BY due_date DESC, id`
	return r.query(ctx, query, tenantID)
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (models.Invoice, error) {
	const query = `
		SELECT ` + invoiceColumns + `
		FROM luxerent.invoices
		WHERE id = $1`
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, ErrNotFound
	}
	return inv, err
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (models.Invoice, error) {
	if !models.IsValidPaymentStatus(status) {
		return models.Invoice{}, fmt.Errorf("invalid payment status %q", status)
	}
	const query = `
		UPDATE luxerent.invoices
		SET status = $2
		WHERE id = $1
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id, status))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, ErrNotFound
	}
	return inv, err
}

func (r *invoiceRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

func scanInvoice(scanner rowScanner) (models.Invoice, error) {
	var (
		inv         models.Invoice
		description sql.NullString
	)
	if err := scanner.Scan(
		&inv.ID,
		&inv.TenantID,
		&inv.ApartmentID,
		&inv.Amount,
		&inv.DueDate,
		&inv.Status,
		&description,
		&inv.CreatedAt,
	); err != nil {
		return models.Invoice{}, err
	}
	inv.Description = description.String
	return inv, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stanstork/luxerent-api/internal/models"
)

type tenantRepository struct {
	db *sql.DB
}

func NewTenantRepository(db *sql.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	const query = `
		SELECT id, name, email, phone, apartment_id, lease_start, lease_end
		FROM luxerent.tenants
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.ApartmentID, &t.LeaseStart, &t.LeaseEnd); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *tenantRepository) Get(ctx context.Context, id string) (models.Tenant, error) {
	const query = `
		SELECT id, name, email, phone, apartment_id, lease_start, lease_end
		FROM luxerent.tenants
		WHERE id = $1`

	var t models.Tenant
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Email, &t.Phone, &t.ApartmentID, &t.LeaseStart, &t.LeaseEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tenant{}, ErrNotFound
	}
	return t, err
}

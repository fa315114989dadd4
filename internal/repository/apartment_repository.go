package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stanstork/luxerent-api/internal/models"
)

type apartmentRepository struct {
	db *sql.DB
}

func NewApartmentRepository(db *sql.DB) ApartmentRepository {
	return &apartmentRepository{db: db}
}

func (r *apartmentRepository) List(ctx context.Context) ([]models.Apartment, error) {
	const query = `
		SELECT id, unit_number, floor, type, rent_amount, status, landlord_id
		FROM luxerent.apartments
		ORDER BY unit_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query apartments: %w", err)
	}
	defer rows.Close()

	apartments := []models.Apartment{}
	for rows.Next() {
		var (
			apt        models.Apartment
			landlordID sql.NullString
		)
		if err := rows.Scan(&apt.ID, &apt.UnitNumber, &apt.Floor, &apt.Type, &apt.RentAmount, &apt.Status, &landlordID); err != nil {
			return nil, err
		}
		if landlordID.Valid {
			val := landlordID.String
			apt.LandlordID = &val
		}
		apartments = append(apartments, apt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apartments, nil
}

package models

import "github.com/shopspring/decimal"

type ApartmentStatus string

const (
	ApartmentStatusOccupied    ApartmentStatus = "OCCUPIED"
	ApartmentStatusVacant      ApartmentStatus = "VACANT"
	ApartmentStatusMaintenance ApartmentStatus = "MAINTENANCE"
)

type Apartment struct {
	ID         string          `json:"id" db:"id"`
	UnitNumber string          `json:"unit_number" db:"unit_number"`
	Floor      int             `json:"floor" db:"floor"`
	Type       string          `json:"type" db:"type"` // e.g. "2BHK", "Studio"
	RentAmount decimal.Decimal `json:"rent_amount" db:"rent_amount"`
	Status     ApartmentStatus `json:"status" db:"status"`
	LandlordID *string         `json:"landlord_id,omitempty" db:"landlord_id"`
}

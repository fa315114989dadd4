package models

import "time"

type Tenant struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	Phone       string    `json:"phone" db:"phone"`
	ApartmentID string    `json:"apartment_id" db:"apartment_id"`
	LeaseStart  time.Time `json:"lease_start" db:"lease_start"`
	LeaseEnd    time.Time `json:"lease_end" db:"lease_end"`
}

package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
)

// Seed is the initial content of a store. It is also the JSON shape of the
// fixture files read by the remind command.
type Seed struct {
	Apartments []models.Apartment     `json:"apartments"`
	Tenants    []models.Tenant        `json:"tenants"`
	Invoices   []models.Invoice       `json:"invoices"`
	Config     *models.ReminderConfig `json:"config,omitempty"`
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SamplePortfolio is the demo building shipped with the dashboard.
func SamplePortfolio() Seed {
	cfg := models.DefaultReminderConfig()
	return Seed{
		Apartments: []models.Apartment{
			{ID: "1", UnitNumber: "101", Floor: 1, Type: "Studio", RentAmount: decimal.NewFromInt(1200), Status: models.ApartmentStatusOccupied},
			{ID: "2", UnitNumber: "102", Floor: 1, Type: "1BHK", RentAmount: decimal.NewFromInt(1500), Status: models.ApartmentStatusOccupied},
			{ID: "3", UnitNumber: "201", Floor: 2, Type: "2BHK", RentAmount: decimal.NewFromInt(2200), Status: models.ApartmentStatusVacant},
			{ID: "4", UnitNumber: "202", Floor: 2, Type: "2BHK", RentAmount: decimal.NewFromInt(2200), Status: models.ApartmentStatusOccupied},
			{ID: "5", UnitNumber: "301", Floor: 3, Type: "Penthouse", RentAmount: decimal.NewFromInt(4500), Status: models.ApartmentStatusMaintenance},
		},
		Tenants: []models.Tenant{
			{ID: "t1", Name: "John Doe", Email: "john@example.com", Phone: "555-0101", ApartmentID: "1", LeaseStart: day(2023, time.January, 1), LeaseEnd: day(2024, time.January, 1)},
			{ID: "t2", Name: "Jane Smith", Email: "jane@example.com", Phone: "555-0102", ApartmentID: "2", LeaseStart: day(2023, time.May, 15), LeaseEnd: day(2024, time.May, 15)},
			{ID: "t3", Name: "Robert Brown", Email: "robert@example.com", Phone: "555-0103", ApartmentID: "4", LeaseStart: day(2023, time.August, 1), LeaseEnd: day(2024, time.August, 1)},
		},
		Invoices: []models.Invoice{
			{ID: "inv1", TenantID: "t1", ApartmentID: "1", Amount: decimal.NewFromInt(1200), DueDate: day(2023, time.November, 1), Status: models.PaymentStatusPaid, Description: "November Rent", CreatedAt: day(2023, time.October, 25)},
			{ID: "inv2", TenantID: "t2", ApartmentID: "2", Amount: decimal.NewFromInt(1500), DueDate: day(2023, time.November, 1), Status: models.PaymentStatusPending, Description: "November Rent", CreatedAt: day(2023, time.October, 25)},
			{ID: "inv3", TenantID: "t3", ApartmentID: "4", Amount: decimal.NewFromInt(2200), DueDate: day(2023, time.November, 1), Status: models.PaymentStatusOverdue, Description: "November Rent", CreatedAt: day(2023, time.October, 25)},
			{ID: "inv4", TenantID: "t1", ApartmentID: "1", Amount: decimal.NewFromInt(1200), DueDate: day(2023, time.October, 1), Status: models.PaymentStatusPaid, Description: "October Rent", CreatedAt: day(2023, time.September, 25)},
		},
		Config: &cfg,
	}
}

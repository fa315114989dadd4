package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
)

// Occupancy counts units by status.
type Occupancy struct {
	Units       int `json:"units"`
	Occupied    int `json:"occupied"`
	Vacant      int `json:"vacant"`
	Maintenance int `json:"maintenance"`
	// Rate is the occupied share of all units as a whole percentage.
	Rate int `json:"rate"`
}

func CountOccupancy(apartments []models.Apartment) Occupancy {
	o := Occupancy{Units: len(apartments)}
	for _, apt := range apartments {
		switch apt.Status {
		case models.ApartmentStatusOccupied:
			o.Occupied++
		case models.ApartmentStatusVacant:
			o.Vacant++
		case models.ApartmentStatusMaintenance:
			o.Maintenance++
		}
	}
	o.Rate = percent(decimal.NewFromInt(int64(o.Occupied)), decimal.NewFromInt(int64(o.Units)))
	return o
}

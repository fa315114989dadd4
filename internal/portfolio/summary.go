// Package portfolio computes the landlord dashboard figures and payment
// receipts from invoices, tenants and apartments.
package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary totals a set of invoices by payment state.
type Summary struct {
	// Billed is the sum of every invoice, whatever its status.
	Billed         decimal.Decimal
	Collected      decimal.Decimal
	Pending        decimal.Decimal
	PaidCount      int
	OpenCount      int
	OverdueTenants []string
}

// Summarize totals paid and open invoices. Cancelled invoices count towards
// the billed total only.
func Summarize(invoices []models.Invoice) Summary {
	s := Summary{Billed: decimal.Zero, Collected: decimal.Zero, Pending: decimal.Zero}
	seen := make(map[string]bool)
	for _, inv := range invoices {
		s.Billed = s.Billed.Add(inv.Amount)
		switch inv.Status {
		case models.PaymentStatusPaid:
			s.Collected = s.Collected.Add(inv.Amount)
			s.PaidCount++
		case models.PaymentStatusPending, models.PaymentStatusOverdue:
			s.Pending = s.Pending.Add(inv.Amount)
			s.OpenCount++
			if inv.Status == models.PaymentStatusOverdue && !seen[inv.TenantID] {
				seen[inv.TenantID] = true
				s.OverdueTenants = append(s.OverdueTenants, inv.TenantID)
			}
		}
	}
	return s
}

// CollectionRate is the collected share of the billed total as a whole
// percentage. Nothing billed gives 0.
func (s Summary) CollectionRate() int {
	return percent(s.Collected, s.Billed)
}

func percent(part, whole decimal.Decimal) int {
	if whole.IsZero() {
		return 0
	}
	return int(part.Mul(hundred).Div(whole).Round(0).IntPart())
}

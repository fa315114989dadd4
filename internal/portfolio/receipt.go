package portfolio

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
)

const (
	PaymentGateway = "M-Pesa Express"
	SupportContact = "0759208088"
)

var ErrNotPaid = errors.New("invoice is not paid")

// Receipt is the proof of payment issued for a settled invoice.
type Receipt struct {
	Number      string          `json:"number"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SettledOn   time.Time       `json:"settled_on"`
	Gateway     string          `json:"gateway"`

	TenantName  string `json:"tenant_name"`
	TenantEmail string `json:"tenant_email"`
	TenantPhone string `json:"tenant_phone"`

	UnitNumber string `json:"unit_number"`
	Floor      int    `json:"floor"`
	UnitType   string `json:"unit_type"`

	SupportContact string    `json:"support_contact"`
	IssuedAt       time.Time `json:"issued_at"`
}

// NewReceipt builds the receipt for a paid invoice. The invoice's creation
// date stands in for the settlement date since payments record no timestamp
// of their own.
func NewReceipt(inv models.Invoice, tenant models.Tenant, apt models.Apartment, issuedAt time.Time) (Receipt, error) {
	if !inv.IsPaid() {
		return Receipt{}, ErrNotPaid
	}
	phone := tenant.Phone
	if phone == "" {
		phone = "N/A"
	}
	return Receipt{
		Number:         "#" + strings.ToUpper(inv.ID),
		InvoiceID:      inv.ID,
		Description:    inv.Description,
		Amount:         inv.Amount,
		SettledOn:      inv.CreatedAt,
		Gateway:        PaymentGateway,
		TenantName:     tenant.Name,
		TenantEmail:    tenant.Email,
		TenantPhone:    phone,
		UnitNumber:     apt.UnitNumber,
		Floor:          apt.Floor,
		UnitType:       apt.Type,
		SupportContact: SupportContact,
		IssuedAt:       issuedAt.UTC(),
	}, nil
}

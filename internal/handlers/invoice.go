package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/authz"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/payment"
	"github.com/stanstork/luxerent-api/internal/portfolio"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/textgen"
)

// PaymentService starts and awaits payment confirmations.
type PaymentService interface {
	StartPayment(ctx context.Context, req models.PaymentRequest) (models.PaymentSession, error)
	AwaitPayment(ctx context.Context, sessionID string) (models.PaymentResult, error)
	SessionInvoice(ctx context.Context, sessionID string) (string, error)
}

type InvoiceHandler struct {
	invoices   repository.InvoiceRepository
	tenants    repository.TenantRepository
	apartments repository.ApartmentRepository
	payments   PaymentService
	text       textgen.Generator
	now        func() time.Time
	logger     zerolog.Logger
}

type payRequest struct {
	Phone string `json:"phone" validate:"required"`
}

func NewInvoiceHandler(invoices repository.InvoiceRepository, tenants repository.TenantRepository, apartments repository.ApartmentRepository, payments PaymentService, text textgen.Generator, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:   invoices,
		tenants:    tenants,
		apartments: apartments,
		payments:   payments,
		text:       text,
		now:        time.Now,
		logger:     logger.With().Str("handler", "invoice").Logger(),
	}
}

// List returns the invoices visible to the caller: all of them for landlords
// and admins, their own for tenants.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		invoices []models.Invoice
		err      error
	)
	if role, _ := authz.RoleFromRequest(r); role == models.RoleTenant {
		tid, ok := authz.TenantIDFromRequest(r)
		if !ok {
			http.Error(w, "Missing tenant context", http.StatusUnauthorized)
			return
		}
		invoices, err = h.invoices.ListByTenant(r.Context(), tid)
	} else {
		invoices, err = h.invoices.List(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list invoices")
		http.Error(w, "Failed to load invoices", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// loadVisible fetches the invoice named in the route.
func (h *InvoiceHandler) loadVisible(w http.ResponseWriter, r *http.Request) (models.Invoice, bool) {
	invoiceID := strings.TrimSpace(mux.Vars(r)["invoiceID"])
	if invoiceID == "" {
		http.Error(w, "Invoice ID is required", http.StatusBadRequest)
		return models.Invoice{}, false
	}
	return h.loadInvoice(w, r, invoiceID)
}

// loadInvoice fetches an invoice on behalf of the caller. Tenants get a
// not-found for invoices that are not theirs.
func (h *InvoiceHandler) loadInvoice(w http.ResponseWriter, r *http.Request, invoiceID string) (models.Invoice, bool) {
	inv, err := h.invoices.Get(r.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Invoice not found", http.StatusNotFound)
			return models.Invoice{}, false
		}
		h.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("failed to load invoice")
		http.Error(w, "Failed to load invoice", http.StatusInternalServerError)
		return models.Invoice{}, false
	}
	if !visibleTo(r, inv) {
		http.Error(w, "Invoice not found", http.StatusNotFound)
		return models.Invoice{}, false
	}
	return inv, true
}

func visibleTo(r *http.Request, inv models.Invoice) bool {
	if role, _ := authz.RoleFromRequest(r); role != models.RoleTenant {
		return true
	}
	tid, ok := authz.TenantIDFromRequest(r)
	return ok && tid == inv.TenantID
}

// LateNotice drafts a late payment notice for the invoice's tenant.
func (h *InvoiceHandler) LateNotice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	tenant, ok := h.loadTenant(w, r, inv.TenantID)
	if !ok {
		return
	}

	notice := h.text.GenerateLateNotice(r.Context(), tenant.Name, inv.Amount, inv.DueDate)
	writeJSON(w, http.StatusOK, map[string]string{
		"invoice_id": inv.ID,
		"notice":     notice,
	})
}

// Receipt issues the payment receipt for a settled invoice.
func (h *InvoiceHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	if !inv.IsPaid() {
		http.Error(w, "Invoice is not paid", http.StatusConflict)
		return
	}
	tenant, ok := h.loadTenant(w, r, inv.TenantID)
	if !ok {
		return
	}
	apartments, err := h.apartments.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list apartments")
		http.Error(w, "Failed to load apartments", http.StatusInternalServerError)
		return
	}
	var apt models.Apartment
	for _, a := range apartments {
		if a.ID == inv.ApartmentID {
			apt = a
			break
		}
	}

	receipt, err := portfolio.NewReceipt(inv, tenant, apt, h.now())
	if err != nil {
		if errors.Is(err, portfolio.ErrNotPaid) {
			http.Error(w, "Invoice is not paid", http.StatusConflict)
			return
		}
		h.logger.Error().Err(err).Str("invoice_id", inv.ID).Msg("failed to build receipt")
		http.Error(w, "Failed to build receipt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *InvoiceHandler) loadTenant(w http.ResponseWriter, r *http.Request, tenantID string) (models.Tenant, bool) {
	tenant, err := h.tenants.Get(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Tenant not found", http.StatusNotFound)
			return models.Tenant{}, false
		}
		h.logger.Error().Err(err).Str("tenant_id", tenantID).Msg("failed to load tenant")
		http.Error(w, "Failed to load tenant", http.StatusInternalServerError)
		return models.Tenant{}, false
	}
	return tenant, true
}

// Pay starts an M-Pesa confirmation for the invoice and returns the session
// to poll.
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	var req payRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.payments.StartPayment(r.Context(), models.PaymentRequest{InvoiceID: inv.ID, Phone: strings.TrimSpace(req.Phone)})
	if err != nil {
		h.writePaymentError(w, err, inv.ID)
		return
	}
	writeJSON(w, http.StatusAccepted, sess)
}

// PaymentStatus blocks until the payment session completes or the request
// is cancelled. Sessions for invoices the caller cannot see are not found.
func (h *InvoiceHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(mux.Vars(r)["sessionID"])
	if sessionID == "" {
		http.Error(w, "Session ID is required", http.StatusBadRequest)
		return
	}
	invoiceID, err := h.payments.SessionInvoice(r.Context(), sessionID)
	if err != nil {
		h.writePaymentError(w, err, "")
		return
	}
	if _, ok := h.loadInvoice(w, r, invoiceID); !ok {
		return
	}
	res, err := h.payments.AwaitPayment(r.Context(), sessionID)
	if err != nil {
		h.writePaymentError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *InvoiceHandler) writePaymentError(w http.ResponseWriter, err error, invoiceID string) {
	switch {
	case errors.Is(err, payment.ErrInvalidPhone):
		http.Error(w, "Invalid M-Pesa phone number", http.StatusBadRequest)
	case errors.Is(err, payment.ErrInvoiceNotFound):
		http.Error(w, "Invoice not found", http.StatusNotFound)
	case errors.Is(err, payment.ErrUnknownSession):
		http.Error(w, "Payment session not found", http.StatusNotFound)
	case errors.Is(err, payment.ErrAlreadyPaid):
		http.Error(w, "Invoice is already paid", http.StatusConflict)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "Payment confirmation timed out", http.StatusGatewayTimeout)
	default:
		h.logger.Error().Err(err).Str("invoice_id", invoiceID).Msg("payment failed")
		http.Error(w, "Payment failed", http.StatusBadGateway)
	}
}

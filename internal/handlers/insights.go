package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/portfolio"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/textgen"
)

type InsightsHandler struct {
	invoices   repository.InvoiceRepository
	tenants    repository.TenantRepository
	apartments repository.ApartmentRepository
	text       textgen.Generator
	logger     zerolog.Logger
}

func NewInsightsHandler(invoices repository.InvoiceRepository, tenants repository.TenantRepository, apartments repository.ApartmentRepository, text textgen.Generator, logger zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		invoices:   invoices,
		tenants:    tenants,
		apartments: apartments,
		text:       text,
		logger:     logger.With().Str("handler", "insights").Logger(),
	}
}

// Get returns the dashboard figures for the portfolio with a drafted
// financial analysis.
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list invoices")
		http.Error(w, "Failed to load invoices", http.StatusInternalServerError)
		return
	}
	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list tenants")
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}
	apartments, err := h.apartments.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list apartments")
		http.Error(w, "Failed to load apartments", http.StatusInternalServerError)
		return
	}

	summary := portfolio.Summarize(invoices)
	overdue := summary.OverdueTenants
	if overdue == nil {
		overdue = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"billed":          summary.Billed.StringFixed(2),
		"collected":       summary.Collected.StringFixed(2),
		"pending":         summary.Pending.StringFixed(2),
		"collection_rate": summary.CollectionRate(),
		"paid_count":      summary.PaidCount,
		"open_count":      summary.OpenCount,
		"overdue_tenants": overdue,
		"occupancy":       portfolio.CountOccupancy(apartments),
		"analysis":        h.text.AnalyzeFinancials(r.Context(), invoices, tenants),
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/authz"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
)

// DirectoryHandler serves the tenant and apartment listings.
type DirectoryHandler struct {
	tenants    repository.TenantRepository
	apartments repository.ApartmentRepository
	logger     zerolog.Logger
}

func NewDirectoryHandler(tenants repository.TenantRepository, apartments repository.ApartmentRepository, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		tenants:    tenants,
		apartments: apartments,
		logger:     logger.With().Str("handler", "directory").Logger(),
	}
}

// ListTenants returns every tenant to landlords and admins, and only their own
// record to tenants.
func (h *DirectoryHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	role, _ := authz.RoleFromRequest(r)
	if role == models.RoleTenant {
		tid, ok := authz.TenantIDFromRequest(r)
		if !ok {
			http.Error(w, "Missing tenant context", http.StatusUnauthorized)
			return
		}
		tenant, err := h.tenants.Get(r.Context(), tid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeJSON(w, http.StatusOK, []models.Tenant{})
				return
			}
			h.logger.Error().Err(err).Msg("failed to load tenant")
			http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, []models.Tenant{tenant})
		return
	}

	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list tenants")
		http.Error(w, "Failed to load tenants", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tenants)
}

func (h *DirectoryHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.apartments.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list apartments")
		http.Error(w, "Failed to load apartments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, apartments)
}

package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/automation"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
)

// AutomationRunner performs one reminder automation pass.
type AutomationRunner interface {
	Run(ctx context.Context) (automation.RunResult, error)
}

type ReminderHandler struct {
	reminders repository.ReminderRepository
	runner    AutomationRunner
	logger    zerolog.Logger
}

type reminderConfigRequest struct {
	Enabled        *bool                   `json:"enabled" validate:"required"`
	SendBeforeDays *int                    `json:"send_before_days" validate:"required,gte=0"`
	SendAfterDays  *int                    `json:"send_after_days" validate:"required,gte=0"`
	Methods        []models.ReminderMethod `json:"methods" validate:"required,dive,oneof=EMAIL SMS"`
}

func NewReminderHandler(reminders repository.ReminderRepository, runner AutomationRunner, logger zerolog.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		runner:    runner,
		logger:    logger.With().Str("handler", "reminder").Logger(),
	}
}

func (h *ReminderHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.reminders.GetConfig(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load reminder config")
		http.Error(w, "Failed to load reminder config", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateConfig replaces the whole policy. Duplicate methods are collapsed.
func (h *ReminderHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req reminderConfigRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := h.reminders.UpdateConfig(r.Context(), models.ReminderConfig{
		Enabled:        *req.Enabled,
		SendBeforeDays: *req.SendBeforeDays,
		SendAfterDays:  *req.SendAfterDays,
		Methods:        models.NormalizeMethods(req.Methods),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to save reminder config")
		http.Error(w, "Failed to save reminder config", http.StatusInternalServerError)
		return
	}
	h.logger.Info().
		Bool("enabled", cfg.Enabled).
		Int("send_before_days", cfg.SendBeforeDays).
		Int("send_after_days", cfg.SendAfterDays).
		Msg("reminder config updated")
	writeJSON(w, http.StatusOK, cfg)
}

// Run triggers an automation pass and returns the reminders it produced.
func (h *ReminderHandler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.runner.Run(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("automation run failed")
		http.Error(w, "Automation run failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ReminderHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	logs, err := h.reminders.ListLogs(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list reminder logs")
		http.Error(w, "Failed to load reminder logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs": logs,
	})
}

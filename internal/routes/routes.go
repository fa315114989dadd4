package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stanstork/luxerent-api/internal/authz"
	"github.com/stanstork/luxerent-api/internal/handlers"
	"github.com/stanstork/luxerent-api/internal/models"
)

// NewRouter sets up the API routes
func NewRouter(
	auth *handlers.AuthHandler,
	invoices *handlers.InvoiceHandler,
	directory *handlers.DirectoryHandler,
	reminders *handlers.ReminderHandler,
	insights *handlers.InsightsHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", handlers.HealthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public auth endpoints
	router.HandleFunc("/api/signup", auth.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/api/signup/available", auth.EmailAvailable).Methods(http.MethodGet)
	router.HandleFunc("/api/login", auth.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware)

	api.HandleFunc("/me", auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/invoices", invoices.List).Methods(http.MethodGet)
	api.HandleFunc("/invoices/{invoiceID}/pay", invoices.Pay).Methods(http.MethodPost)
	api.HandleFunc("/invoices/{invoiceID}/receipt", invoices.Receipt).Methods(http.MethodGet)
	api.Handle("/invoices/{invoiceID}/notice", authz.RequireRoleHandler(models.RoleLandlord, invoices.LateNotice)).Methods(http.MethodPost)
	api.HandleFunc("/payments/{sessionID}", invoices.PaymentStatus).Methods(http.MethodGet)

	api.HandleFunc("/tenants", directory.ListTenants).Methods(http.MethodGet)
	api.HandleFunc("/apartments", directory.ListApartments).Methods(http.MethodGet)

	api.HandleFunc("/reminders/config", reminders.GetConfig).Methods(http.MethodGet)
	api.Handle("/reminders/config", authz.RequireRoleHandler(models.RoleLandlord, reminders.UpdateConfig)).Methods(http.MethodPut)
	api.Handle("/reminders/run", authz.RequireRoleHandler(models.RoleLandlord, reminders.Run)).Methods(http.MethodPost)
	api.Handle("/reminders/logs", authz.RequireRoleHandler(models.RoleLandlord, reminders.ListLogs)).Methods(http.MethodGet)

	api.Handle("/insights", authz.RequireRoleHandler(models.RoleLandlord, insights.Get)).Methods(http.MethodGet)

	return router
}

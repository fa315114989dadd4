package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/automation"
	"github.com/stanstork/luxerent-api/internal/config"
	"github.com/stanstork/luxerent-api/internal/handlers"
	"github.com/stanstork/luxerent-api/internal/logger"
	"github.com/stanstork/luxerent-api/internal/middleware"
	"github.com/stanstork/luxerent-api/internal/migration"
	"github.com/stanstork/luxerent-api/internal/notification"
	"github.com/stanstork/luxerent-api/internal/payment"
	"github.com/stanstork/luxerent-api/internal/reminder"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/routes"
	"github.com/stanstork/luxerent-api/internal/temporal"
	"github.com/stanstork/luxerent-api/internal/temporal/activities"
	"github.com/stanstork/luxerent-api/internal/temporal/workflows"
	"github.com/stanstork/luxerent-api/internal/textgen"

	_ "github.com/lib/pq" // PostgreSQL driver
	tc "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

type application struct {
	config     *config.Config
	store      repository.Store
	text       textgen.Generator
	automation *automation.Service
	payments   *payment.Service
	logger     zerolog.Logger

	// closers run in reverse order on shutdown
	closers []func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Set up structured, level-based logging.
	logger := logger.New(cfg.AppEnv, cfg.LogLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	app := &application{config: cfg, logger: logger}
	defer app.close()

	if err := app.initStore(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise storage")
	}

	created, err := repository.EnsureDefaultAdmin(app.store.Users, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create default admin")
	}
	if created {
		logger.Info().Str("email", cfg.Admin.Email).Msg("Default admin account created")
	}

	app.initText()
	app.initAutomation()
	if err := app.initPayments(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialise payments")
	}

	ctx, cancel := context.WithCancel(context.Background())
	go app.automation.Start(ctx)
	app.closers = append(app.closers, cancel)

	// Initialize the HTTP router and middleware.
	router := app.initRouter()
	loggedRouter := middleware.LoggingMiddleware(logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.CORS.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		h.AllowCredentials(),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler)

	logger.Info().Msg("Application terminated.")
}

// initStore picks Postgres when a database URL is configured and the
// in-memory sample portfolio otherwise.
func (app *application) initStore() error {
	if !app.config.UsesPostgres() {
		app.logger.Info().Msg("No database configured, using in-memory store with sample portfolio")
		app.store = repository.NewMemoryStore(repository.SamplePortfolio())
		return nil
	}

	db, err := sql.Open("postgres", app.config.Database.URL)
	if err != nil {
		return err
	}
	app.closers = append(app.closers, func() { db.Close() })
	if err := db.Ping(); err != nil {
		return err
	}

	// Run database migrations.
	if err := migration.Run(db, app.logger); err != nil {
		return err
	}
	app.store = repository.NewPostgresStore(db)
	return nil
}

func (app *application) initText() {
	ai := app.config.AI
	if ai.APIKey == "" {
		app.logger.Info().Msg("No AI API key configured, using static message templates")
		app.text = textgen.Static{}
		return
	}
	client := textgen.New(ai.APIKey, ai.BaseURL, ai.Model)
	app.text = textgen.NewAI(client, ai.Timeout, app.logger)
}

func (app *application) initAutomation() {
	dispatcher := notification.NewDefaultDispatcher(
		notification.NewEmailNotifier(app.config.Notification, app.logger),
		notification.NewSMSNotifier(app.config.Notification, app.logger),
		app.logger,
	)
	app.automation = automation.NewService(
		app.store,
		reminder.NewEngine(),
		app.text,
		dispatcher,
		app.logger,
		automation.Options{
			Interval:       app.config.Automation.Interval,
			SimulatedDelay: app.config.Automation.SimulatedDelay,
		},
	)
}

func (app *application) initPayments() error {
	cfg := app.config.Payment
	acts := &activities.Activities{
		Invoices: app.store.Invoices,
		Logger:   temporal.NewLogAdapter(app.logger),
	}

	var gateway payment.Gateway
	switch cfg.Mode {
	case config.PaymentModeTemporal:
		temporalClient, err := tc.Dial(tc.Options{
			HostPort:  app.config.Temporal.HostPort,
			Namespace: app.config.Temporal.Namespace,
			Logger:    temporal.NewLogAdapter(app.logger),
		})
		if err != nil {
			return err
		}
		app.closers = append(app.closers, temporalClient.Close)

		w := app.startTemporalWorker(temporalClient, acts)
		app.closers = append(app.closers, func() {
			app.logger.Info().Msg("Stopping Temporal worker...")
			w.Stop()
			app.logger.Info().Msg("Temporal worker stopped.")
		})
		gateway = payment.NewTemporalGateway(temporalClient, cfg.SendDelay, cfg.ConfirmDelay)
	default:
		local := payment.NewLocalGateway(acts, cfg.SendDelay, cfg.ConfirmDelay, app.logger)
		app.closers = append(app.closers, local.Close)
		gateway = local
	}

	app.payments = payment.NewService(gateway, app.store.Invoices, app.logger)
	return nil
}

func (app *application) startTemporalWorker(client tc.Client, acts *activities.Activities) worker.Worker {
	w := worker.New(client, temporal.TaskQueueName, worker.Options{})

	w.RegisterWorkflow(workflows.PaymentConfirmationWorkflow)
	w.RegisterActivity(acts)

	// Start the worker in a goroutine so it doesn't block.
	go func() {
		app.logger.Info().Msg("Starting Temporal worker...")
		if err := w.Run(worker.InterruptCh()); err != nil {
			app.logger.Fatal().Err(err).Msg("Unable to start worker")
		}
	}()

	return w
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter() http.Handler {
	authHandler := handlers.NewAuthHandler(app.store.Users, app.config.JWT, app.logger)
	invoiceHandler := handlers.NewInvoiceHandler(app.store.Invoices, app.store.Tenants, app.store.Apartments, app.payments, app.text, app.logger)
	directoryHandler := handlers.NewDirectoryHandler(app.store.Tenants, app.store.Apartments, app.logger)
	reminderHandler := handlers.NewReminderHandler(app.store.Reminders, app.automation, app.logger)
	insightsHandler := handlers.NewInsightsHandler(app.store.Invoices, app.store.Tenants, app.store.Apartments, app.text, app.logger)

	return routes.NewRouter(authHandler, invoiceHandler, directoryHandler, reminderHandler, insightsHandler)
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler) {
	server := &http.Server{
		Addr:    ":" + app.config.Server.Port,
		Handler: handler,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		app.logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		app.logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		app.logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	timeout := app.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		app.logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		app.logger.Info().Msg("HTTP server shutdown complete.")
	}
}

func (app *application) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
}

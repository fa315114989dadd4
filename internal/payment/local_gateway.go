package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/temporal/activities"
)

const defaultSessionRetention = 15 * time.Minute

// LocalGateway runs the confirmation steps in a goroutine of this process,
// for deployments without a Temporal server. A finished session is dropped
// once its result has been read, or after the retention period if nobody
// asks for it.
type LocalGateway struct {
	acts         *activities.Activities
	sendDelay    time.Duration
	confirmDelay time.Duration
	retention    time.Duration
	logger       zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*localSession
	wg       sync.WaitGroup
}

type localSession struct {
	invoiceID string
	done      chan struct{}
	result    models.PaymentResult
	err       error
}

func NewLocalGateway(acts *activities.Activities, sendDelay, confirmDelay time.Duration, logger zerolog.Logger) *LocalGateway {
	return &LocalGateway{
		acts:         acts,
		sendDelay:    sendDelay,
		confirmDelay: confirmDelay,
		retention:    defaultSessionRetention,
		logger:       logger.With().Str("component", "local_payment_gateway").Logger(),
		sessions:     make(map[string]*localSession),
	}
}

func (g *LocalGateway) Start(ctx context.Context, req models.PaymentRequest) (models.PaymentSession, error) {
	if err := g.acts.ValidatePhoneActivity(ctx, req.Phone); err != nil {
		return models.PaymentSession{}, err
	}

	id := uuid.NewString()
	sess := &localSession{invoiceID: req.InvoiceID, done: make(chan struct{})}
	g.mu.Lock()
	g.sessions[id] = sess
	g.mu.Unlock()

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		// the confirmation outlives the request that started it
		sess.result, sess.err = g.run(context.WithoutCancel(ctx), req.InvoiceID)
		if sess.err != nil {
			g.logger.Error().Err(sess.err).Str("session_id", id).Str("invoice_id", req.InvoiceID).Msg("payment confirmation failed")
		}
		close(sess.done)
		time.AfterFunc(g.retention, func() { g.forget(id) })
	}()

	return models.PaymentSession{
		ID:        id,
		InvoiceID: req.InvoiceID,
		Status:    models.PaymentStatusPending,
		StartedAt: time.Now().UTC(),
	}, nil
}

func (g *LocalGateway) run(ctx context.Context, invoiceID string) (models.PaymentResult, error) {
	for _, d := range []time.Duration{g.sendDelay, g.confirmDelay} {
		if d <= 0 {
			continue
		}
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return models.PaymentResult{}, ctx.Err()
		}
	}
	res, err := g.acts.ConfirmPaymentActivity(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PaymentResult{}, ErrInvoiceNotFound
		}
		return models.PaymentResult{}, err
	}
	return *res, nil
}

func (g *LocalGateway) session(sessionID string) (*localSession, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[sessionID]
	return sess, ok
}

func (g *LocalGateway) forget(sessionID string) {
	g.mu.Lock()
	delete(g.sessions, sessionID)
	g.mu.Unlock()
}

// Wait returns the session's outcome. The session is forgotten once the
// outcome has been delivered.
func (g *LocalGateway) Wait(ctx context.Context, sessionID string) (models.PaymentResult, error) {
	sess, ok := g.session(sessionID)
	if !ok {
		return models.PaymentResult{}, ErrUnknownSession
	}

	select {
	case <-sess.done:
		g.forget(sessionID)
		return sess.result, sess.err
	case <-ctx.Done():
		return models.PaymentResult{}, ctx.Err()
	}
}

func (g *LocalGateway) Lookup(_ context.Context, sessionID string) (string, error) {
	sess, ok := g.session(sessionID)
	if !ok {
		return "", ErrUnknownSession
	}
	return sess.invoiceID, nil
}

// Close waits for in-flight confirmations to finish.
func (g *LocalGateway) Close() {
	g.wg.Wait()
}

package payment

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/metrics"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
)

// Service checks a payment request against the invoice before handing it
// to the gateway.
type Service struct {
	gateway  Gateway
	invoices repository.InvoiceRepository
	logger   zerolog.Logger
}

func NewService(gateway Gateway, invoices repository.InvoiceRepository, logger zerolog.Logger) *Service {
	return &Service{
		gateway:  gateway,
		invoices: invoices,
		logger:   logger.With().Str("component", "payment_service").Logger(),
	}
}

func (s *Service) StartPayment(ctx context.Context, req models.PaymentRequest) (models.PaymentSession, error) {
	if !models.ValidMpesaPhone(req.Phone) {
		return models.PaymentSession{}, ErrInvalidPhone
	}

	inv, err := s.invoices.Get(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.PaymentSession{}, ErrInvoiceNotFound
		}
		return models.PaymentSession{}, err
	}
	if inv.IsPaid() {
		return models.PaymentSession{}, ErrAlreadyPaid
	}

	sess, err := s.gateway.Start(ctx, req)
	if err != nil {
		metrics.IncPayment("failed")
		return models.PaymentSession{}, err
	}
	metrics.IncPayment("started")
	s.logger.Info().Str("session_id", sess.ID).Str("invoice_id", req.InvoiceID).Msg("payment confirmation started")
	return sess, nil
}

func (s *Service) AwaitPayment(ctx context.Context, sessionID string) (models.PaymentResult, error) {
	res, err := s.gateway.Wait(ctx, sessionID)
	switch {
	case err == nil:
		metrics.IncPayment("confirmed")
		s.logger.Info().Str("session_id", sessionID).Str("invoice_id", res.InvoiceID).Msg("payment confirmed")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrUnknownSession):
	default:
		metrics.IncPayment("failed")
	}
	return res, err
}

// SessionInvoice returns the id of the invoice a payment session settles.
func (s *Service) SessionInvoice(ctx context.Context, sessionID string) (string, error) {
	return s.gateway.Lookup(ctx, sessionID)
}

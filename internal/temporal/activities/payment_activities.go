package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stanstork/luxerent-api/internal/temporal"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/log"
	sdktemporal "go.temporal.io/sdk/temporal"
)

// Application error types that the workflow must not retry.
const (
	ErrTypeInvalidPhone    = "InvalidPhone"
	ErrTypeInvoiceNotFound = "InvoiceNotFound"
)

var ErrInvalidPhone = errors.New("invalid M-Pesa phone number")

// Activities are the steps of the payment confirmation workflow. The same
// methods are also called in-process when no Temporal server is used.
type Activities struct {
	Invoices repository.InvoiceRepository
	// Logger is used when a method runs outside a Temporal worker.
	Logger log.Logger
	Now    func() time.Time
}

func (a *Activities) logger(ctx context.Context) log.Logger {
	if activity.IsActivity(ctx) {
		return activity.GetLogger(ctx)
	}
	if a.Logger == nil {
		return temporal.NewLogAdapter(zerolog.Nop())
	}
	return a.Logger
}

func (a *Activities) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// ValidatePhoneActivity rejects numbers that cannot receive an STK push.
func (a *Activities) ValidatePhoneActivity(ctx context.Context, phone string) error {
	if !models.ValidMpesaPhone(phone) {
		a.logger(ctx).Warn("Rejecting payment for invalid phone", "phone", phone)
		return sdktemporal.NewNonRetryableApplicationError(
			fmt.Sprintf("phone %q is not a valid M-Pesa number", phone), ErrTypeInvalidPhone, ErrInvalidPhone)
	}
	return nil
}

// ConfirmPaymentActivity marks the invoice paid. Confirming an invoice that
// is already paid succeeds without changing it.
func (a *Activities) ConfirmPaymentActivity(ctx context.Context, invoiceID string) (*models.PaymentResult, error) {
	logger := a.logger(ctx)
	logger.Info("Confirming payment", "invoiceID", invoiceID)

	inv, err := a.Invoices.Get(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, sdktemporal.NewNonRetryableApplicationError(
				fmt.Sprintf("invoice %s not found", invoiceID), ErrTypeInvoiceNotFound, err)
		}
		return nil, errors.Wrap(err, "failed to load invoice")
	}

	if !inv.IsPaid() {
		inv, err = a.Invoices.UpdateStatus(ctx, invoiceID, models.PaymentStatusPaid)
		if err != nil {
			logger.Error("Failed to mark invoice paid", "invoiceID", invoiceID, "error", err)
			return nil, errors.Wrap(err, "failed to mark invoice paid")
		}
	}

	return &models.PaymentResult{
		InvoiceID:   inv.ID,
		Status:      inv.Status,
		ConfirmedAt: a.now().UTC(),
	}, nil
}

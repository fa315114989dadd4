package payment

import (
	"context"
	"errors"

	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/temporal/activities"
)

var (
	ErrInvalidPhone    = activities.ErrInvalidPhone
	ErrAlreadyPaid     = errors.New("invoice is already paid")
	ErrUnknownSession  = errors.New("unknown payment session")
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// Gateway runs payment confirmations. Start returns once the confirmation
// is under way; Wait blocks until it finishes or ctx is done. Lookup names
// the invoice a session pays without waiting for it.
type Gateway interface {
	Start(ctx context.Context, req models.PaymentRequest) (models.PaymentSession, error)
	Wait(ctx context.Context, sessionID string) (models.PaymentResult, error)
	Lookup(ctx context.Context, sessionID string) (string, error)
}

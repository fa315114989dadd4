package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/temporal"
	"github.com/stanstork/luxerent-api/internal/temporal/activities"
	"github.com/stanstork/luxerent-api/internal/temporal/workflows"
	tc "go.temporal.io/sdk/client"
	sdktemporal "go.temporal.io/sdk/temporal"
)

const workflowSuffixLen = 8

// TemporalGateway runs each confirmation as a PaymentConfirmationWorkflow.
// The session id is the workflow id.
type TemporalGateway struct {
	client       tc.Client
	sendDelay    time.Duration
	confirmDelay time.Duration
	now          func() time.Time
}

func NewTemporalGateway(client tc.Client, sendDelay, confirmDelay time.Duration) *TemporalGateway {
	return &TemporalGateway{
		client:       client,
		sendDelay:    sendDelay,
		confirmDelay: confirmDelay,
		now:          time.Now,
	}
}

func (g *TemporalGateway) Start(ctx context.Context, req models.PaymentRequest) (models.PaymentSession, error) {
	opts := tc.StartWorkflowOptions{
		ID:        workflowID(req.InvoiceID),
		TaskQueue: temporal.TaskQueueName,
	}
	params := temporal.PaymentParams{
		InvoiceID:    req.InvoiceID,
		Phone:        req.Phone,
		SendDelay:    g.sendDelay,
		ConfirmDelay: g.confirmDelay,
	}

	run, err := g.client.ExecuteWorkflow(ctx, opts, workflows.PaymentConfirmationWorkflow, params)
	if err != nil {
		return models.PaymentSession{}, fmt.Errorf("start payment workflow: %w", err)
	}

	return models.PaymentSession{
		ID:        run.GetID(),
		InvoiceID: req.InvoiceID,
		Status:    models.PaymentStatusPending,
		StartedAt: g.now().UTC(),
	}, nil
}

func (g *TemporalGateway) Wait(ctx context.Context, sessionID string) (models.PaymentResult, error) {
	var result models.PaymentResult
	if err := g.client.GetWorkflow(ctx, sessionID, "").Get(ctx, &result); err != nil {
		return models.PaymentResult{}, translateWorkflowError(err)
	}
	return result, nil
}

// Lookup recovers the invoice id from the workflow id built by Start.
func (g *TemporalGateway) Lookup(_ context.Context, sessionID string) (string, error) {
	invoiceID, ok := invoiceFromWorkflowID(sessionID)
	if !ok {
		return "", ErrUnknownSession
	}
	return invoiceID, nil
}

func workflowID(invoiceID string) string {
	return temporal.PaymentWorkflowIDPrefix + invoiceID + "-" + uuid.NewString()[:workflowSuffixLen]
}

func invoiceFromWorkflowID(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, temporal.PaymentWorkflowIDPrefix)
	if !ok || len(rest) < workflowSuffixLen+2 {
		return "", false
	}
	cut := len(rest) - workflowSuffixLen - 1
	if rest[cut] != '-' {
		return "", false
	}
	return rest[:cut], true
}

// translateWorkflowError maps application error types back to sentinels;
// error identity does not survive the trip through the Temporal server.
func translateWorkflowError(err error) error {
	var appErr *sdktemporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case activities.ErrTypeInvalidPhone:
			return fmt.Errorf("%w: %v", ErrInvalidPhone, err)
		case activities.ErrTypeInvoiceNotFound:
			return fmt.Errorf("%w: %v", ErrInvoiceNotFound, err)
		}
	}
	return err
}

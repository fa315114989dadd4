package workflows

import (
	"time"

	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/temporal"
	"github.com/stanstork/luxerent-api/internal/temporal/activities"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PaymentConfirmationWorkflow simulates an M-Pesa STK push: validate the
// phone, wait for the push to arrive and the PIN to be entered, then mark
// the invoice paid.
func PaymentConfirmationWorkflow(ctx workflow.Context, params temporal.PaymentParams) (*models.PaymentResult, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: temporal.DefaultActivityTimeout,
		RetryPolicy: &sdktemporal.RetryPolicy{
			InitialInterval:        time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{activities.ErrTypeInvalidPhone, activities.ErrTypeInvoiceNotFound},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	logger := workflow.GetLogger(ctx)
	logger.Info("Starting payment confirmation", "InvoiceID", params.InvoiceID)

	var a *activities.Activities

	if err := workflow.ExecuteActivity(ctx, a.ValidatePhoneActivity, params.Phone).Get(ctx, nil); err != nil {
		logger.Error("Phone validation failed.", "error", err)
		return nil, err
	}

	if err := sleep(ctx, params.SendDelay); err != nil {
		return nil, err
	}
	logger.Info("STK push delivered, waiting for PIN", "InvoiceID", params.InvoiceID)

	if err := sleep(ctx, params.ConfirmDelay); err != nil {
		return nil, err
	}

	var result models.PaymentResult
	if err := workflow.ExecuteActivity(ctx, a.ConfirmPaymentActivity, params.InvoiceID).Get(ctx, &result); err != nil {
		logger.Error("Payment confirmation failed.", "error", err)
		return nil, err
	}

	logger.Info("Payment confirmation completed.", "InvoiceID", params.InvoiceID)
	return &result, nil
}

func sleep(ctx workflow.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return workflow.Sleep(ctx, d)
}

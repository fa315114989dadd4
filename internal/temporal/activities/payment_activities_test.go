package activities

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktemporal "go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

var confirmedAt = time.Date(2023, time.October, 29, 10, 0, 0, 0, time.UTC)

func newActivities() (*Activities, repository.Store) {
	store := repository.NewMemoryStore(repository.SamplePortfolio())
	return &Activities{
		Invoices: store.Invoices,
		Now:      func() time.Time { return confirmedAt },
	}, store
}

func TestValidatePhoneActivity(t *testing.T) {
	a, _ := newActivities()
	ctx := context.Background()

	assert.NoError(t, a.ValidatePhoneActivity(ctx, "0712345678"))
	assert.NoError(t, a.ValidatePhoneActivity(ctx, "+254712345678"))

	err := a.ValidatePhoneActivity(ctx, "555-0102")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPhone)

	var appErr *sdktemporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeInvalidPhone, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestConfirmPaymentActivity(t *testing.T) {
	a, store := newActivities()
	ctx := context.Background()

	result, err := a.ConfirmPaymentActivity(ctx, "inv2")
	require.NoError(t, err)
	assert.Equal(t, &models.PaymentResult{InvoiceID: "inv2", Status: models.PaymentStatusPaid, ConfirmedAt: confirmedAt}, result)

	inv, err := store.Invoices.Get(ctx, "inv2")
	require.NoError(t, err)
	assert.True(t, inv.IsPaid())

	again, err := a.ConfirmPaymentActivity(ctx, "inv2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, again.Status)
}

func TestConfirmPaymentActivity_UnknownInvoice(t *testing.T) {
	a, _ := newActivities()

	_, err := a.ConfirmPaymentActivity(context.Background(), "inv404")

	var appErr *sdktemporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeInvoiceNotFound, appErr.Type())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivities_InTestEnvironment(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()
	a, _ := newActivities()
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.ConfirmPaymentActivity, "inv3")
	require.NoError(t, err)

	var result models.PaymentResult
	require.NoError(t, val.Get(&result))
	assert.Equal(t, "inv3", result.InvoiceID)
	assert.Equal(t, models.PaymentStatusPaid, result.Status)

	_, err = env.ExecuteActivity(a.ValidatePhoneActivity, "12345")
	assert.Error(t, err)
}

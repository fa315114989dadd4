package notification

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/config"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

func reminder(method models.ReminderMethod) models.SentReminder {
	return models.SentReminder{ID: "r1", InvoiceID: "inv2", TenantName: "Jane Smith", Method: method, Type: models.ReminderTypePreDue}
}

func TestDispatcher_RoutesByMethod(t *testing.T) {
	ctx := context.Background()
	email, sms := new(mockNotifier), new(mockNotifier)
	d := NewDispatcher(zerolog.Nop()).
		Register(models.ReminderMethodEmail, email).
		Register(models.ReminderMethodSMS, sms)

	emailMsg := Message{Reminder: reminder(models.ReminderMethodEmail), Recipient: "jane@example.com", Body: "hi"}
	smsMsg := Message{Reminder: reminder(models.ReminderMethodSMS), Recipient: "555-0102", Body: "hi"}
	email.On("Notify", ctx, emailMsg).Return(nil).Once()
	sms.On("Notify", ctx, smsMsg).Return(nil).Once()

	require.NoError(t, d.Notify(ctx, emailMsg))
	require.NoError(t, d.Notify(ctx, smsMsg))
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestDispatcher_UnsupportedMethod(t *testing.T) {
	d := NewDispatcher(zerolog.Nop()).Register(models.ReminderMethodEmail, new(mockNotifier))

	err := d.Notify(context.Background(), Message{Reminder: reminder("PIGEON")})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestDispatcher_LogsNotifierFailure(t *testing.T) {
	var buf bytes.Buffer
	failing := new(mockNotifier)
	failing.On("Notify", mock.Anything, mock.Anything).Return(errors.New("gateway down"))
	d := NewDispatcher(zerolog.New(&buf)).Register(models.ReminderMethodSMS, failing)

	err := d.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodSMS), Recipient: "555"})
	assert.EqualError(t, err, "gateway down")
	assert.Contains(t, buf.String(), "failed to deliver reminder")
	assert.Contains(t, buf.String(), `"reminder_id":"r1"`)
}

func TestDispatcher_IgnoresNilNotifier(t *testing.T) {
	d := NewDispatcher(zerolog.Nop()).Register(models.ReminderMethodEmail, nil)

	err := d.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodEmail)})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestDefaultDispatcher_NilChannel(t *testing.T) {
	sms := NewSMSNotifier(config.NotificationConfig{SMSSender: "LUXERENT"}, zerolog.Nop())
	d := NewDefaultDispatcher(nil, sms, zerolog.Nop())

	var err error
	require.NotPanics(t, func() {
		err = d.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodEmail), Recipient: "jane@example.com", Body: "hi"})
	})
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	assert.NoError(t, d.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodSMS), Recipient: "555-0102", Body: "hi"}))
}

func TestEmailNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewEmailNotifier(config.NotificationConfig{EmailFrom: "billing@luxerent.com"}, zerolog.New(&buf))

	require.NoError(t, n.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodEmail), Recipient: "jane@example.com", Body: "Rent is due soon."}))
	assert.Contains(t, buf.String(), `"to":"jane@example.com"`)
	assert.Contains(t, buf.String(), "Upcoming rent: invoice inv2")

	assert.Error(t, n.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodEmail), Recipient: "555-0102"}))
}

func TestSMSNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewSMSNotifier(config.NotificationConfig{SMSSender: "LUXERENT"}, zerolog.New(&buf))

	require.NoError(t, n.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodSMS), Recipient: "555-0102", Body: "Rent due"}))
	assert.Contains(t, buf.String(), `"text":"Rent due"`)

	assert.Error(t, n.Notify(context.Background(), Message{Reminder: reminder(models.ReminderMethodSMS)}))
	assert.Equal(t, "SMSNotifier(sender=LUXERENT)", n.String())
}

func TestTruncateSMS(t *testing.T) {
	long := strings.Repeat("a", 200)
	assert.Len(t, TruncateSMS(long), smsLimit)
	assert.Equal(t, "short", TruncateSMS("  short "))

	multibyte := strings.Repeat("é", 170)
	assert.Equal(t, smsLimit, len([]rune(TruncateSMS(multibyte))))
}

func TestSubject(t *testing.T) {
	r := reminder(models.ReminderMethodEmail)
	assert.Equal(t, "[LuxeRent] Upcoming rent: invoice inv2", Subject(r))
	r.Type = models.ReminderTypeOverdue
	assert.Equal(t, "[LuxeRent] Overdue rent: invoice inv2", Subject(r))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview("a\n  b", 10))
	assert.Equal(t, "abc...", preview("abcdef", 3))
}

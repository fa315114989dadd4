package notification

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/models"
)

// Message is a reminder ready for delivery.
type Message struct {
	Reminder  models.SentReminder
	Recipient string
	Body      string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

func logNotifyError(logger zerolog.Logger, err error, channel string, msg Message) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Str("reminder_id", msg.Reminder.ID).
		Str("invoice_id", msg.Reminder.InvoiceID).
		Str("channel", channel).
		Msg("failed to deliver reminder")
}

// preview shortens body for log output.
func preview(body string, limit int) string {
	body = strings.Join(strings.Fields(body), " ")
	r := []rune(body)
	if len(r) <= limit {
		return body
	}
	return string(r[:limit]) + "..."
}

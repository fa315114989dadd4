package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/config"
)

// smsLimit is the length of a single SMS segment.
const smsLimit = 160

// SMSNotifier records outgoing reminder texts in the log. No SMS is sent.
type SMSNotifier struct {
	sender string
	logger zerolog.Logger
}

func NewSMSNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *SMSNotifier {
	return &SMSNotifier{
		sender: strings.TrimSpace(cfg.SMSSender),
		logger: logger.With().Str("notifier", "sms").Logger(),
	}
}

func (n *SMSNotifier) Notify(_ context.Context, msg Message) error {
	to := strings.TrimSpace(msg.Recipient)
	if to == "" {
		return fmt.Errorf("missing sms recipient for reminder %s", msg.Reminder.ID)
	}

	n.logger.Info().
		Str("reminder_id", msg.Reminder.ID).
		Str("invoice_id", msg.Reminder.InvoiceID).
		Str("sender", n.sender).
		Str("to", to).
		Str("text", TruncateSMS(msg.Body)).
		Msg("sms reminder dispatched (mock)")
	return nil
}

func (n *SMSNotifier) String() string {
	return fmt.Sprintf("SMSNotifier(sender=%s)", n.sender)
}

// TruncateSMS cuts body to one SMS segment.
func TruncateSMS(body string) string {
	body = strings.TrimSpace(body)
	r := []rune(body)
	if len(r) <= smsLimit {
		return body
	}
	return string(r[:smsLimit])
}

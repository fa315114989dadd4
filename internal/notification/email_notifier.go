package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/config"
	"github.com/stanstork/luxerent-api/internal/models"
)

// EmailNotifier records outgoing reminder emails in the log. No mail is
// sent.
type EmailNotifier struct {
	from   string
	logger zerolog.Logger
}

func NewEmailNotifier(cfg config.NotificationConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		from:   strings.TrimSpace(cfg.EmailFrom),
		logger: logger.With().Str("notifier", "email").Logger(),
	}
}

func (n *EmailNotifier) Notify(_ context.Context, msg Message) error {
	to := strings.TrimSpace(msg.Recipient)
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("invalid email recipient %q", msg.Recipient)
	}

	n.logger.Info().
		Str("reminder_id", msg.Reminder.ID).
		Str("invoice_id", msg.Reminder.InvoiceID).
		Str("from", n.from).
		Str("to", to).
		Str("subject", Subject(msg.Reminder)).
		Str("body", preview(msg.Body, 120)).
		Msg("email reminder dispatched (mock)")
	return nil
}

func (n *EmailNotifier) String() string {
	return "EmailNotifier"
}

// Subject returns the email subject line for a reminder.
func Subject(r models.SentReminder) string {
	if r.Type == models.ReminderTypeOverdue {
		return fmt.Sprintf("[LuxeRent] Overdue rent: invoice %s", r.InvoiceID)
	}
	return fmt.Sprintf("[LuxeRent] Upcoming rent: invoice %s", r.InvoiceID)
}

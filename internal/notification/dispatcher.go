package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stanstork/luxerent-api/internal/models"
)

var ErrUnsupportedMethod = errors.New("unsupported reminder method")

// Dispatcher routes each reminder to the notifier registered for its method.
type Dispatcher struct {
	notifiers map[models.ReminderMethod]Notifier
	logger    zerolog.Logger
}

func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		notifiers: make(map[models.ReminderMethod]Notifier),
		logger:    logger.With().Str("component", "notification_dispatcher").Logger(),
	}
}

// Register binds a notifier to a method, replacing any earlier binding. Nil
// notifiers are ignored.
func (d *Dispatcher) Register(method models.ReminderMethod, n Notifier) *Dispatcher {
	if n != nil {
		d.notifiers[method] = n
	}
	return d
}

// Notify delivers msg through the notifier for msg.Reminder.Method. Failures
// are logged and returned; they never affect other messages.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) error {
	n, ok := d.notifiers[msg.Reminder.Method]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnsupportedMethod, msg.Reminder.Method)
		logNotifyError(d.logger, err, string(msg.Reminder.Method), msg)
		return err
	}
	if err := n.Notify(ctx, msg); err != nil {
		logNotifyError(d.logger, err, notifierChannelName(n), msg)
		return err
	}
	return nil
}

func notifierChannelName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return fmt.Sprintf("%T", n)
}

// NewDefaultDispatcher wires the log-only email and SMS notifiers. A nil
// notifier leaves its method unsupported.
func NewDefaultDispatcher(email *EmailNotifier, sms *SMSNotifier, logger zerolog.Logger) *Dispatcher {
	d := NewDispatcher(logger)
	// a nil pointer stored in the Notifier interface would not compare equal to nil
	if email != nil {
		d.Register(models.ReminderMethodEmail, email)
	}
	if sms != nil {
		d.Register(models.ReminderMethodSMS, sms)
	}
	return d
}

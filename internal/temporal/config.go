package temporal

import "time"

// TaskQueueName is the Temporal task queue that serves payment workflows.
const TaskQueueName = "LUXERENT_PAYMENTS"

// PaymentWorkflowIDPrefix prefixes the workflow id of every payment confirmation.
const PaymentWorkflowIDPrefix = "luxerent-payment-"

// DefaultActivityTimeout bounds a single payment activity attempt.
const DefaultActivityTimeout = 30 * time.Second

// PaymentParams is the input of the payment confirmation workflow.
type PaymentParams struct {
	InvoiceID string
	Phone     string
	// SendDelay simulates the STK push reaching the handset.
	SendDelay time.Duration
	// ConfirmDelay simulates the payer entering their PIN.
	ConfirmDelay time.Duration
}

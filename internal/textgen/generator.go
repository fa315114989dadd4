package textgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/portfolio"
)

const (
	dateLayout = "2006-01-02"

	noticeFallback   = "Error generating notice."
	analysisFallback = "Unable to generate AI analysis at this time."

	systemPrompt = "You are the assistant of LuxeRent, a residential property management company. Write clear, professional text for tenants and landlords."
)

// Generator drafts the free text attached to reminders, notices and reports.
// Implementations never fail; they fall back to fixed text instead.
type Generator interface {
	GenerateReminderMessage(ctx context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time, overdue bool) string
	GenerateLateNotice(ctx context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time) string
	AnalyzeFinancials(ctx context.Context, invoices []models.Invoice, tenants []models.Tenant) string
}

// ReminderFallback is the plain reminder text used when no draft is available.
func ReminderFallback(tenantName string, amount decimal.Decimal, dueDate time.Time) string {
	return fmt.Sprintf("Rent reminder for %s: $%s due on %s", tenantName, amount.String(), dueDate.Format(dateLayout))
}

// AI drafts text with a language model.
type AI struct {
	client  *Client
	timeout time.Duration
	logger  zerolog.Logger
}

func NewAI(client *Client, timeout time.Duration, logger zerolog.Logger) *AI {
	return &AI{
		client:  client,
		timeout: timeout,
		logger:  logger.With().Str("component", "textgen").Logger(),
	}
}

func (g *AI) generate(ctx context.Context, kind, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	text, err := g.client.GenerateResponse(ctx, systemPrompt, prompt)
	if err != nil {
		g.logger.Warn().Err(err).Str("kind", kind).Msg("text generation failed, using fallback")
		return "", err
	}
	return text, nil
}

func (g *AI) GenerateReminderMessage(ctx context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time, overdue bool) string {
	kind := "UPCOMING"
	if overdue {
		kind = "OVERDUE"
	}
	prompt := fmt.Sprintf(`Generate a short, friendly %s rent payment reminder for %s.
Amount: $%s
Due Date: %s
Format: A 160-character SMS and a 2-sentence Email body.
Tone: Helpful and firm but polite.`, kind, tenantName, amount.String(), dueDate.Format(dateLayout))

	text, err := g.generate(ctx, "reminder", prompt)
	if err != nil {
		return ReminderFallback(tenantName, amount, dueDate)
	}
	return text
}

func (g *AI) GenerateLateNotice(ctx context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time) string {
	prompt := fmt.Sprintf(`Write a professional and polite late rent payment notice for:
Tenant: %s
Amount Due: $%s
Original Due Date: %s

Include a reminder about potential late fees and request them to contact the management if they're facing issues.`,
		tenantName, amount.String(), dueDate.Format(dateLayout))

	text, err := g.generate(ctx, "late_notice", prompt)
	if err != nil {
		return noticeFallback
	}
	return text
}

func (g *AI) AnalyzeFinancials(ctx context.Context, invoices []models.Invoice, tenants []models.Tenant) string {
	invoiceJSON, err := json.Marshal(invoices)
	if err != nil {
		return analysisFallback
	}
	tenantJSON, err := json.Marshal(tenants)
	if err != nil {
		return analysisFallback
	}
	prompt := fmt.Sprintf(`As a property management analyst, analyze the following rental data:
Invoices: %s
Tenants: %s

Provide a concise financial summary:
1. Total revenue collected vs pending.
2. Identification of high-risk tenants (frequent overdue).
3. A prediction for next month's cash flow.
4. Suggestions for improving occupancy or collections.`, invoiceJSON, tenantJSON)

	text, err := g.generate(ctx, "analysis", prompt)
	if err != nil {
		return analysisFallback
	}
	return text
}

// Static produces deterministic text without calling a model.
type Static struct{}

func (Static) GenerateReminderMessage(_ context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time, overdue bool) string {
	msg := ReminderFallback(tenantName, amount, dueDate)
	if overdue {
		return msg + ". This payment is overdue; please settle it as soon as possible."
	}
	return msg + "."
}

func (Static) GenerateLateNotice(_ context.Context, tenantName string, amount decimal.Decimal, dueDate time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", tenantName)
	fmt.Fprintf(&b, "Our records show that rent of $%s due on %s has not been received. ", amount.StringFixed(2), dueDate.Format(dateLayout))
	b.WriteString("Please arrange payment promptly to avoid a late fee of 5%. ")
	b.WriteString("If you are facing difficulties, contact the management office so we can work out a solution.\n\n")
	b.WriteString("Kind regards,\nLuxeRent Management")
	return b.String()
}

func (Static) AnalyzeFinancials(_ context.Context, invoices []models.Invoice, tenants []models.Tenant) string {
	s := portfolio.Summarize(invoices)
	var b strings.Builder
	fmt.Fprintf(&b, "Collected: $%s across %d paid invoices.\n", s.Collected.StringFixed(2), s.PaidCount)
	fmt.Fprintf(&b, "Pending: $%s across %d open invoices.\n", s.Pending.StringFixed(2), s.OpenCount)

	names := make(map[string]string, len(tenants))
	for _, t := range tenants {
		names[t.ID] = t.Name
	}
	var risky []string
	for _, id := range s.OverdueTenants {
		if name, ok := names[id]; ok {
			risky = append(risky, name)
		}
	}
	if len(risky) > 0 {
		fmt.Fprintf(&b, "Tenants with overdue balances: %s.", strings.Join(risky, ", "))
	} else {
		b.WriteString("No tenants have overdue balances.")
	}
	return b.String()
}

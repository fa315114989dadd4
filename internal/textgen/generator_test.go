package textgen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stretchr/testify/assert"
)

const completionsURL = "https://llm.test/v1/chat/completions"

var due = time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

func newMockedAI(t *testing.T) (*AI, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := New("test-key", "https://llm.test/v1", "test-model", WithHTTPClient(&http.Client{Transport: transport}))
	return NewAI(client, time.Second, zerolog.Nop()), transport
}

func TestAI_GenerateReminderMessage(t *testing.T) {
	ai, transport := newMockedAI(t)

	var prompt string
	transport.RegisterResponder(http.MethodPost, completionsURL, func(req *http.Request) (*http.Response, error) {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
		prompt = payload.Messages[len(payload.Messages)-1].Content
		assert.Equal(t, "test-model", payload.Model)
		assert.Equal(t, "Bearer test-key", req.Header.Get("Authorization"))
		return httpmock.NewStringResponse(http.StatusOK, completion("  Hi Jane, rent is due soon.  ")), nil
	})

	got := ai.GenerateReminderMessage(context.Background(), "Jane Smith", decimal.NewFromInt(1500), due, true)

	assert.Equal(t, "Hi Jane, rent is due soon.", got)
	assert.Contains(t, prompt, "OVERDUE rent payment reminder for Jane Smith")
	assert.Contains(t, prompt, "Amount: $1500")
	assert.Contains(t, prompt, "Due Date: 2023-11-01")
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestAI_FallsBackOnError(t *testing.T) {
	ai, transport := newMockedAI(t)
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":{"message":"upstream exploded","type":"server_error"}}`))

	ctx := context.Background()
	amount := decimal.NewFromInt(1500)

	assert.Equal(t, "Rent reminder for Jane Smith: $1500 due on 2023-11-01", ai.GenerateReminderMessage(ctx, "Jane Smith", amount, due, false))
	assert.Equal(t, "Error generating notice.", ai.GenerateLateNotice(ctx, "Jane Smith", amount, due))
	assert.Equal(t, "Unable to generate AI analysis at this time.", ai.AnalyzeFinancials(ctx, nil, nil))
}

func TestAI_FallsBackOnEmptyChoices(t *testing.T) {
	ai, transport := newMockedAI(t)
	transport.RegisterResponder(http.MethodPost, completionsURL,
		httpmock.NewStringResponder(http.StatusOK, `{"id":"x","object":"chat.completion","choices":[]}`))

	got := ai.GenerateLateNotice(context.Background(), "Robert Brown", decimal.NewFromInt(2200), due)
	assert.Equal(t, noticeFallback, got)
}

func TestAI_AnalyzeFinancialsSendsPortfolio(t *testing.T) {
	ai, transport := newMockedAI(t)

	var body string
	transport.RegisterResponder(http.MethodPost, completionsURL, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
		return httpmock.NewStringResponse(http.StatusOK, completion("Collections look healthy.")), nil
	})

	invoices := []models.Invoice{{ID: "inv3", TenantID: "t3", Amount: decimal.NewFromInt(2200), DueDate: due, Status: models.PaymentStatusOverdue}}
	tenants := []models.Tenant{{ID: "t3", Name: "Robert Brown"}}

	got := ai.AnalyzeFinancials(context.Background(), invoices, tenants)
	assert.Equal(t, "Collections look healthy.", got)
	assert.Contains(t, body, "inv3")
	assert.Contains(t, body, "Robert Brown")
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	amount := decimal.NewFromInt(1500)
	var g Generator = Static{}

	assert.Equal(t, "Rent reminder for Jane Smith: $1500 due on 2023-11-01.", g.GenerateReminderMessage(ctx, "Jane Smith", amount, due, false))
	assert.Contains(t, g.GenerateReminderMessage(ctx, "Jane Smith", amount, due, true), "overdue")

	notice := g.GenerateLateNotice(ctx, "Jane Smith", amount, due)
	assert.Contains(t, notice, "Dear Jane Smith")
	assert.Contains(t, notice, "$1500.00 due on 2023-11-01")
}

func TestStatic_AnalyzeFinancials(t *testing.T) {
	invoices := []models.Invoice{
		{ID: "inv1", TenantID: "t1", Amount: decimal.NewFromInt(1200), Status: models.PaymentStatusPaid},
		{ID: "inv2", TenantID: "t2", Amount: decimal.NewFromInt(1500), Status: models.PaymentStatusPending},
		{ID: "inv3", TenantID: "t3", Amount: decimal.NewFromInt(2200), Status: models.PaymentStatusOverdue},
		{ID: "inv5", TenantID: "t3", Amount: decimal.NewFromInt(100), Status: models.PaymentStatusCancelled},
	}
	tenants := []models.Tenant{{ID: "t3", Name: "Robert Brown"}}

	got := Static{}.AnalyzeFinancials(context.Background(), invoices, tenants)
	assert.Contains(t, got, "Collected: $1200.00 across 1 paid invoices.")
	assert.Contains(t, got, "Pending: $3700.00 across 2 open invoices.")
	assert.Contains(t, got, "Robert Brown")
}

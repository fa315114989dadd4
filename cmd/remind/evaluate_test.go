package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stanstork/luxerent-api/internal/models"
	"github.com/stanstork/luxerent-api/internal/reminder"
	"github.com/stanstork/luxerent-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluate_PreDue(t *testing.T) {
	out, err := execute(t, "evaluate", "--fixtures", "testdata/portfolio.json", "--date", "2023-10-29", "--sequential-ids")
	require.NoError(t, err)

	var entries []models.SentReminder
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, models.SentReminder{
		ID:         "rem-1",
		InvoiceID:  "inv2",
		TenantName: "Jane Smith",
		SentAt:     time.Date(2023, time.October, 29, 0, 0, 0, 0, time.UTC),
		Method:     models.ReminderMethodEmail,
		Type:       models.ReminderTypePreDue,
	}, entries[0])
}

func TestEvaluate_NothingDue(t *testing.T) {
	out, err := execute(t, "evaluate", "-f", "testdata/portfolio.json", "-d", "2023-11-01")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := execute(t, "evaluate")
	assert.Error(t, err)

	_, err = execute(t, "evaluate", "--fixtures", "testdata/missing.json")
	assert.ErrorContains(t, err, "open fixture")

	_, err = execute(t, "evaluate", "--fixtures", "testdata/portfolio.json", "--date", "29/10/2023")
	assert.ErrorContains(t, err, "invalid --date")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = execute(t, "evaluate", "--fixtures", bad)
	assert.ErrorContains(t, err, "decode fixture")
}

func TestSampleRoundTripsThroughEvaluate(t *testing.T) {
	out, err := execute(t, "sample")
	require.NoError(t, err)

	var seed repository.Seed
	require.NoError(t, json.Unmarshal([]byte(out), &seed))
	assert.Len(t, seed.Invoices, 4)

	path := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	out, err = execute(t, "evaluate", "--fixtures", path, "--date", "2023-11-02")
	require.NoError(t, err)
	var entries []models.SentReminder
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, models.ReminderTypeOverdue, e.Type)
	}
}

func TestReferenceDate(t *testing.T) {
	// 21:30 in New York is already the next day in UTC
	nyc := time.FixedZone("EST", -5*60*60)
	now := time.Date(2023, time.October, 28, 21, 30, 0, 0, nyc)

	ref, err := referenceDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, ref)
	assert.Equal(t, 28, ref.Day())
	assert.Equal(t, 4, reminder.DaysUntil(time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), ref))

	ref, err = referenceDate("2023-10-29", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.October, 29, 0, 0, 0, 0, time.UTC), ref)

	_, err = referenceDate("10/29/2023", now)
	assert.ErrorContains(t, err, "invalid --date")
}

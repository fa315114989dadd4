package temporal

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogAdapter(zerolog.New(&buf))

	a.Info("workflow started", "WorkflowID", "luxerent-payment-inv2", "Attempt", 1)

	out := buf.String()
	assert.Contains(t, out, `"component":"temporal-sdk"`)
	assert.Contains(t, out, `"WorkflowID":"luxerent-payment-inv2"`)
	assert.Contains(t, out, `"Attempt":1`)
	assert.Contains(t, out, `"message":"workflow started"`)
}

func TestLogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	a := NewLogAdapter(zerolog.New(&buf)).With("Namespace", "default")

	a.Warn("odd keyvals", "dangling")

	out := buf.String()
	assert.Contains(t, out, `"Namespace":"default"`)
	assert.Contains(t, out, `"dangling":"MISSING_VALUE"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestFields_NonStringKey(t *testing.T) {
	got := fields([]interface{}{42, "v"})
	assert.Equal(t, map[string]interface{}{"INVALID_KEY": "v"}, got)
	assert.Nil(t, fields(nil))
}

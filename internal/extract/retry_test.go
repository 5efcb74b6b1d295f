package extract

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedOracle returns each response in order, recording the prompts it
// was called with.
type scriptedOracle struct {
	responses []string
	errs      []error
	calls     int
	systems   []string
}

func (o *scriptedOracle) Call(_ context.Context, system, _ string) (string, error) {
	i := o.calls
	o.calls++
	o.systems = append(o.systems, system)
	var err error
	if i < len(o.errs) {
		err = o.errs[i]
	}
	var resp string
	if i < len(o.responses) {
		resp = o.responses[i]
	}
	return resp, err
}

func newTestController(o Oracle) *RetryController {
	rc := NewRetryController(o, NewPrompts())
	rc.sleep = func(context.Context, time.Duration) error { return nil }
	return rc
}

const validResponse = `Here is the merged state:
{"document_title": "Citywide IT Services RFP", "deadlines": [{"date": "2025-09-29"}], "requirements": ["24x7 support"]}`

func TestInvokeFirstAttemptSucceeds(t *testing.T) {
	o := &scriptedOracle{responses: []string{validResponse}}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, 1, o.calls)
	assert.Equal(t, "Citywide IT Services RFP", cand.DocumentTitle)
	require.Len(t, cand.Deadlines, 1)
	assert.Equal(t, "2025-09-29", cand.Deadlines[0].Date)
}

func TestInvokeRecoversOnThirdAttempt(t *testing.T) {
	// Two malformed responses, then a valid one: with MaxRetries=2 the
	// third attempt's record is used and no error surfaces.
	o := &scriptedOracle{responses: []string{
		"I could not find any structured data in this chunk.",
		"Sure! The fields are: title=..., dates=...",
		validResponse,
	}}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, 3, o.calls)
	assert.Equal(t, "Citywide IT Services RFP", cand.DocumentTitle)
}

func TestInvokeErrorFeedbackInSystemPrompt(t *testing.T) {
	o := &scriptedOracle{responses: []string{"no json here", validResponse}}
	rc := newTestController(o)

	_, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	require.Len(t, o.systems, 2)
	assert.NotContains(t, o.systems[0], "PREVIOUS_ATTEMPT_ERROR")
	assert.Contains(t, o.systems[1], "PREVIOUS_ATTEMPT_ERROR")
	assert.Contains(t, o.systems[1], "no JSON object found")
}

func TestInvokeExhaustsRetries(t *testing.T) {
	o := &scriptedOracle{responses: []string{"bad", "bad", "bad", "bad"}}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.Error(t, err)
	assert.Nil(t, cand)
	assert.Equal(t, 3, o.calls, "MaxRetries=2 means three total attempts")
	assert.Contains(t, err.Error(), "all attempts failed")
}

func TestInvokeRetriesOracleError(t *testing.T) {
	o := &scriptedOracle{
		responses: []string{"", validResponse},
		errs:      []error{eris.New("request timeout")},
	}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, 2, o.calls, "a timeout is an attempt failure, not a distinct path")
	assert.NotNil(t, cand)
}

func TestInvokeInvalidJSONSpan(t *testing.T) {
	o := &scriptedOracle{responses: []string{`prefix {"unclosed": [} suffix`, validResponse}}
	rc := newTestController(o)

	_, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	require.Len(t, o.systems, 2)
	assert.Contains(t, o.systems[1], "JSON decoding error")
}

func TestInvokeSchemaViolationFeedback(t *testing.T) {
	// An unknown document_type survives JSON parsing but fails the
	// contract; the next attempt's prompt carries the violation summary.
	o := &scriptedOracle{responses: []string{
		`{"document_type": "Memo"}`,
		validResponse,
	}}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	assert.NotNil(t, cand)
	require.Len(t, o.systems, 2)
	assert.Contains(t, o.systems[1], "schema validation error")
	assert.Contains(t, o.systems[1], "document_type")
}

func TestInvokePostFiltersDatelessDeadlines(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"deadlines": [{"date": "2025-09-29"}, {"date": "upon award"}, {"date": "TBD"}]}`,
	}}
	rc := newTestController(o)

	cand, err := rc.Invoke(context.Background(), "user")
	require.NoError(t, err)
	require.Len(t, cand.Deadlines, 1)
	assert.Equal(t, "2025-09-29", cand.Deadlines[0].Date)
}

func TestInvokeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &scriptedOracle{errs: []error{ctx.Err()}}
	rc := newTestController(o)

	_, err := rc.Invoke(ctx, "user")
	require.Error(t, err)
	assert.Equal(t, 1, o.calls, "no retries after cancellation")
}

func TestJSONSpan(t *testing.T) {
	got, err := jsonSpan(`noise {"a": {"b": 1}} trailing`)
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	_, err = jsonSpan("no braces at all")
	require.Error(t, err)

	_, err = jsonSpan("} reversed {")
	require.Error(t, err)
}

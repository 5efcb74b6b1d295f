package extract

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-extract/internal/model"
	"github.com/sells-group/rfp-extract/internal/normalize"
)

// Oracle is the black-box text-generation service. Its output is untrusted:
// it may be malformed, wrapped in prose, or schema-violating.
type Oracle interface {
	Call(ctx context.Context, system, user string) (string, error)
}

// Default retry parameters matching the extraction pipeline's contract:
// MaxRetries additional attempts after the first, backoff scaled by the
// attempt number.
const (
	DefaultMaxRetries = 2
	DefaultBackoff    = 600 * time.Millisecond
)

// RetryController drives one oracle invocation to a sanitized, validated
// candidate state, retrying with error feedback on malformed output.
type RetryController struct {
	oracle     Oracle
	prompts    *Prompts
	maxRetries int
	backoff    time.Duration

	// sleep is swappable so tests do not wait out the backoff.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryController builds a controller with the default retry policy.
func NewRetryController(oracle Oracle, prompts *Prompts) *RetryController {
	return &RetryController{
		oracle:     oracle,
		prompts:    prompts,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		sleep:      sleepCtx,
	}
}

// WithPolicy overrides the retry count and backoff base. Values below zero
// are clamped to the defaults.
func (rc *RetryController) WithPolicy(maxRetries int, backoff time.Duration) *RetryController {
	if maxRetries >= 0 {
		rc.maxRetries = maxRetries
	}
	if backoff > 0 {
		rc.backoff = backoff
	}
	return rc
}

// Invoke runs up to maxRetries+1 attempts against the oracle. Each attempt
// appends the previous attempt's error to the system prompt, slices the
// response to its outermost JSON object, parses, sanitizes, and validates
// it. Exhausting every attempt returns (nil, last error); the caller must
// treat that as "skip this chunk, keep prior state".
func (rc *RetryController) Invoke(ctx context.Context, userPrompt string) (*model.ExtractionState, error) {
	var lastErr string

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if attempt > 0 {
			if err := rc.sleep(ctx, rc.backoff*time.Duration(attempt)); err != nil {
				return nil, eris.Wrap(err, "extract: retry wait")
			}
		}

		cand, err := rc.attempt(ctx, rc.prompts.System(lastErr), userPrompt)
		if err == nil {
			return cand, nil
		}
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "extract: invoke cancelled")
		}

		lastErr = err.Error()
		zap.L().Warn("oracle attempt failed",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", rc.maxRetries+1),
			zap.String("error", lastErr),
		)
	}

	return nil, eris.Errorf("extract: all attempts failed: %s", lastErr)
}

// attempt performs a single call-parse-sanitize-validate pass.
func (rc *RetryController) attempt(ctx context.Context, system, user string) (*model.ExtractionState, error) {
	out, err := rc.oracle.Call(ctx, system, user)
	if err != nil {
		return nil, eris.Wrap(err, "oracle call failed")
	}

	span, err := jsonSpan(out)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, eris.Wrapf(err, "JSON decoding error")
	}

	cand := Sanitize(raw)

	// Deadlines whose date field is not even date-shaped are dropped before
	// the merge engine ever sees them.
	kept := cand.Deadlines[:0]
	for _, d := range cand.Deadlines {
		if normalize.ContainsDate(d.Date) {
			kept = append(kept, d)
		}
	}
	cand.Deadlines = kept

	if vs := cand.Validate(); len(vs) > 0 {
		return nil, eris.Errorf("schema validation error(s): %s", model.SummarizeViolations(vs, 6))
	}

	return cand, nil
}

// jsonSpan slices text to the substring between the first '{' and the last
// '}'. It does not balance braces; the subsequent parse decides validity.
func jsonSpan(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", eris.New("no JSON object found in oracle output")
	}
	return text[start : end+1], nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

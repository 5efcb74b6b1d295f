// Package cost attributes API spend to extraction sessions.
package cost

import (
	"sync"

	"go.uber.org/zap"
)

// ModelRate holds per-model token pricing (USD per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// Rates maps model IDs to their pricing.
type Rates map[string]ModelRate

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		"claude-haiku-4-5-20251001": {
			Input: 0.80, Output: 4.00,
			CacheWriteMul: 1.25, CacheReadMul: 0.1,
		},
		"claude-sonnet-4-5-20250929": {
			Input: 3.00, Output: 15.00,
			CacheWriteMul: 1.25, CacheReadMul: 0.1,
		},
	}
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost of one Claude call. Unknown models cost zero.
func (c *Calculator) Claude(model string, input, output, cacheWrite, cacheRead int64) float64 {
	rate, ok := c.rates[model]
	if !ok {
		return 0
	}

	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	cwCost := (float64(cacheWrite) / 1e6) * rate.Input * rate.CacheWriteMul
	crCost := (float64(cacheRead) / 1e6) * rate.Input * rate.CacheReadMul

	return inCost + outCost + cwCost + crCost
}

// Tracker accumulates usage across the oracle calls of one document
// session. Safe for concurrent use: batch mode reads totals while the
// session is still recording.
type Tracker struct {
	calc *Calculator

	mu           sync.Mutex
	calls        int
	inputTokens  int64
	outputTokens int64
	usd          float64
}

// NewTracker creates a Tracker priced by calc.
func NewTracker(calc *Calculator) *Tracker {
	return &Tracker{calc: calc}
}

// Record adds one call's usage to the running totals.
func (t *Tracker) Record(model string, input, output, cacheWrite, cacheRead int64) {
	usd := t.calc.Claude(model, input, output, cacheWrite, cacheRead)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	t.inputTokens += input
	t.outputTokens += output
	t.usd += usd
}

// Summary is a point-in-time snapshot of a Tracker.
type Summary struct {
	Calls        int     `json:"calls"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	USD          float64 `json:"usd"`
}

// Summary returns the accumulated totals.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summary{
		Calls:        t.calls,
		InputTokens:  t.inputTokens,
		OutputTokens: t.outputTokens,
		USD:          t.usd,
	}
}

// Log writes the totals as a structured log line tagged with the document.
func (t *Tracker) Log(docID string) {
	s := t.Summary()
	zap.L().Info("session cost",
		zap.String("doc_id", docID),
		zap.Int("oracle_calls", s.Calls),
		zap.Int64("input_tokens", s.InputTokens),
		zap.Int64("output_tokens", s.OutputTokens),
		zap.Float64("estimated_cost_usd", s.USD),
	)
}

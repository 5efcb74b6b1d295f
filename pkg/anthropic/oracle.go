package anthropic

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Oracle adapts a Client to the plain text-in/text-out contract the
// extraction retry controller consumes. It holds the model parameters
// fixed for a session and reports per-call token usage through OnUsage.
type Oracle struct {
	client      Client
	model       string
	maxTokens   int64
	temperature *float64

	// OnUsage, when set, receives the token usage of every successful call.
	OnUsage func(model string, usage TokenUsage)
}

// OracleOption configures an Oracle.
type OracleOption func(*Oracle)

// WithMaxTokens overrides the default output token cap.
func WithMaxTokens(n int64) OracleOption {
	return func(o *Oracle) { o.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) OracleOption {
	return func(o *Oracle) { o.temperature = &t }
}

// NewOracle builds an Oracle using model for every call.
func NewOracle(client Client, model string, opts ...OracleOption) *Oracle {
	o := &Oracle{
		client:    client,
		model:     model,
		maxTokens: 4096,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Call sends one system+user exchange and returns the raw response text.
// The text may be malformed or contain prose around the JSON; the caller
// owns parsing and retries.
func (o *Oracle) Call(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateMessage(ctx, MessageRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		System:      system,
		Messages:    []Message{{Role: "user", Content: user}},
		Temperature: o.temperature,
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: oracle call")
	}

	if o.OnUsage != nil {
		o.OnUsage(resp.Model, resp.Usage)
	}
	zap.L().Debug("oracle call complete",
		zap.String("model", resp.Model),
		zap.String("stop_reason", resp.StopReason),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return resp.Text(), nil
}

package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/rfp-extract/internal/cost"
	"github.com/sells-group/rfp-extract/internal/extract"
	"github.com/sells-group/rfp-extract/internal/store"
	anthropicpkg "github.com/sells-group/rfp-extract/pkg/anthropic"
)

// env bundles the shared runtime pieces every extraction command needs:
// an open migrated store, the oracle client, and pricing.
type env struct {
	Store  store.Store
	Client anthropicpkg.Client
	Calc   *cost.Calculator
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "rfp-extract.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initEnv validates config for the given command, opens and migrates the
// store, and builds the Anthropic client.
func initEnv(ctx context.Context, command string) (*env, error) {
	if err := cfg.Validate(command); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}

	client := anthropicpkg.NewClient(cfg.Anthropic.Key,
		anthropicpkg.WithRequestsPerMinute(cfg.Anthropic.RequestsPerMinute),
	)

	rates := cfg.Pricing.Anthropic
	if rates == nil {
		rates = cost.DefaultRates()
	}

	return &env{
		Store:  st,
		Client: client,
		Calc:   cost.NewCalculator(rates),
	}, nil
}

func (e *env) Close() {
	e.Store.Close() //nolint:errcheck
}

// newSession builds a single-document extraction session with its own
// cost tracker. Sessions are not shared between documents.
func (e *env) newSession() (*extract.Session, *cost.Tracker) {
	tracker := cost.NewTracker(e.Calc)

	oracle := anthropicpkg.NewOracle(e.Client, cfg.Anthropic.Model,
		anthropicpkg.WithMaxTokens(cfg.Anthropic.MaxTokens),
		anthropicpkg.WithTemperature(cfg.Anthropic.Temperature),
	)
	oracle.OnUsage = func(model string, usage anthropicpkg.TokenUsage) {
		tracker.Record(model, usage.InputTokens, usage.OutputTokens,
			usage.CacheCreationInputTokens, usage.CacheReadInputTokens)
	}

	prompts := extract.NewPrompts()
	controller := extract.NewRetryController(oracle, prompts).
		WithPolicy(cfg.Extract.MaxRetries, time.Duration(cfg.Extract.BackoffMillis)*time.Millisecond)

	return extract.NewSession(controller, prompts), tracker
}

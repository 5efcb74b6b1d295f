package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-extract/internal/model"
)

func newTestSession(o Oracle) *Session {
	prompts := NewPrompts()
	rc := NewRetryController(o, prompts)
	rc.sleep = func(context.Context, time.Duration) error { return nil }
	return NewSession(rc, prompts)
}

func TestSessionRunSingleChunk(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"document_title": "Citywide IT Services RFP",
		  "deadlines": [{"date": "2025-09-29"}],
		  "contacts": [{"name": "Jane Doe", "email": "jane@x.com"}]}`,
	}}
	s := newTestSession(o)

	res, err := s.Run(context.Background(), []model.Chunk{{
		Text:       "Citywide IT Services RFP. Proposals due 2025-09-29. Contact Jane Doe <jane@x.com>.",
		Page:       1,
		ChunkIndex: 0,
	}})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, "Citywide IT Services RFP", res.State.DocumentTitle)
	require.Len(t, res.State.Deadlines, 1)
	require.Len(t, res.State.Contacts, 1)
	assert.NotEmpty(t, res.State.DocumentID)
}

func TestSessionSkipsEmptyChunksWithoutOracleCall(t *testing.T) {
	o := &scriptedOracle{}
	s := newTestSession(o)

	res, err := s.Run(context.Background(), []model.Chunk{
		{Text: "   \n\t  ", ChunkIndex: 0},
		{Text: "", ChunkIndex: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, o.calls)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 0, res.Merged)
}

func TestSessionFailedChunkKeepsPriorState(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"client_organization": "Acme County"}`,
		"garbage", "garbage", "garbage",
		`{"project_scope": "replace the billing system"}`,
	}}
	s := newTestSession(o)

	res, err := s.Run(context.Background(), []model.Chunk{
		{Text: "Issued by Acme County.", ChunkIndex: 0},
		{Text: "This chunk defeats the oracle entirely.", ChunkIndex: 1},
		{Text: "The project will replace the billing system.", ChunkIndex: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Merged)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Acme County", res.State.ClientOrganization)
	assert.Equal(t, "replace the billing system", res.State.ProjectScope)
}

func TestSessionStateFoldsAcrossChunks(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"requirements": ["encrypt data at rest"]}`,
		`{"requirements": ["encrypt  data  at  rest", "provide 24x7 support"]}`,
	}}
	s := newTestSession(o)

	res, err := s.Run(context.Background(), []model.Chunk{
		{Text: "Vendors must encrypt data at rest.", ChunkIndex: 0},
		{Text: "Vendors must encrypt data at rest and provide 24x7 support.", ChunkIndex: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"encrypt data at rest", "provide 24x7 support"}, res.State.Requirements)
}

func TestSessionDocumentIDStableAcrossChunks(t *testing.T) {
	o := &scriptedOracle{responses: []string{
		`{"document_id": "injected-1", "client_organization": "Acme County"}`,
		`{"document_id": "injected-2", "project_scope": "replace the billing system"}`,
	}}
	s := newTestSession(o)

	res, err := s.Run(context.Background(), []model.Chunk{
		{Text: "Issued by Acme County.", ChunkIndex: 0},
		{Text: "The project will replace the billing system.", ChunkIndex: 1},
	})
	require.NoError(t, err)

	assert.NotEqual(t, "injected-1", res.State.DocumentID)
	assert.NotEqual(t, "injected-2", res.State.DocumentID)
}

type panicOracle struct{ after int }

func (o *panicOracle) Call(context.Context, string, string) (string, error) {
	if o.after <= 0 {
		panic("oracle wiring bug")
	}
	o.after--
	return `{"client_organization": "Acme County"}`, nil
}

func TestSessionContainsChunkPanic(t *testing.T) {
	s := newTestSession(&panicOracle{after: 1})

	res, err := s.Run(context.Background(), []model.Chunk{
		{Text: "Issued by Acme County.", ChunkIndex: 0},
		{Text: "This chunk panics the oracle.", ChunkIndex: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Acme County", res.State.ClientOrganization)
}

func TestSessionCancelledContextReturnsAccumulatedState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	o := &scriptedOracle{responses: []string{`{"client_organization": "Acme County"}`}}
	prompts := NewPrompts()
	rc := NewRetryController(o, prompts)
	rc.sleep = func(context.Context, time.Duration) error { return nil }
	s := NewSession(rc, prompts)

	// Cancel after the first chunk by wrapping the oracle call count.
	res, err := s.Run(ctx, []model.Chunk{
		{Text: "Issued by Acme County.", ChunkIndex: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme County", res.State.ClientOrganization)

	cancel()
	res2, err := s.Run(ctx, []model.Chunk{{Text: "never processed", ChunkIndex: 0}})
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Merged)
	assert.NotNil(t, res2.State, "early stop still returns a usable state")
}

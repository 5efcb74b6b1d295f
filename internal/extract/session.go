package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/rfp-extract/internal/model"
)

// Result is the outcome of one document session.
type Result struct {
	State *model.ExtractionState

	// Chunk accounting: merged into state, skipped (empty or failed), and
	// discarded by the post-merge validation gate.
	Merged    int
	Skipped   int
	Discarded int
}

// Session folds a document's chunk sequence into a trusted state. Chunks
// are processed strictly sequentially: each merge depends on the previous
// chunk's output. Separate documents get separate Sessions and may run in
// parallel.
type Session struct {
	controller *RetryController
	prompts    *Prompts
}

// NewSession wires a session around a retry controller and its prompts.
func NewSession(controller *RetryController, prompts *Prompts) *Session {
	return &Session{controller: controller, prompts: prompts}
}

// Run processes chunks in order, starting from a fresh state. No chunk
// failure aborts the document: the worst outcome for any single chunk is
// "no state change". Context cancellation stops early and returns the
// state accumulated so far.
func (s *Session) Run(ctx context.Context, chunks []model.Chunk) (*Result, error) {
	res := &Result{State: model.NewState()}

	for _, chunk := range chunks {
		if ctx.Err() != nil {
			zap.L().Info("session stopped early",
				zap.String("doc_id", res.State.DocumentID),
				zap.Int("chunks_merged", res.Merged),
			)
			return res, nil
		}
		s.step(ctx, chunk, res)
	}

	zap.L().Info("session complete",
		zap.String("doc_id", res.State.DocumentID),
		zap.Int("chunks_merged", res.Merged),
		zap.Int("chunks_skipped", res.Skipped),
		zap.Int("chunks_discarded", res.Discarded),
	)
	return res, nil
}

// step processes one chunk against the running state. A panic from a
// malformed chunk payload is contained here so a single bad chunk never
// aborts the document.
func (s *Session) step(ctx context.Context, chunk model.Chunk, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res.Skipped++
			zap.L().Error("chunk processing panicked",
				zap.Int("chunk_index", chunk.ChunkIndex),
				zap.Any("panic", r),
			)
		}
	}()

	if chunk.Empty() {
		res.Skipped++
		zap.L().Debug("skipping empty chunk", zap.Int("chunk_index", chunk.ChunkIndex))
		return
	}

	user := s.prompts.User(res.State, chunk.Text)
	cand, err := s.controller.Invoke(ctx, user)
	if err != nil {
		res.Skipped++
		zap.L().Warn("chunk extraction failed, keeping prior state",
			zap.Int("chunk_index", chunk.ChunkIndex),
			zap.Error(err),
		)
		return
	}

	merged, audit := Merge(res.State, cand, chunk.Text)
	for _, line := range audit {
		zap.L().Debug("merge decision",
			zap.Int("chunk_index", chunk.ChunkIndex),
			zap.String("decision", line),
		)
	}

	if vs := merged.Validate(); len(vs) > 0 {
		res.Discarded++
		zap.L().Warn("merged state failed validation, discarding chunk contribution",
			zap.Int("chunk_index", chunk.ChunkIndex),
			zap.String("violations", model.SummarizeViolations(vs, 6)),
		)
		return
	}

	res.State = merged
	res.Merged++
}

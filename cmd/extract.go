package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-extract/internal/model"
	"github.com/sells-group/rfp-extract/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <chunks-file>",
	Short: "Extract a single chunked document",
	Long:  "Reads a JSON chunk file, folds the chunks through the extraction oracle, persists the run, and prints the final state.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx, "extract")
		if err != nil {
			return err
		}
		defer e.Close()

		run, err := processDocument(ctx, e, args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

// chunkFile is the on-disk shape of a chunked document. A bare JSON array
// of chunks is accepted too.
type chunkFile struct {
	Source string        `json:"source,omitempty"`
	Chunks []model.Chunk `json:"chunks"`
}

func loadChunks(path string) (*chunkFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read chunk file %s", path)
	}

	var cf chunkFile
	if err := json.Unmarshal(data, &cf); err != nil {
		// Fall back to a bare array of chunks.
		var chunks []model.Chunk
		if arrErr := json.Unmarshal(data, &chunks); arrErr != nil {
			return nil, eris.Wrapf(err, "parse chunk file %s", path)
		}
		cf.Chunks = chunks
	}
	if cf.Source == "" {
		cf.Source = path
	}
	if len(cf.Chunks) == 0 {
		return nil, eris.Errorf("chunk file %s contains no chunks", path)
	}
	return &cf, nil
}

// processDocument runs the full lifecycle for one chunk file: create a
// run record, fold the chunks into a state, persist the result, and
// route the finished state into the index collections.
func processDocument(ctx context.Context, e *env, path string) (*model.Run, error) {
	cf, err := loadChunks(path)
	if err != nil {
		return nil, err
	}

	session, tracker := e.newSession()

	run, err := e.Store.CreateRun(ctx, "", cf.Source)
	if err != nil {
		return nil, err
	}
	if err := e.Store.UpdateRunStatus(ctx, run.ID, model.RunRunning); err != nil {
		return nil, err
	}

	res, err := session.Run(ctx, cf.Chunks)
	if err != nil {
		run.Status = model.RunFailed
		run.Error = err.Error()
		if uerr := e.Store.UpdateRunResult(ctx, run.ID, run); uerr != nil {
			zap.L().Error("record failed run", zap.String("run_id", run.ID), zap.Error(uerr))
		}
		return nil, eris.Wrapf(err, "extract %s", cf.Source)
	}

	run.Status = model.RunComplete
	run.DocID = res.State.DocumentID
	run.State = res.State
	run.Chunks = len(cf.Chunks)
	run.Merged = res.Merged
	run.Skipped = res.Skipped
	run.Discarded = res.Discarded
	if err := e.Store.UpdateRunResult(ctx, run.ID, run); err != nil {
		return nil, err
	}

	for collection, docs := range store.Route(res.State, cf.Chunks) {
		n, err := e.Store.AddIndexDocs(ctx, collection, docs)
		if err != nil {
			return nil, eris.Wrapf(err, "index %s", collection)
		}
		zap.L().Debug("indexed",
			zap.String("collection", collection),
			zap.Int64("docs", n),
		)
	}

	tracker.Log(res.State.DocumentID)
	zap.L().Info("extraction complete",
		zap.String("run_id", run.ID),
		zap.String("doc_id", run.DocID),
		zap.String("source", run.Source),
		zap.Int("chunks_merged", run.Merged),
		zap.Int("chunks_skipped", run.Skipped),
		zap.Int("chunks_discarded", run.Discarded),
	)
	return run, nil
}

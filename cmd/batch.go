package main

import (
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/rfp-extract/internal/model"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every chunk file in a directory",
	Long:  "Processes all .json chunk files in a directory concurrently. Documents run in parallel; chunks within a document stay strictly sequential.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx, "batch")
		if err != nil {
			return err
		}
		defer e.Close()

		paths, err := filepath.Glob(filepath.Join(args[0], "*.json"))
		if err != nil {
			return eris.Wrapf(err, "glob %s", args[0])
		}
		if len(paths) == 0 {
			zap.L().Info("no chunk files found", zap.String("dir", args[0]))
			return nil
		}
		if batchLimit > 0 && len(paths) > batchLimit {
			paths = paths[:batchLimit]
		}

		zap.L().Info("processing batch",
			zap.Int("documents", len(paths)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrentDocuments),
		)

		var completed, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentDocuments)
		for _, path := range paths {
			g.Go(func() error {
				run, err := processDocument(gctx, e, path)
				if err != nil {
					failed.Add(1)
					zap.L().Error("document failed",
						zap.String("path", path),
						zap.Error(err),
					)
					// One bad document does not abort the batch.
					return nil
				}
				completed.Add(1)
				logRunOutcome(run)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int64("completed", completed.Load()),
			zap.Int64("failed", failed.Load()),
		)
		return nil
	},
}

func logRunOutcome(run *model.Run) {
	zap.L().Info("document complete",
		zap.String("run_id", run.ID),
		zap.String("source", run.Source),
		zap.Int("chunks", run.Chunks),
		zap.Int("merged", run.Merged),
	)
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rfp-extract/internal/model"
	"github.com/sells-group/rfp-extract/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/extract", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Source string        `json:"source"`
				Chunks []model.Chunk `json:"chunks"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
				return
			}
			if len(body.Chunks) == 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chunks is required"})
				return
			}

			run, err := e.Store.CreateRun(req.Context(), "", body.Source)
			if err != nil {
				zap.L().Error("create run", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create run failed"})
				return
			}

			// Extraction runs in the background against the server's
			// lifetime context, not the request's.
			go runExtraction(ctx, e, run, body.Chunks)

			writeJSON(w, http.StatusAccepted, map[string]string{
				"run_id": run.ID,
				"status": string(model.RunQueued),
			})
		})

		r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
			filter := store.RunFilter{
				Status: model.RunStatus(req.URL.Query().Get("status")),
				DocID:  req.URL.Query().Get("doc_id"),
			}
			runs, err := e.Store.ListRuns(req.Context(), filter)
			if err != nil {
				zap.L().Error("list runs", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
				return
			}
			writeJSON(w, http.StatusOK, runs)
		})

		r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
			run, err := e.Store.GetRun(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
				return
			}
			writeJSON(w, http.StatusOK, run)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// runExtraction drives one queued run to a terminal status.
func runExtraction(ctx context.Context, e *env, run *model.Run, chunks []model.Chunk) {
	if err := e.Store.UpdateRunStatus(ctx, run.ID, model.RunRunning); err != nil {
		zap.L().Error("mark run running", zap.String("run_id", run.ID), zap.Error(err))
		return
	}

	session, tracker := e.newSession()
	res, err := session.Run(ctx, chunks)
	if err != nil {
		run.Status = model.RunFailed
		run.Error = err.Error()
		if uerr := e.Store.UpdateRunResult(ctx, run.ID, run); uerr != nil {
			zap.L().Error("record failed run", zap.String("run_id", run.ID), zap.Error(uerr))
		}
		return
	}

	run.Status = model.RunComplete
	run.DocID = res.State.DocumentID
	run.State = res.State
	run.Chunks = len(chunks)
	run.Merged = res.Merged
	run.Skipped = res.Skipped
	run.Discarded = res.Discarded
	if err := e.Store.UpdateRunResult(ctx, run.ID, run); err != nil {
		zap.L().Error("record run result", zap.String("run_id", run.ID), zap.Error(err))
		return
	}

	for collection, docs := range store.Route(res.State, chunks) {
		if _, err := e.Store.AddIndexDocs(ctx, collection, docs); err != nil {
			zap.L().Error("index routing failed",
				zap.String("run_id", run.ID),
				zap.String("collection", collection),
				zap.Error(err),
			)
		}
	}

	tracker.Log(res.State.DocumentID)
	zap.L().Info("extraction complete",
		zap.String("run_id", run.ID),
		zap.String("doc_id", run.DocID),
		zap.Int("chunks_merged", run.Merged),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

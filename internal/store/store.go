// Package store persists extraction runs and routes finished states into
// per-entity index collections. Two backends are provided: SQLite for
// local single-user work and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/sells-group/rfp-extract/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	DocID  string          `json:"doc_id,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// IndexDoc is one searchable document destined for an index collection:
// a text body plus flat metadata. Metadata always carries doc_id so
// downstream consumers can trace any indexed item back to its source
// document.
type IndexDoc struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Index collection names. Each entity list in a finished extraction state
// lands in its own collection; raw chunks are indexed too.
const (
	CollChunks        = "rfp_chunks"
	CollRequirements  = "rfp_requirements"
	CollCriteria      = "rfp_criteria"
	CollContacts      = "rfp_contacts"
	CollDeadlines     = "rfp_deadlines"
	CollTechnologies  = "rfp_technologies"
	CollStandards     = "rfp_standards"
	CollOrganizations = "rfp_organizations"
)

// Collections lists every index collection in routing order.
var Collections = []string{
	CollChunks,
	CollRequirements,
	CollCriteria,
	CollContacts,
	CollDeadlines,
	CollTechnologies,
	CollStandards,
	CollOrganizations,
}

// Store defines the persistence interface for the extraction pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, docID, source string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Index
	AddIndexDocs(ctx context.Context, collection string, docs []IndexDoc) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

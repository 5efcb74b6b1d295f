package model

import "time"

// RunStatus is the lifecycle state of an extraction run.
type RunStatus string

const (
	RunQueued   RunStatus = "queued"
	RunRunning  RunStatus = "running"
	RunComplete RunStatus = "complete"
	RunFailed   RunStatus = "failed"
)

// Run records one extraction pass over a document: which source it came
// from, where the run stands, and the final trusted state once complete.
type Run struct {
	ID        string           `json:"id"`
	DocID     string           `json:"doc_id"`
	Source    string           `json:"source,omitempty"`
	Status    RunStatus        `json:"status"`
	State     *ExtractionState `json:"state,omitempty"`
	Error     string           `json:"error,omitempty"`
	Chunks    int              `json:"chunks"`
	Merged    int              `json:"merged"`
	Skipped   int              `json:"skipped"`
	Discarded int              `json:"discarded"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Terminal reports whether the run has finished, successfully or not.
func (r *Run) Terminal() bool {
	return r.Status == RunComplete || r.Status == RunFailed
}

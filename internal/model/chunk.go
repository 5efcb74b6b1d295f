package model

import "strings"

// Chunk is a page-ordered slice of a source document's extracted text plus
// positional metadata. Chunks are produced by the external parsing pipeline;
// ordering by ChunkIndex is caller-guaranteed, and the extraction result
// depends on the processing order.
type Chunk struct {
	DocID      string `json:"doc_id"`
	Text       string `json:"text"`
	Page       int    `json:"page"`
	ChunkIndex int    `json:"chunk_index"`
	Title      string `json:"title,omitempty"`
}

// Empty reports whether the chunk has no usable text after trimming.
// Empty chunks are skipped without an oracle call.
func (c Chunk) Empty() bool {
	return strings.TrimSpace(c.Text) == ""
}

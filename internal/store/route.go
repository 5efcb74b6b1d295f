package store

import (
	"strings"

	"github.com/sells-group/rfp-extract/internal/model"
)

// Route fans a finished extraction state (and the raw chunks it came
// from) out into per-collection index documents. Every document's
// metadata carries the owning doc_id.
func Route(state *model.ExtractionState, chunks []model.Chunk) map[string][]IndexDoc {
	out := make(map[string][]IndexDoc)
	docID := state.DocumentID

	for _, c := range chunks {
		if c.Empty() {
			continue
		}
		out[CollChunks] = append(out[CollChunks], IndexDoc{
			Text: c.Text,
			Metadata: map[string]any{
				"doc_id":      docID,
				"page":        c.Page,
				"chunk_index": c.ChunkIndex,
				"title":       c.Title,
			},
		})
	}

	for _, r := range state.Requirements {
		out[CollRequirements] = append(out[CollRequirements], IndexDoc{
			Text:     r,
			Metadata: map[string]any{"doc_id": docID},
		})
	}

	for _, c := range state.EvaluationCriteria {
		out[CollCriteria] = append(out[CollCriteria], IndexDoc{
			Text:     c.Criterion,
			Metadata: map[string]any{"doc_id": docID},
		})
	}

	for _, ct := range state.Contacts {
		out[CollContacts] = append(out[CollContacts], IndexDoc{
			Text: contactText(ct),
			Metadata: map[string]any{
				"doc_id": docID,
				"name":   ct.Name,
				"title":  ct.Title,
				"email":  ct.Email,
				"phone":  ct.Phone,
			},
		})
	}

	for _, d := range state.Deadlines {
		text := d.Date
		if d.Kind != "" {
			text = d.Kind + ": " + d.Date
		}
		out[CollDeadlines] = append(out[CollDeadlines], IndexDoc{
			Text: text,
			Metadata: map[string]any{
				"doc_id": docID,
				"date":   d.Date,
				"kind":   d.Kind,
			},
		})
	}

	for _, k := range state.Keywords {
		out[CollTechnologies] = append(out[CollTechnologies], IndexDoc{
			Text:     strings.ToLower(k),
			Metadata: map[string]any{"doc_id": docID},
		})
	}

	for _, s := range state.ComplianceStandards {
		out[CollStandards] = append(out[CollStandards], IndexDoc{
			Text:     strings.ToUpper(s),
			Metadata: map[string]any{"doc_id": docID},
		})
	}

	if state.ClientOrganization != "" {
		md := map[string]any{"doc_id": docID}
		text := state.ClientOrganization
		if state.ClientIndustry != "" {
			md["industry"] = state.ClientIndustry
			text += " (" + state.ClientIndustry + ")"
		}
		out[CollOrganizations] = append(out[CollOrganizations], IndexDoc{
			Text:     text,
			Metadata: md,
		})
	}

	return out
}

// contactText renders a contact as a single searchable line, skipping
// empty fields.
func contactText(c model.Contact) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{c.Name, c.Title, c.Email, c.Phone} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}

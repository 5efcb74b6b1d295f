package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-extract/internal/model"
)

func routedState() *model.ExtractionState {
	st := model.NewState()
	st.DocumentTitle = "Citywide IT Services RFP"
	st.ClientOrganization = "Acme County"
	st.ClientIndustry = "Local Government"
	st.Deadlines = []model.Deadline{{Date: "2025-09-29", Kind: "proposal"}}
	st.Contacts = []model.Contact{{Name: "Jane Doe", Email: "jane@x.com", Phone: "5551234567"}}
	st.EvaluationCriteria = []model.EvalCriterion{{Criterion: "Technical approach (40%)"}}
	st.Requirements = []string{"encrypt data at rest"}
	st.Keywords = []string{"Kubernetes", "postgresql"}
	st.ComplianceStandards = []string{"soc 2", "ISO 27001"}
	return st
}

func TestRouteCollections(t *testing.T) {
	st := routedState()
	chunks := []model.Chunk{
		{Text: "chunk one", Page: 1, ChunkIndex: 0},
		{Text: "   ", Page: 2, ChunkIndex: 1}, // empty, not indexed
	}

	routed := Route(st, chunks)

	require.Len(t, routed[CollChunks], 1)
	assert.Equal(t, "chunk one", routed[CollChunks][0].Text)
	assert.Equal(t, 1, routed[CollChunks][0].Metadata["page"])

	require.Len(t, routed[CollRequirements], 1)
	assert.Equal(t, "encrypt data at rest", routed[CollRequirements][0].Text)

	require.Len(t, routed[CollCriteria], 1)
	require.Len(t, routed[CollDeadlines], 1)
	assert.Equal(t, "proposal: 2025-09-29", routed[CollDeadlines][0].Text)
	assert.Equal(t, "2025-09-29", routed[CollDeadlines][0].Metadata["date"])

	require.Len(t, routed[CollContacts], 1)
	assert.Equal(t, "Jane Doe | jane@x.com | 5551234567", routed[CollContacts][0].Text)
	assert.Equal(t, "jane@x.com", routed[CollContacts][0].Metadata["email"])

	require.Len(t, routed[CollOrganizations], 1)
	assert.Equal(t, "Acme County (Local Government)", routed[CollOrganizations][0].Text)
}

func TestRouteNormalizesTokenCollections(t *testing.T) {
	st := routedState()
	routed := Route(st, nil)

	require.Len(t, routed[CollTechnologies], 2)
	assert.Equal(t, "kubernetes", routed[CollTechnologies][0].Text)
	assert.Equal(t, "postgresql", routed[CollTechnologies][1].Text)

	require.Len(t, routed[CollStandards], 2)
	assert.Equal(t, "SOC 2", routed[CollStandards][0].Text)
	assert.Equal(t, "ISO 27001", routed[CollStandards][1].Text)
}

func TestRouteEveryDocCarriesDocID(t *testing.T) {
	st := routedState()
	routed := Route(st, []model.Chunk{{Text: "chunk", ChunkIndex: 0}})

	for coll, docs := range routed {
		for _, d := range docs {
			assert.Equal(t, st.DocumentID, d.Metadata["doc_id"], "collection %s", coll)
		}
	}
}

func TestRouteEmptyStateRoutesNothing(t *testing.T) {
	routed := Route(model.NewState(), nil)
	assert.Empty(t, routed)
}

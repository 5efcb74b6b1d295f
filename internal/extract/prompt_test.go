package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-extract/internal/model"
)

func TestSystemPromptErrorAddendum(t *testing.T) {
	p := NewPrompts()

	base := p.System("")
	assert.Contains(t, base, "document_title")
	assert.NotContains(t, base, "PREVIOUS_ATTEMPT_ERROR")

	withErr := p.System("invalid JSON")
	assert.Contains(t, withErr, "PREVIOUS_ATTEMPT_ERROR")
	assert.Contains(t, withErr, "invalid JSON")
	assert.True(t, strings.HasPrefix(withErr, base), "addendum appends, never replaces")
}

func TestUserPromptWithholdsDocumentID(t *testing.T) {
	p := NewPrompts()
	st := model.NewState()
	st.ClientOrganization = "Acme County"

	user := p.User(st, "chunk text here")
	assert.Contains(t, user, "Acme County")
	assert.Contains(t, user, "chunk text here")
	assert.NotContains(t, user, st.DocumentID)
}

func TestUserPromptListsUnresolvedFields(t *testing.T) {
	p := NewPrompts()
	st := model.NewState()
	st.DocumentTitle = "Citywide IT Services RFP"

	user := p.User(st, "chunk")
	_, hintOn, found := strings.Cut(user, "UNRESOLVED_FIELDS")
	require.True(t, found)
	hint, _, _ := strings.Cut(hintOn, "\n")
	assert.Contains(t, hint, "client_organization")
	assert.NotContains(t, hint, "document_title")
}

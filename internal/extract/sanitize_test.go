package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/rfp-extract/internal/model"
)

func rawPayload(t *testing.T, js string) map[string]any {
	t.Helper()
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(js), &raw))
	return raw
}

func TestSanitizeEmptyPayload(t *testing.T) {
	s := Sanitize(rawPayload(t, `{}`))

	assert.Empty(t, s.Validate())
	assert.NotNil(t, s.Deadlines)
	assert.NotNil(t, s.Contacts)
	assert.NotNil(t, s.Requirements)
	assert.Empty(t, s.DocumentTitle)
}

func TestSanitizeNullListsBecomeEmpty(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"deadlines": null,
		"contacts": null,
		"evaluation_criteria": null,
		"requirements": null,
		"keywords": null,
		"compliance_standards": null
	}`))

	assert.Equal(t, []model.Deadline{}, s.Deadlines)
	assert.Equal(t, []model.Contact{}, s.Contacts)
	assert.Equal(t, []model.EvalCriterion{}, s.EvaluationCriteria)
	assert.Equal(t, []string{}, s.Requirements)
}

func TestSanitizeScalarShapes(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"document_title": "  Citywide IT Services RFP ",
		"client_organization": "N/A",
		"client_industry": null,
		"contract_term": 36
	}`))

	assert.Equal(t, "Citywide IT Services RFP", s.DocumentTitle)
	assert.Empty(t, s.ClientOrganization, "missing token nulls out")
	assert.Empty(t, s.ClientIndustry)
	assert.Empty(t, s.ContractTerm, "non-string scalar shapes are rejected")
}

func TestSanitizeDeadlineShapes(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"deadlines": [
			{"date": "2025-09-29", "kind": "proposals due"},
			{"date": " 2025-10-15 "},
			"2025-11-01",
			{"kind": "missing date"},
			{"date": ""},
			42
		]
	}`))

	require.Len(t, s.Deadlines, 3)
	assert.Equal(t, model.Deadline{Date: "2025-09-29", Kind: "proposals due"}, s.Deadlines[0])
	assert.Equal(t, model.Deadline{Date: "2025-10-15"}, s.Deadlines[1])
	assert.Equal(t, model.Deadline{Date: "2025-11-01"}, s.Deadlines[2])
}

func TestSanitizeBareStringDeadline(t *testing.T) {
	s := Sanitize(rawPayload(t, `{"deadlines": "2025-09-29"}`))
	require.Len(t, s.Deadlines, 1)
	assert.Equal(t, "2025-09-29", s.Deadlines[0].Date)
}

func TestSanitizeCriteriaShapes(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"evaluation_criteria": [
			{"criterion": "Technical approach"},
			"Past performance",
			{"criterion": "  "},
			null
		]
	}`))

	require.Len(t, s.EvaluationCriteria, 2)
	assert.Equal(t, "Technical approach", s.EvaluationCriteria[0].Criterion)
	assert.Equal(t, "Past performance", s.EvaluationCriteria[1].Criterion)
}

func TestSanitizeStringLists(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"requirements": ["  encrypt data at rest ", "", "24x7 support"],
		"keywords": "kubernetes",
		"compliance_standards": ["HIPAA", 27001]
	}`))

	assert.Equal(t, []string{"encrypt data at rest", "24x7 support"}, s.Requirements)
	assert.Equal(t, []string{"kubernetes"}, s.Keywords)
	assert.Equal(t, []string{"HIPAA", "27001"}, s.ComplianceStandards)
}

func TestSanitizeContactObject(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"contacts": [
			{"name": "Jane Doe", "title": "Procurement Lead", "email": "JANE@X.COM", "phone": "(555) 123-4567"}
		]
	}`))

	require.Len(t, s.Contacts, 1)
	c := s.Contacts[0]
	assert.Equal(t, "Jane Doe", c.Name)
	assert.Equal(t, "Procurement Lead", c.Title)
	assert.Equal(t, "jane@x.com", c.Email)
	assert.Equal(t, "5551234567", c.Phone)
}

func TestSanitizeContactMissingTokens(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"contacts": [{"name": "None", "title": "n/a", "email": "null", "phone": "-"}]
	}`))
	assert.Empty(t, s.Contacts, "contact with every field missing is dropped")
}

func TestSanitizeContactNameEncodesEmail(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"contacts": [{"name": "Jane Doe <jane@x.com>"}]
	}`))

	require.Len(t, s.Contacts, 1)
	assert.Equal(t, "Jane Doe", s.Contacts[0].Name)
	assert.Equal(t, "jane@x.com", s.Contacts[0].Email)
}

func TestSanitizeContactStringShapes(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"contacts": [
			"Bob Smith <BOB.SMITH@agency.gov>",
			"plain.name@example.org",
			"Carol Jones",
			"{\"name\": \"Dave Lee\", \"email\": \"dave@x.com\"}"
		]
	}`))

	require.Len(t, s.Contacts, 4)
	assert.Equal(t, model.Contact{Name: "Bob Smith", Email: "bob.smith@agency.gov"}, s.Contacts[0])
	assert.Equal(t, "Plain Name", s.Contacts[1].Name, "name derived from email local part")
	assert.Equal(t, "plain.name@example.org", s.Contacts[1].Email)
	assert.Equal(t, model.Contact{Name: "Carol Jones"}, s.Contacts[2])
	assert.Equal(t, model.Contact{Name: "Dave Lee", Email: "dave@x.com"}, s.Contacts[3])
}

func TestSanitizeContactDedup(t *testing.T) {
	s := Sanitize(rawPayload(t, `{
		"contacts": [
			{"name": "Jane Doe", "email": "jane@x.com"},
			{"name": "J. Doe", "email": "JANE@X.COM", "title": "ignored duplicate"},
			{"name": "Jane Doe", "phone": "555-123-4567"},
			{"name": "Jane Doe", "phone": "555.123.4567"}
		]
	}`))

	// First two collapse on email; last two collapse on (name, phone).
	require.Len(t, s.Contacts, 2)
	assert.Equal(t, "Jane Doe", s.Contacts[0].Name)
	assert.Equal(t, "jane@x.com", s.Contacts[0].Email)
	assert.Equal(t, "5551234567", s.Contacts[1].Phone)
}

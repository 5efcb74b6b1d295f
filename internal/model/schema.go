package model

// SchemaJSON is the output contract sent verbatim to the oracle inside the
// system prompt. Keep it in sync with ExtractionState.
const SchemaJSON = `{
  "type": "object",
  "properties": {
    "document_type": {"type": ["string", "null"], "enum": ["RFP", "RFI", "RFQ", "Sources Sought", "Other", null]},
    "document_title": {"type": ["string", "null"]},
    "document_id": {"type": ["string", "null"]},
    "issue_date": {"type": ["string", "null"]},
    "deadlines": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "date": {"type": "string"},
          "kind": {"type": ["string", "null"]}
        },
        "required": ["date"]
      }
    },
    "client_organization": {"type": ["string", "null"]},
    "client_industry": {"type": ["string", "null"]},
    "contacts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "title": {"type": ["string", "null"]},
          "email": {"type": ["string", "null"]},
          "phone": {"type": ["string", "null"]}
        },
        "required": ["name"]
      }
    },
    "project_scope": {"type": ["string", "null"]},
    "contract_term": {"type": ["string", "null"]},
    "submission_method": {"type": ["string", "null"]},
    "evaluation_criteria": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "criterion": {"type": "string"}
        },
        "required": ["criterion"]
      }
    },
    "pricing_structure": {"type": ["string", "null"]},
    "requirements": {"type": "array", "items": {"type": "string"}},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "compliance_standards": {"type": "array", "items": {"type": "string"}}
  },
  "required": [
    "document_type", "document_title", "issue_date", "deadlines",
    "client_organization", "client_industry", "contacts", "project_scope",
    "contract_term", "submission_method", "evaluation_criteria",
    "pricing_structure", "requirements", "keywords", "compliance_standards"
  ]
}`

// FieldNames lists every top-level schema key in contract order.
var FieldNames = []string{
	"document_type",
	"document_title",
	"document_id",
	"issue_date",
	"deadlines",
	"client_organization",
	"client_industry",
	"contacts",
	"project_scope",
	"contract_term",
	"submission_method",
	"evaluation_criteria",
	"pricing_structure",
	"requirements",
	"keywords",
	"compliance_standards",
}

// ListFields are the keys whose values are arrays; a null here is coerced to
// an empty list rather than treated as unset.
var ListFields = map[string]bool{
	"deadlines":            true,
	"contacts":             true,
	"evaluation_criteria":  true,
	"requirements":         true,
	"keywords":             true,
	"compliance_standards": true,
}

package model

import (
	"github.com/google/uuid"
)

// DocumentType classifies the solicitation document.
type DocumentType string

const (
	DocTypeRFP           DocumentType = "RFP"
	DocTypeRFI           DocumentType = "RFI"
	DocTypeRFQ           DocumentType = "RFQ"
	DocTypeSourcesSought DocumentType = "Sources Sought"
	DocTypeOther         DocumentType = "Other"
)

// DocumentTypes lists the valid enum values. The empty string means unset
// (null on the wire).
var DocumentTypes = []DocumentType{
	DocTypeRFP, DocTypeRFI, DocTypeRFQ, DocTypeSourcesSought, DocTypeOther,
}

// ValidDocumentType reports whether s is a member of the enum or unset.
func ValidDocumentType(s DocumentType) bool {
	if s == "" {
		return true
	}
	for _, t := range DocumentTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Deadline is a dated milestone extracted from the document. Kind is
// optional; uniqueness within a state is (date, kind) when kind is present,
// else date alone.
type Deadline struct {
	Date string `json:"date"`
	Kind string `json:"kind,omitempty"`
}

// Contact is a point of contact extracted from the document. Name, once
// validated, is required; the remaining fields are optional.
type Contact struct {
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// EvalCriterion is a single evaluation criterion.
type EvalCriterion struct {
	Criterion string `json:"criterion"`
}

// ExtractionState is the trusted record accumulated over a document's
// chunks. Scalar fields use the empty string for unset (rendered as null on
// the wire); list fields are always non-nil in a canonical state.
type ExtractionState struct {
	DocumentType        DocumentType    `json:"document_type"`
	DocumentTitle       string          `json:"document_title"`
	DocumentID          string          `json:"document_id"`
	IssueDate           string          `json:"issue_date"`
	Deadlines           []Deadline      `json:"deadlines"`
	ClientOrganization  string          `json:"client_organization"`
	ClientIndustry      string          `json:"client_industry"`
	Contacts            []Contact       `json:"contacts"`
	ProjectScope        string          `json:"project_scope"`
	ContractTerm        string          `json:"contract_term"`
	SubmissionMethod    string          `json:"submission_method"`
	EvaluationCriteria  []EvalCriterion `json:"evaluation_criteria"`
	PricingStructure    string          `json:"pricing_structure"`
	Requirements        []string        `json:"requirements"`
	Keywords            []string        `json:"keywords"`
	ComplianceStandards []string        `json:"compliance_standards"`
}

// NewState creates an empty canonical state with a freshly generated
// document ID. The ID is assigned exactly once here and is never
// overwritten by merge input.
func NewState() *ExtractionState {
	s := emptyState()
	s.DocumentID = uuid.New().String()
	return s
}

// emptyState returns a state with all lists initialized and all scalars
// unset, including the document ID.
func emptyState() *ExtractionState {
	return &ExtractionState{
		Deadlines:           []Deadline{},
		Contacts:            []Contact{},
		EvaluationCriteria:  []EvalCriterion{},
		Requirements:        []string{},
		Keywords:            []string{},
		ComplianceStandards: []string{},
	}
}

// Clone returns a deep copy. Merge operates on a clone so a failed
// validation gate can discard the whole chunk's contribution.
func (s *ExtractionState) Clone() *ExtractionState {
	out := *s
	out.Deadlines = append([]Deadline{}, s.Deadlines...)
	out.Contacts = append([]Contact{}, s.Contacts...)
	out.EvaluationCriteria = append([]EvalCriterion{}, s.EvaluationCriteria...)
	out.Requirements = append([]string{}, s.Requirements...)
	out.Keywords = append([]string{}, s.Keywords...)
	out.ComplianceStandards = append([]string{}, s.ComplianceStandards...)
	return &out
}

// nullable renders an optional scalar for JSON payloads: empty becomes null.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PromptPayload renders the state for embedding in the oracle's user prompt.
// Unset scalars become explicit nulls and the system-generated document_id
// is withheld so the oracle can never echo or overwrite it.
func (s *ExtractionState) PromptPayload() map[string]any {
	p := s.Payload()
	delete(p, "document_id")
	return p
}

// Payload renders the full state as a flat JSON-compatible object matching
// the schema contract (every key present, unset scalars null).
func (s *ExtractionState) Payload() map[string]any {
	return map[string]any{
		"document_type":        nullable(string(s.DocumentType)),
		"document_title":       nullable(s.DocumentTitle),
		"document_id":          nullable(s.DocumentID),
		"issue_date":           nullable(s.IssueDate),
		"deadlines":            s.Deadlines,
		"client_organization":  nullable(s.ClientOrganization),
		"client_industry":      nullable(s.ClientIndustry),
		"contacts":             s.Contacts,
		"project_scope":        nullable(s.ProjectScope),
		"contract_term":        nullable(s.ContractTerm),
		"submission_method":    nullable(s.SubmissionMethod),
		"evaluation_criteria":  s.EvaluationCriteria,
		"pricing_structure":    nullable(s.PricingStructure),
		"requirements":         s.Requirements,
		"keywords":             s.Keywords,
		"compliance_standards": s.ComplianceStandards,
	}
}

// UnresolvedFields lists schema fields still null or empty, in schema key
// order. Injected into the user prompt as a prioritization hint.
func (s *ExtractionState) UnresolvedFields() []string {
	var out []string
	add := func(field string, empty bool) {
		if empty {
			out = append(out, field)
		}
	}
	add("document_type", s.DocumentType == "")
	add("document_title", s.DocumentTitle == "")
	add("issue_date", s.IssueDate == "")
	add("deadlines", len(s.Deadlines) == 0)
	add("client_organization", s.ClientOrganization == "")
	add("client_industry", s.ClientIndustry == "")
	add("contacts", len(s.Contacts) == 0)
	add("project_scope", s.ProjectScope == "")
	add("contract_term", s.ContractTerm == "")
	add("submission_method", s.SubmissionMethod == "")
	add("evaluation_criteria", len(s.EvaluationCriteria) == 0)
	add("pricing_structure", s.PricingStructure == "")
	add("requirements", len(s.Requirements) == 0)
	add("keywords", len(s.Keywords) == 0)
	add("compliance_standards", len(s.ComplianceStandards) == 0)
	return out
}

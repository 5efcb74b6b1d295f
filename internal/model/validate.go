package model

import (
	"fmt"
	"strings"
)

// Violation describes a single structural problem found in a state or an
// oracle response.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// Validate checks the structural invariants of a state: the document type
// is a known enum value, list members carry their required fields, and no
// list is nil. It returns every violation found rather than stopping at the
// first so a retry prompt can report them all.
func (s *ExtractionState) Validate() []Violation {
	var vs []Violation

	if !ValidDocumentType(s.DocumentType) {
		vs = append(vs, Violation{
			Field:   "document_type",
			Message: fmt.Sprintf("%q is not one of RFP, RFI, RFQ, Sources Sought, Other", s.DocumentType),
		})
	}

	for name, isNil := range map[string]bool{
		"deadlines":            s.Deadlines == nil,
		"contacts":             s.Contacts == nil,
		"evaluation_criteria":  s.EvaluationCriteria == nil,
		"requirements":         s.Requirements == nil,
		"keywords":             s.Keywords == nil,
		"compliance_standards": s.ComplianceStandards == nil,
	} {
		if isNil {
			vs = append(vs, Violation{Field: name, Message: "list must not be null"})
		}
	}

	for i, d := range s.Deadlines {
		if strings.TrimSpace(d.Date) == "" {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("deadlines[%d].date", i),
				Message: "date is required",
			})
		}
	}
	for i, c := range s.Contacts {
		if strings.TrimSpace(c.Name) == "" {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("contacts[%d].name", i),
				Message: "name is required",
			})
		}
	}
	for i, c := range s.EvaluationCriteria {
		if strings.TrimSpace(c.Criterion) == "" {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("evaluation_criteria[%d].criterion", i),
				Message: "criterion is required",
			})
		}
	}

	return vs
}

// SummarizeViolations renders at most limit violations as a single line
// suitable for appending to a retry prompt.
func SummarizeViolations(vs []Violation, limit int) string {
	if len(vs) == 0 {
		return ""
	}
	n := len(vs)
	if limit > 0 && n > limit {
		n = limit
	}
	parts := make([]string, 0, n)
	for _, v := range vs[:n] {
		parts = append(parts, v.String())
	}
	s := strings.Join(parts, "; ")
	if n < len(vs) {
		s += fmt.Sprintf(" (and %d more)", len(vs)-n)
	}
	return s
}

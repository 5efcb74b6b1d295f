package extract

import (
	"fmt"
	"strings"

	"github.com/sells-group/rfp-extract/internal/model"
	"github.com/sells-group/rfp-extract/internal/normalize"
)

// docTypeTokens gates document_type updates: the chunk must literally
// contain one of the listed tokens for the claimed type. "Other" has no
// reliable tokens and is accepted only when the word itself appears.
var docTypeTokens = map[model.DocumentType][]string{
	model.DocTypeRFP:           {"rfp", "request for proposal"},
	model.DocTypeRFI:           {"rfi", "request for information"},
	model.DocTypeRFQ:           {"rfq", "request for quotation", "request for quote"},
	model.DocTypeSourcesSought: {"sources sought"},
	model.DocTypeOther:         {"other"},
}

// scalarField exposes one optional scalar for the generic replace policy,
// avoiding reflection over the state struct.
type scalarField struct {
	name string
	get  func(*model.ExtractionState) string
	set  func(*model.ExtractionState, string)
}

var scalarFields = []scalarField{
	{"document_title",
		func(s *model.ExtractionState) string { return s.DocumentTitle },
		func(s *model.ExtractionState, v string) { s.DocumentTitle = v }},
	{"issue_date",
		func(s *model.ExtractionState) string { return s.IssueDate },
		func(s *model.ExtractionState, v string) { s.IssueDate = v }},
	{"client_organization",
		func(s *model.ExtractionState) string { return s.ClientOrganization },
		func(s *model.ExtractionState, v string) { s.ClientOrganization = v }},
	{"client_industry",
		func(s *model.ExtractionState) string { return s.ClientIndustry },
		func(s *model.ExtractionState, v string) { s.ClientIndustry = v }},
	{"project_scope",
		func(s *model.ExtractionState) string { return s.ProjectScope },
		func(s *model.ExtractionState, v string) { s.ProjectScope = v }},
	{"contract_term",
		func(s *model.ExtractionState) string { return s.ContractTerm },
		func(s *model.ExtractionState, v string) { s.ContractTerm = v }},
	{"submission_method",
		func(s *model.ExtractionState) string { return s.SubmissionMethod },
		func(s *model.ExtractionState, v string) { s.SubmissionMethod = v }},
	{"pricing_structure",
		func(s *model.ExtractionState) string { return s.PricingStructure },
		func(s *model.ExtractionState, v string) { s.PricingStructure = v }},
}

// Merge combines the previous trusted state with a sanitized candidate,
// admitting only values literally evidenced in chunkText. Scalars follow
// contradiction-replace: a new evidenced value overwrites the old one.
// Lists follow union-on-evidence: evidenced items are appended, existing
// items are never removed. The returned audit log records every SET, ADD,
// KEEP, and SKIP decision.
//
// prev is not mutated; the result is a fresh state.
func Merge(prev, cand *model.ExtractionState, chunkText string) (*model.ExtractionState, []string) {
	var log []string
	merged := prev.Clone()

	// document_id: carried from prev, adopted from the candidate only when
	// prev has none. Never overwritten afterwards.
	if merged.DocumentID == "" && cand.DocumentID != "" {
		merged.DocumentID = cand.DocumentID
	}

	mergeDocType(merged, cand, chunkText, &log)
	mergeScalars(merged, cand, chunkText, &log)
	mergeDeadlines(merged, cand, chunkText, &log)
	mergeContacts(merged, cand, chunkText, &log)
	mergeCriteria(merged, cand, chunkText, &log)
	mergeRequirements(merged, cand, chunkText, &log)
	mergeTokens("keyword", &merged.Keywords, cand.Keywords, chunkText, &log)
	mergeTokens("compliance_standard", &merged.ComplianceStandards, cand.ComplianceStandards, chunkText, &log)

	return merged, log
}

func mergeDocType(merged, cand *model.ExtractionState, text string, log *[]string) {
	dtNew := cand.DocumentType
	if dtNew == "" || dtNew == merged.DocumentType {
		return
	}
	for _, tok := range docTypeTokens[dtNew] {
		if normalize.ContainsLiteral(text, tok) {
			*log = append(*log, fmt.Sprintf("SET document_type from chunk: %q", dtNew))
			merged.DocumentType = dtNew
			return
		}
	}
	*log = append(*log, fmt.Sprintf("KEEP previous document_type (new not evidenced): %q", merged.DocumentType))
}

func mergeScalars(merged, cand *model.ExtractionState, text string, log *[]string) {
	for _, f := range scalarFields {
		newVal := f.get(cand)
		if newVal == "" || newVal == f.get(merged) {
			continue
		}

		var ok bool
		if f.name == "issue_date" {
			ok = normalize.DatePresentInText(newVal, text)
		} else {
			ok = normalize.ContainsLiteral(text, newVal)
		}

		if ok {
			f.set(merged, newVal)
			*log = append(*log, fmt.Sprintf("SET %s from chunk: %q", f.name, newVal))
		} else {
			*log = append(*log, fmt.Sprintf("KEEP previous %s (new not evidenced): %q", f.name, f.get(merged)))
		}
	}
}

func deadlineKey(d model.Deadline) string {
	return d.Date + "\x00" + d.Kind
}

func mergeDeadlines(merged, cand *model.ExtractionState, text string, log *[]string) {
	seen := make(map[string]bool, len(merged.Deadlines))
	for _, d := range merged.Deadlines {
		seen[deadlineKey(d)] = true
	}

	for _, d := range cand.Deadlines {
		if !normalize.DatePresentInText(d.Date, text) {
			*log = append(*log, fmt.Sprintf("SKIP deadline (not evidenced): %+v", d))
			continue
		}
		key := deadlineKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged.Deadlines = append(merged.Deadlines, d)
		*log = append(*log, fmt.Sprintf("ADD deadline from chunk: (%s, %s)", d.Date, d.Kind))
	}
}

func mergeContacts(merged, cand *model.ExtractionState, text string, log *[]string) {
	emails := make(map[string]bool)
	for _, e := range normalize.EmailsInText(text) {
		emails[e] = true
	}
	phones := make(map[string]bool)
	for _, p := range normalize.PhonesInText(text) {
		phones[p] = true
	}

	// Existing contacts keep their slots; candidates either upgrade a slot
	// in place or append.
	index := make(map[string]int, len(merged.Contacts))
	for i, c := range merged.Contacts {
		index[contactKey(c)] = i
	}

	for _, c := range cand.Contacts {
		email := normalize.Email(c.Email)
		phone := normalize.Digits(c.Phone)

		hasEmail := email != "" && emails[email]
		hasPhone := len(phone) >= 7 && phones[phone]
		if !hasEmail && !hasPhone {
			*log = append(*log, fmt.Sprintf("SKIP contact (no literal email/phone in chunk): %+v", c))
			continue
		}

		key := "np:" + strings.ToLower(strings.TrimSpace(c.Name)) + "|" + phone
		if email != "" {
			key = "e:" + email
		}

		var base model.Contact
		i, exists := index[key]
		if exists {
			base = merged.Contacts[i]
		}

		// Name and title upgrade only on their own literal evidence; the
		// email/phone gate does not vouch for them.
		if name := strings.TrimSpace(c.Name); name != "" && normalize.ContainsLiteral(text, name) {
			base.Name = name
		}
		if title := strings.TrimSpace(c.Title); title != "" && normalize.ContainsLiteral(text, title) {
			base.Title = title
		}
		// Email and phone were verified against the chunk above.
		if email != "" {
			base.Email = email
		}
		if phone != "" {
			base.Phone = phone
		}

		if exists {
			merged.Contacts[i] = base
		} else {
			index[key] = len(merged.Contacts)
			merged.Contacts = append(merged.Contacts, base)
		}
		*log = append(*log, fmt.Sprintf("MERGE/ADD contact from chunk: %s", key))
	}
}

func mergeCriteria(merged, cand *model.ExtractionState, text string, log *[]string) {
	seen := make(map[string]bool, len(merged.EvaluationCriteria))
	for _, c := range merged.EvaluationCriteria {
		seen[normalize.Fold(c.Criterion)] = true
	}

	for _, c := range cand.EvaluationCriteria {
		if !normalize.ContainsLiteral(text, c.Criterion) {
			*log = append(*log, fmt.Sprintf("SKIP evaluation_criterion (not evidenced): %q", c.Criterion))
			continue
		}
		key := normalize.Fold(c.Criterion)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged.EvaluationCriteria = append(merged.EvaluationCriteria, c)
		*log = append(*log, fmt.Sprintf("ADD evaluation_criterion from chunk: %q", c.Criterion))
	}
}

func mergeRequirements(merged, cand *model.ExtractionState, text string, log *[]string) {
	seen := make(map[string]bool, len(merged.Requirements))
	for _, r := range merged.Requirements {
		seen[normalize.Fold(r)] = true
	}

	for _, r := range cand.Requirements {
		if !normalize.ContainsLiteral(text, r) {
			*log = append(*log, fmt.Sprintf("SKIP requirement (not evidenced): %q", r))
			continue
		}
		key := normalize.Fold(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged.Requirements = append(merged.Requirements, r)
		*log = append(*log, fmt.Sprintf("ADD requirement from chunk: %q", r))
	}
}

// mergeTokens unions a token list (keywords, compliance standards) by
// folded dedup key, preserving first-seen order and the candidate's own
// casing.
func mergeTokens(name string, dst *[]string, cand []string, text string, log *[]string) {
	seen := make(map[string]bool, len(*dst))
	for _, t := range *dst {
		seen[normalize.Fold(t)] = true
	}

	for _, t := range cand {
		if !normalize.ContainsLiteral(text, t) {
			*log = append(*log, fmt.Sprintf("SKIP %s (not evidenced): %q", name, t))
			continue
		}
		key := normalize.Fold(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		*dst = append(*dst, t)
		*log = append(*log, fmt.Sprintf("ADD %s from chunk: %q", name, t))
	}
}

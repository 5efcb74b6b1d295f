package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/rfp-extract/internal/model"
	"github.com/sells-group/rfp-extract/internal/normalize"
)

// Sanitize converts a raw oracle payload into a fully schema-shaped
// candidate state. Every field is decoded by an explicit switch over the
// shapes the oracle is known to emit (object, bare string, null, list);
// absent or null list fields become empty lists, never nil.
//
// The candidate's lists are deduplicated but its values are NOT yet
// trusted: the merge engine applies the evidence gates afterwards.
func Sanitize(raw map[string]any) *model.ExtractionState {
	s := &model.ExtractionState{
		DocumentType:        model.DocumentType(scalarValue(raw["document_type"])),
		DocumentTitle:       scalarValue(raw["document_title"]),
		DocumentID:          scalarValue(raw["document_id"]),
		IssueDate:           scalarValue(raw["issue_date"]),
		ClientOrganization:  scalarValue(raw["client_organization"]),
		ClientIndustry:      scalarValue(raw["client_industry"]),
		ProjectScope:        scalarValue(raw["project_scope"]),
		ContractTerm:        scalarValue(raw["contract_term"]),
		SubmissionMethod:    scalarValue(raw["submission_method"]),
		PricingStructure:    scalarValue(raw["pricing_structure"]),
		Deadlines:           deadlineList(raw["deadlines"]),
		Contacts:            contactList(raw["contacts"]),
		EvaluationCriteria:  criterionList(raw["evaluation_criteria"]),
		Requirements:        stringList(raw["requirements"]),
		Keywords:            stringList(raw["keywords"]),
		ComplianceStandards: stringList(raw["compliance_standards"]),
	}
	return s
}

// scalarValue decodes an optional scalar: strings are trimmed, missing
// tokens and every non-string shape collapse to unset.
func scalarValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if normalize.IsMissing(t) {
			return ""
		}
		return strings.TrimSpace(t)
	default:
		return ""
	}
}

// stringList coerces a string-list field: nulls become empty lists, bare
// strings become single-item lists, non-string items are stringified, and
// blank items are dropped.
func stringList(v any) []string {
	out := []string{}
	appendItem := func(item any) {
		s := strings.TrimSpace(stringify(item))
		if s != "" {
			out = append(out, s)
		}
	}

	switch t := v.(type) {
	case nil:
	case []any:
		for _, item := range t {
			appendItem(item)
		}
	case string:
		appendItem(t)
	}
	return out
}

// stringify renders a JSON value the way the oracle meant it as text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a dot.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// deadlineList coerces the deadlines field. Accepted item shapes: an
// object with a string date (kind carried through when present), or a
// bare date string.
func deadlineList(v any) []model.Deadline {
	out := []model.Deadline{}
	appendItem := func(item any) {
		switch t := item.(type) {
		case map[string]any:
			date, ok := t["date"].(string)
			if !ok {
				return
			}
			date = strings.TrimSpace(date)
			if date == "" {
				return
			}
			kind, _ := t["kind"].(string)
			out = append(out, model.Deadline{Date: date, Kind: strings.TrimSpace(kind)})
		case string:
			if d := strings.TrimSpace(t); d != "" {
				out = append(out, model.Deadline{Date: d})
			}
		}
	}

	switch t := v.(type) {
	case nil:
	case []any:
		for _, item := range t {
			appendItem(item)
		}
	default:
		appendItem(t)
	}
	return out
}

// criterionList coerces evaluation criteria: {criterion} objects or bare
// strings.
func criterionList(v any) []model.EvalCriterion {
	out := []model.EvalCriterion{}
	appendItem := func(item any) {
		switch t := item.(type) {
		case map[string]any:
			c := strings.TrimSpace(stringify(t["criterion"]))
			if c != "" {
				out = append(out, model.EvalCriterion{Criterion: c})
			}
		case string:
			if c := strings.TrimSpace(t); c != "" {
				out = append(out, model.EvalCriterion{Criterion: c})
			}
		}
	}

	switch t := v.(type) {
	case nil:
	case []any:
		for _, item := range t {
			appendItem(item)
		}
	default:
		appendItem(t)
	}
	return out
}

// contactList runs the contact normalization pipeline over each raw item
// and deduplicates the result. Items may be objects, embedded-JSON
// strings, "Name <email>" strings, plain emails, or plain names.
func contactList(v any) []model.Contact {
	var items []any
	switch t := v.(type) {
	case nil:
	case []any:
		items = t
	default:
		items = []any{t}
	}

	cleaned := make([]model.Contact, 0, len(items))
	for _, item := range items {
		if c, ok := coerceContact(item); ok {
			cleaned = append(cleaned, c)
		}
	}
	return dedupeContacts(cleaned)
}

func coerceContact(v any) (model.Contact, bool) {
	switch t := v.(type) {
	case map[string]any:
		return contactFrom(
			stringify(t["name"]),
			stringify(t["title"]),
			stringify(t["email"]),
			stringify(t["phone"]),
		)
	case string:
		if strings.TrimSpace(t) == "" {
			return model.Contact{}, false
		}
		return parseStringContact(t)
	default:
		return model.Contact{}, false
	}
}

// parseStringContact handles a contact the oracle emitted as a string:
// embedded JSON first, then "Name <email>", plain email, or plain name.
func parseStringContact(s string) (model.Contact, bool) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		var embedded any
		if err := json.Unmarshal([]byte(s), &embedded); err == nil {
			if list := contactList(embedded); len(list) > 0 {
				return list[0], true
			}
			return model.Contact{}, false
		}
	}

	email := normalize.Email(s)
	name := ""
	if email == "" {
		name = s
	} else if i := strings.Index(s, "<"); i > 0 {
		// display-name portion of "Name <email>"
		name = strings.Trim(s[:i], " \"'")
	}
	if name == "" && email != "" {
		name = normalize.NameFromEmail(email)
	}
	return contactFrom(name, "", email, "")
}

// contactFrom applies the normalization pipeline to one contact's fields.
func contactFrom(name, title, email, phone string) (model.Contact, bool) {
	if normalize.IsMissing(name) {
		name = ""
	} else {
		name = normalize.Clean(name)
	}
	if normalize.IsMissing(title) {
		title = ""
	} else {
		title = normalize.Clean(title)
	}
	email = normalize.Email(email)
	phone = normalize.Phone(phone)

	// The name field sometimes carries a full "Name <email>" form.
	if email == "" && name != "" {
		if e := normalize.Email(name); e != "" {
			email = e
			if i := strings.Index(name, "<"); i > 0 {
				name = normalize.Clean(strings.Trim(name[:i], " \"'"))
			} else if normalize.Fold(name) == e {
				name = ""
			}
		}
	}

	if name == "" && email != "" {
		name = normalize.NameFromEmail(email)
	}

	if name == "" && email == "" && phone == "" {
		return model.Contact{}, false
	}
	return model.Contact{Name: name, Title: title, Email: email, Phone: phone}, true
}

// contactKey is the dedup and merge identity of a contact: email when
// present, else name plus phone digits, else name alone.
func contactKey(c model.Contact) string {
	if c.Email != "" {
		return "e:" + strings.ToLower(c.Email)
	}
	digits := normalize.Digits(c.Phone)
	if c.Name != "" && digits != "" {
		return "np:" + strings.ToLower(c.Name) + "|" + digits
	}
	return "n:" + strings.ToLower(c.Name)
}

// dedupeContacts keeps the first occurrence per key, preserving order.
func dedupeContacts(contacts []model.Contact) []model.Contact {
	seen := make(map[string]bool, len(contacts))
	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		k := contactKey(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

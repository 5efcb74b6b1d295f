package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/rfp-extract/internal/model"
)

const systemTemplate = `ROLE
You are an expert RFP extraction & MERGE agent.

INPUT
You will receive two blocks:
<PREVIOUS_STATE>{a single JSON object already conforming to the schema}</PREVIOUS_STATE>
<NEW_CHUNK>{plain text from the next part of THE SAME document}</NEW_CHUNK>

GOAL
Return MERGED_STATE = PREVIOUS_STATE updated ONLY with facts that are explicitly present in NEW_CHUNK.

STRICT RULES (NO EXCEPTIONS)
1) Evidence-only: Use ONLY information that appears in NEW_CHUNK. No outside knowledge. No inference.
2) Preserve when absent: If NEW_CHUNK does not contain evidence for a field, KEEP the PREVIOUS_STATE value unchanged.
3) Scalars (strings/dates): Update ONLY if NEW_CHUNK clearly states the value. Otherwise leave as-is.
4) Arrays: Output the union of PREVIOUS_STATE and NEW_CHUNK items with de-duplication:
- deadlines: unique by (date, kind?) when present; if kind is absent, unique by date.
- contacts: unique by email (lowercased). If no email, unique by (normalized name, normalized phone).
- evaluation_criteria, requirements: dedupe by normalized text (trim, collapse internal whitespace).
- keywords: tokens lowercased; de-duplicate setwise.
- compliance_standards: tokens UPPERCASED; de-duplicate setwise.
5) Normalization ON UPDATE (do not transform existing PREVIOUS_STATE values unless you are updating them with NEW_CHUNK evidence):
- Dates: use YYYY-MM-DD when a full date is present in NEW_CHUNK; if only a month/year or ambiguous date is present, DO NOT update.
- submission_method, pricing_structure: lowercase strings.
- emails: lowercase.
- phones: strip surrounding spaces; do NOT reformat numerically unless NEW_CHUNK shows an explicit format.
- text fields (requirements, criteria): copy EXACTLY as in NEW_CHUNK (except trimming leading/trailing whitespace).
6) Contradictions: If NEW_CHUNK provides a value that conflicts with PREVIOUS_STATE, REPLACE the PREVIOUS_STATE value with the NEW_CHUNK value.
7) No invention: NEVER rephrase, summarize, expand, or guess. If NEW_CHUNK is silent, return PREVIOUS_STATE unchanged.
8) Schema-only: Include ONLY fields present in the schema. No comments. No extra keys. No document_id (that is system-generated).
9) Output format: Return ONLY the final JSON object - no prose, no code fences, no prefixes/suffixes.

SCHEMA (you MUST validate against this exactly)
<SCHEMA>
%s
</SCHEMA>

PROCESS (internal; do NOT output these steps)
- Parse PREVIOUS_STATE (JSON) and read NEW_CHUNK (text).
- Extract ONLY the fields that are explicitly present in NEW_CHUNK.
- DO NOT add any contacts unless NEW_CHUNK shows an email or phone verbatim.
- Apply the merge & normalization rules above.
- Produce the MERGED_STATE JSON.

OUTPUT
Return ONLY the MERGED_STATE as a single JSON object that conforms EXACTLY to the SCHEMA above.`

const userTemplate = `MERGE TASK (JSON ONLY)

<PREVIOUS_STATE>
%s
</PREVIOUS_STATE>

%s<NEW_CHUNK>
%s
</NEW_CHUNK>

RULE REMINDERS
- Evidence-only: Use ONLY facts explicitly present in NEW_CHUNK.
- Preserve when absent: If NEW_CHUNK lacks evidence for a field, KEEP the PREVIOUS_STATE value.
- Scalars: Update ONLY with explicit values from NEW_CHUNK; if conflicting, REPLACE with NEW_CHUNK.
- Arrays: Union with de-duplication per the system prompt rules.
- Normalize ON UPDATE only (dates YYYY-MM-DD when fully specified; emails lowercase; submission_method/pricing_structure lowercase).
- Schema-only: Include ONLY schema fields; do NOT add document_id; no extra keys, comments, or prose.

OUTPUT
Return ONLY the MERGED_STATE as a single valid JSON object that conforms EXACTLY to the SCHEMA above.`

const errorTemplate = `

--- PREVIOUS_ATTEMPT_ERROR ---
%s
Fix the issue and return a single JSON object that matches the schema (no extra keys, no comments).`

// Prompts holds the prompt templates with the schema baked in. Built once
// at startup and passed explicitly to the retry controller; there is no
// process-wide template state.
type Prompts struct {
	system string
}

// NewPrompts builds the prompt set around the canonical output schema.
func NewPrompts() *Prompts {
	return &Prompts{
		system: fmt.Sprintf(systemTemplate, model.SchemaJSON),
	}
}

// System returns the system prompt. When lastErr is non-empty an addendum
// describing the previous attempt's failure is appended so the oracle can
// correct itself on retry.
func (p *Prompts) System(lastErr string) string {
	if lastErr == "" {
		return p.system
	}
	return p.system + fmt.Sprintf(errorTemplate, lastErr)
}

// User renders the per-chunk user prompt: the current trusted state, a
// hint listing still-unresolved fields, and the chunk text.
func (p *Prompts) User(prev *model.ExtractionState, chunkText string) string {
	prevJSON, err := json.Marshal(prev.PromptPayload())
	if err != nil {
		prevJSON = []byte("{}")
	}

	hint := ""
	if unresolved := prev.UnresolvedFields(); len(unresolved) > 0 {
		hint = "UNRESOLVED_FIELDS (Focus on unresolved or empty fields first (if present), but DO NOT change any field unless NEW_CHUNK explicitly supports the change.): " +
			strings.Join(unresolved, ", ") + "\n\n"
	}

	return fmt.Sprintf(userTemplate, prevJSON, hint, chunkText)
}

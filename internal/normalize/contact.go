package normalize

import (
	"net/mail"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailRE = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRE = regexp.MustCompile(`(?:\+?\d[\d\-\s().]{6,}\d)`)

	emailExactRE = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	nameSepRE    = regexp.MustCompile(`[._\-]+`)
	digitsRE     = regexp.MustCompile(`\d`)

	titleCaser = cases.Title(language.English)
)

// Email extracts and lowercases an email address from s. Addresses wrapped
// in display-name form ("Jane Smith <jane@acme.gov>") or surrounding prose
// are unwrapped; anything that is not a plausible address returns "".
func Email(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(s); err == nil {
		s = addr.Address
	} else if m := emailRE.FindString(s); m != "" {
		s = m
	}
	s = strings.ToLower(strings.Trim(s, "<>,; "))
	if !emailExactRE.MatchString(s) {
		return ""
	}
	return s
}

// Phone normalizes a phone value to its digits, preserving a leading plus.
// A doubled international prefix ("+00...") collapses to a bare plus.
// Fewer than seven digits is not a phone number.
func Phone(s string) string {
	d := Digits(s)
	if len(d) < 7 {
		return ""
	}
	if strings.HasPrefix(Clean(s), "+") {
		d = "+" + strings.TrimPrefix(d, "00")
	}
	return d
}

// Digits strips everything but the digits from s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NameFromEmail derives a human-readable name from an address local part:
// "jane.smith42@acme.gov" becomes "Jane Smith". Returns "" when nothing
// name-like remains.
func NameFromEmail(email string) string {
	email = Email(email)
	if email == "" {
		return ""
	}
	local := email[:strings.Index(email, "@")]
	local = nameSepRE.ReplaceAllString(local, " ")
	local = digitsRE.ReplaceAllString(local, "")
	local = Clean(local)
	if local == "" {
		return ""
	}
	return titleCaser.String(local)
}

// EmailsInText returns every email address in text, lowercased.
func EmailsInText(text string) []string {
	var out []string
	for _, m := range emailRE.FindAllString(text, -1) {
		out = append(out, strings.ToLower(m))
	}
	return out
}

// PhonesInText returns the digit strings of every phone-shaped run in text.
func PhonesInText(text string) []string {
	var out []string
	for _, m := range phoneRE.FindAllString(text, -1) {
		if d := Digits(m); len(d) >= 7 {
			out = append(out, d)
		}
	}
	return out
}

package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames matches full and abbreviated English month names.
const monthNames = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// dateRE recognizes the date literal shapes the gate accepts: ISO dates,
// numeric dates with slash, dash, or dot separators, month-name dates in
// either order, and bare month plus year.
var dateRE = regexp.MustCompile(`(?i)` +
	`(?:\b\d{4}-\d{2}-\d{2}\b)` +
	`|(?:\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b)` +
	`|(?:\b` + monthNames + `\.?\s+\d{1,2}(?:st|nd|rd|th)?\s*,?\s*\d{4}\b)` +
	`|(?:\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthNames + `\.?\s*,?\s*\d{4}\b)` +
	`|(?:\b` + monthNames + `\.?\s+\d{4}\b)`)

var (
	numericDateRE = regexp.MustCompile(`^(\d{1,4})[/\-.](\d{1,2})[/\-.](\d{2,4})$`)
	ordinalRE     = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)
	tokenRE       = regexp.MustCompile(`[a-z]+|\d+`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ContainsDate reports whether text contains at least one date literal.
func ContainsDate(text string) bool {
	return dateRE.MatchString(text)
}

// DatesInText returns every date literal found in text, in order.
func DatesInText(text string) []string {
	return dateRE.FindAllString(text, -1)
}

// ParseDayFirst parses a date literal to a calendar day. Numeric forms with
// ambiguous ordering are read day-first; when the first component cannot be
// a day the two are swapped. Month-name forms are parsed by token. Bare
// month plus year resolves to the first of the month. The second return is
// false when s does not parse.
func ParseDayFirst(s string) (time.Time, bool) {
	s = Clean(s)
	if s == "" {
		return time.Time{}, false
	}

	// ISO first, unambiguous.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	if m := numericDateRE.FindStringSubmatch(s); m != nil {
		return parseNumeric(m[1], m[2], m[3])
	}

	if t, ok := parseMonthName(s); ok {
		return t, ok
	}

	// As a last resort pull the first recognizable literal out of s and
	// parse that, so "due 15 March 2026 at noon" still resolves.
	if lit := dateRE.FindString(s); lit != "" && Clean(lit) != s {
		return ParseDayFirst(lit)
	}
	return time.Time{}, false
}

func parseNumeric(a, b, c string) (time.Time, bool) {
	x, _ := strconv.Atoi(a)
	y, _ := strconv.Atoi(b)
	z, _ := strconv.Atoi(c)

	// YYYY/MM/DD when the first component is a year.
	if len(a) == 4 {
		return makeDate(x, time.Month(y), z)
	}

	year := z
	if len(c) == 2 {
		if z < 69 {
			year = 2000 + z
		} else {
			year = 1900 + z
		}
	}

	// Day-first bias; swap only when the month slot cannot hold a month.
	day, month := x, y
	if month > 12 {
		if day > 12 {
			return time.Time{}, false
		}
		day, month = month, day
	}
	return makeDate(year, time.Month(month), day)
}

func parseMonthName(s string) (time.Time, bool) {
	s = ordinalRE.ReplaceAllString(s, "$1")
	s = strings.NewReplacer(",", " ", ".", " ").Replace(strings.ToLower(s))

	var (
		month     time.Month
		day, year int
		haveMonth bool
		haveDay   bool
		haveYear  bool
	)
	for _, tok := range tokenRE.FindAllString(s, -1) {
		if tok == "of" || tok == "the" {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil {
			switch {
			case len(tok) == 4:
				year, haveYear = n, true
			case !haveDay && n >= 1 && n <= 31:
				day, haveDay = n, true
			}
			continue
		}
		if len(tok) >= 3 {
			if m, ok := monthIndex[tok[:3]]; ok && !haveMonth {
				month, haveMonth = m, true
			}
		}
	}
	if !haveMonth || !haveYear {
		return time.Time{}, false
	}
	if !haveDay {
		day = 1
	}
	return makeDate(year, month, day)
}

// makeDate builds a date and rejects values time.Date would silently
// normalize, such as February 30th.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DatePresentInText reports whether dateStr names the same calendar day as
// any date literal in text. Values that do not parse never match, so a
// hallucinated or garbled date cannot clear the gate.
func DatePresentInText(dateStr, text string) bool {
	want, ok := ParseDayFirst(dateStr)
	if !ok {
		return false
	}
	for _, lit := range DatesInText(text) {
		if got, ok := ParseDayFirst(lit); ok && got.Equal(want) {
			return true
		}
	}
	return false
}

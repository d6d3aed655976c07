package availability

import (
	"regexp"
	"strings"
	"time"
)

// datePatterns locate the date-bearing substring of a card's text, most
// specific first. A structural match whose captured date fails to parse
// falls through to the next pattern.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Prochain(?:\s+RDV|\s+rendez-vous)?\s*(?:le)?\s*([0-9]{1,2}\s+\p{L}+\s+[0-9]{4})`),
	regexp.MustCompile(`(?i)Prochain(?:\s+RDV|\s+rendez-vous)?\s*(?:le)?\s*([0-9]{1,2}\s+\p{L}+)`),
	regexp.MustCompile(`(?i)Disponibilit[ée]s?\s*(?:le)?\s*([0-9]{1,2}\s+\p{L}+(?:\s+[0-9]{4})?)`),
}

// monthsFR maps folded French month names to the English names understood
// by time.Parse. Tokens not present in the table pass through unchanged.
var monthsFR = map[string]string{
	"janvier":   "January",
	"fevrier":   "February",
	"mars":      "March",
	"avril":     "April",
	"mai":       "May",
	"juin":      "June",
	"juillet":   "July",
	"aout":      "August",
	"septembre": "September",
	"octobre":   "October",
	"novembre":  "November",
	"decembre":  "December",
}

var (
	todayRe    = regexp.MustCompile(`\baujourd'hui\b`)
	tomorrowRe = regexp.MustCompile(`\bdemain\b`)
)

// ParseDateText resolves a free-text French fragment into an absolute
// timestamp in loc. The boolean is false when no date is recognized;
// malformed text is indistinguishable from "no date found".
func ParseDateText(text string, ref time.Time, loc *time.Location) (time.Time, bool) {
	for _, pat := range datePatterns {
		m := pat.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := translateMonths(strings.TrimSpace(m[1]))
		if t, ok := parseDay(raw, ref, loc); ok {
			return t, true
		}
	}

	folded := Fold(text)
	if todayRe.MatchString(folded) {
		return ref.In(loc), true
	}
	if tomorrowRe.MatchString(folded) {
		return ref.In(loc).Add(24 * time.Hour), true
	}
	return time.Time{}, false
}

// translateMonths rewrites French month tokens to their English equivalents,
// matching case- and accent-insensitively.
func translateMonths(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if en, ok := monthsFR[Fold(f)]; ok {
			fields[i] = en
		}
	}
	return strings.Join(fields, " ")
}

// parseDay parses "<day> <Month> [<year>]" in loc. When the year is absent
// it is inferred forward-looking: the reference year, or the following year
// when the month/day would already lie before the reference day.
func parseDay(raw string, ref time.Time, loc *time.Location) (time.Time, bool) {
	if t, err := time.ParseInLocation("2 January 2006", raw, loc); err == nil {
		return t, true
	}

	t, err := time.ParseInLocation("2 January", raw, loc)
	if err != nil {
		return time.Time{}, false
	}

	ref = ref.In(loc)
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	cand := time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	if cand.Before(today) {
		cand = time.Date(ref.Year()+1, t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	return cand, true
}

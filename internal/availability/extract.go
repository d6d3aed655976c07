package availability

import (
	"net/url"
	"strings"
	"time"
)

// SkipReason classifies why a raw card produced no record.
type SkipReason string

const (
	SkipEmptyFields SkipReason = "empty_fields"
	SkipBadURL      SkipReason = "bad_url"
	SkipNoDate      SkipReason = "no_date"
	SkipOutOfWindow SkipReason = "out_of_window"
	SkipDuplicate   SkipReason = "duplicate"
)

// CardResult is the per-card outcome of an extraction pass: either a kept
// record or a skip reason. Cards never abort the batch.
type CardResult struct {
	Record *Record
	Skip   SkipReason
}

// Report aggregates per-card outcomes so the caller can log them.
type Report struct {
	Total   int
	Kept    int
	Skipped map[SkipReason]int
}

func (r Report) skip(reason SkipReason) Report {
	if r.Skipped == nil {
		r.Skipped = make(map[SkipReason]int)
	}
	r.Skipped[reason]++
	return r
}

// Extract turns raw cards from one source into availability records.
// Cards with missing fields or unrecognizable dates are dropped, timestamps
// must fall within [now, now+window] inclusive, and (name, url) pairs are
// deduplicated with the first occurrence winning. The result is sorted
// ascending by timestamp.
func Extract(cards []RawCard, now time.Time, window time.Duration, loc *time.Location) ([]Record, Report) {
	report := Report{Total: len(cards), Skipped: make(map[SkipReason]int)}
	records := make([]Record, 0, len(cards))

	type dedupKey struct{ name, url string }
	seen := make(map[dedupKey]struct{})

	for _, card := range cards {
		res := extractCard(card, now, window, loc)
		if res.Record == nil {
			report = report.skip(res.Skip)
			continue
		}
		key := dedupKey{res.Record.ProviderName, res.Record.URL}
		if _, dup := seen[key]; dup {
			report = report.skip(SkipDuplicate)
			continue
		}
		seen[key] = struct{}{}
		records = append(records, *res.Record)
		report.Kept++
	}

	SortRecords(records)
	return records, report
}

func extractCard(card RawCard, now time.Time, window time.Duration, loc *time.Location) CardResult {
	name := strings.TrimSpace(card.DisplayText)
	if name == "" || strings.TrimSpace(card.Href) == "" {
		return CardResult{Skip: SkipEmptyFields}
	}

	absURL, ok := resolveHref(card.BaseURL, card.Href)
	if !ok {
		return CardResult{Skip: SkipBadURL}
	}

	ts, ok := ParseDateText(card.ContainerText, now, loc)
	if !ok {
		return CardResult{Skip: SkipNoDate}
	}
	if ts.Before(now) || ts.After(now.Add(window)) {
		return CardResult{Skip: SkipOutOfWindow}
	}

	return CardResult{Record: &Record{
		Source:       card.SourceTag,
		ProviderName: name,
		URL:          absURL,
		Timestamp:    ts,
	}}
}

// resolveHref absolutizes href against the source's base origin. Absolute
// links are passed through untouched.
func resolveHref(base, href string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	if u.IsAbs() {
		return u.String(), true
	}
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" || b.Host == "" {
		return "", false
	}
	return b.ResolveReference(u).String(), true
}

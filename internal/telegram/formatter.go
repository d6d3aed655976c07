package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbriand/rdvwatch/internal/availability"
)

// Header names the monitored category and region in the message, e.g.
// "Dermatologues ... (Toulouse)".
type Header struct {
	Label      string
	City       string
	WindowDays int
}

// French abbreviated weekday names, indexed by time.Weekday.
var frWeekdays = [7]string{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."}

// ShouldNotify decides whether a message goes out: any change between the
// snapshots triggers one, and notifyWhenEmpty additionally forces a "still
// nothing" confirmation when both snapshots are empty.
func ShouldNotify(old, current availability.Snapshot, d availability.DiffResult, notifyWhenEmpty bool) bool {
	if !d.Empty() {
		return true
	}
	return notifyWhenEmpty && len(old) == 0 && len(current) == 0
}

// Format renders the current availability list as a Telegram message: a
// header line, then one bullet per record with the provider, an abbreviated
// French date, the time when one is known, and the booking URL. An empty
// list renders a fixed "no availability" sentence.
func Format(records []availability.Record, hdr Header, loc *time.Location) string {
	if len(records) == 0 {
		return fmt.Sprintf("Aucune disponibilité ≤ %d jours pour le moment.", hdr.WindowDays)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🩺 %s avec RDV ≤ %d jours (%s):", hdr.Label, hdr.WindowDays, hdr.City)
	for _, r := range records {
		d := r.Timestamp.In(loc)
		fmt.Fprintf(&b, "\n• %s — %s%s\n  %s", r.ProviderName, formatDay(d), formatHour(d), r.URL)
	}
	return b.String()
}

// formatDay renders "Mar. 03/03" style: capitalized French weekday
// abbreviation plus day/month.
func formatDay(d time.Time) string {
	wd := frWeekdays[d.Weekday()]
	wd = strings.ToUpper(wd[:1]) + wd[1:]
	return fmt.Sprintf("%s %02d/%02d", wd, d.Day(), int(d.Month()))
}

// formatHour renders " à 14h" or " à 14h30". Midnight means the source
// exposed no time component, so the suffix is omitted entirely.
func formatHour(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 {
		return ""
	}
	if d.Minute() == 0 {
		return fmt.Sprintf(" à %dh", d.Hour())
	}
	return fmt.Sprintf(" à %dh%02d", d.Hour(), d.Minute())
}

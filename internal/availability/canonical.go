package availability

import (
	"sort"
	"time"
)

// Key is the day-granularity comparison identity of a record. Equality must
// not depend on time-of-day, which listing pages expose inconsistently.
type Key struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Day  string `json:"day"` // ISO calendar date, YYYY-MM-DD
}

// Snapshot is an ordered set of keys, sorted by (day, name, url). It
// represents what was last known or notified.
type Snapshot []Key

// Canonicalize reduces records to their comparison keys, deduplicated and
// deterministically sorted. Pure function; permuted-but-equal inputs yield
// identical output.
func Canonicalize(records []Record, loc *time.Location) Snapshot {
	seen := make(map[Key]struct{}, len(records))
	snap := make(Snapshot, 0, len(records))
	for _, r := range records {
		k := Key{
			Name: r.ProviderName,
			URL:  r.URL,
			Day:  r.Timestamp.In(loc).Format("2006-01-02"),
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		snap = append(snap, k)
	}
	sortKeys(snap)
	return snap
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		return keyLess(keys[i], keys[j])
	})
}

func keyLess(a, b Key) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.URL < b.URL
}

package availability

import (
	"sort"
	"time"
)

// Record is one appointment opportunity found on a listing page.
type Record struct {
	Source       string    `json:"source"`
	ProviderName string    `json:"name"`
	URL          string    `json:"url"`
	Timestamp    time.Time `json:"timestamp"`
}

// RawCard is the unprocessed (name, link, surrounding text) triple supplied
// by a page-snapshot provider for one listing entry.
type RawCard struct {
	SourceTag     string
	DisplayText   string
	Href          string
	ContainerText string
	BaseURL       string // origin used to absolutize relative hrefs
}

// SortRecords orders records ascending by timestamp, breaking ties by
// provider name then URL so the combined multi-source view is deterministic.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		if records[i].ProviderName != records[j].ProviderName {
			return records[i].ProviderName < records[j].ProviderName
		}
		return records[i].URL < records[j].URL
	})
}

package availability

import (
	"reflect"
	"testing"
	"time"
)

func TestCanonicalize(t *testing.T) {
	loc := paris(t)

	records := []Record{
		{Source: "doctolib", ProviderName: "Dr. Martin", URL: "https://d.fr/y", Timestamp: time.Date(2025, 3, 4, 9, 30, 0, 0, loc)},
		{Source: "doctolib", ProviderName: "Dr. Dupont", URL: "https://d.fr/x", Timestamp: time.Date(2025, 3, 5, 0, 0, 0, 0, loc)},
		{Source: "doctolib", ProviderName: "Dr. Aubert", URL: "https://d.fr/a", Timestamp: time.Date(2025, 3, 4, 14, 0, 0, 0, loc)},
	}

	got := Canonicalize(records, loc)
	want := Snapshot{
		{Name: "Dr. Aubert", URL: "https://d.fr/a", Day: "2025-03-04"},
		{Name: "Dr. Martin", URL: "https://d.fr/y", Day: "2025-03-04"},
		{Name: "Dr. Dupont", URL: "https://d.fr/x", Day: "2025-03-05"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Canonicalize() = %v, want %v", got, want)
	}
}

func TestCanonicalize_PermutationStable(t *testing.T) {
	loc := paris(t)

	records := []Record{
		{ProviderName: "Dr. B", URL: "https://d.fr/b", Timestamp: time.Date(2025, 3, 4, 9, 0, 0, 0, loc)},
		{ProviderName: "Dr. A", URL: "https://d.fr/a", Timestamp: time.Date(2025, 3, 4, 10, 0, 0, 0, loc)},
		{ProviderName: "Dr. C", URL: "https://d.fr/c", Timestamp: time.Date(2025, 3, 3, 8, 0, 0, 0, loc)},
	}
	permuted := []Record{records[2], records[0], records[1]}

	if got, want := Canonicalize(records, loc), Canonicalize(permuted, loc); !reflect.DeepEqual(got, want) {
		t.Errorf("Canonicalize not permutation stable: %v vs %v", got, want)
	}
}

func TestCanonicalize_DedupSameDay(t *testing.T) {
	loc := paris(t)

	// Two slots for the same provider on the same day collapse to one key;
	// time-of-day must not leak into the comparison identity.
	records := []Record{
		{ProviderName: "Dr. Dupont", URL: "https://d.fr/x", Timestamp: time.Date(2025, 3, 5, 9, 0, 0, 0, loc)},
		{ProviderName: "Dr. Dupont", URL: "https://d.fr/x", Timestamp: time.Date(2025, 3, 5, 16, 30, 0, 0, loc)},
	}

	got := Canonicalize(records, loc)
	if len(got) != 1 {
		t.Fatalf("Canonicalize() len = %d, want 1", len(got))
	}
	if got[0].Day != "2025-03-05" {
		t.Errorf("Day = %q, want 2025-03-05", got[0].Day)
	}
}

func TestCanonicalize_DayInRegionalTimezone(t *testing.T) {
	loc := paris(t)

	// 23:30 UTC on March 4 is already March 5 in Paris.
	records := []Record{
		{ProviderName: "Dr. Dupont", URL: "https://d.fr/x", Timestamp: time.Date(2025, 3, 4, 23, 30, 0, 0, time.UTC)},
	}

	got := Canonicalize(records, loc)
	if got[0].Day != "2025-03-05" {
		t.Errorf("Day = %q, want 2025-03-05 (regional timezone)", got[0].Day)
	}
}

package availability

// DiffResult holds the keys that appeared in and disappeared from a
// snapshot since the previous run.
type DiffResult struct {
	Added   []Key
	Removed []Key
}

// Empty reports whether nothing changed between the two snapshots.
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff computes the set difference between two snapshots in both
// directions. Diff(s, s) is empty for any snapshot s.
func Diff(old, current Snapshot) DiffResult {
	oldSet := make(map[Key]struct{}, len(old))
	for _, k := range old {
		oldSet[k] = struct{}{}
	}
	newSet := make(map[Key]struct{}, len(current))
	for _, k := range current {
		newSet[k] = struct{}{}
	}

	var d DiffResult
	for _, k := range current {
		if _, ok := oldSet[k]; !ok {
			d.Added = append(d.Added, k)
		}
	}
	for _, k := range old {
		if _, ok := newSet[k]; !ok {
			d.Removed = append(d.Removed, k)
		}
	}
	sortKeys(d.Added)
	sortKeys(d.Removed)
	return d
}

// Package availability implements the extraction and change-detection
// pipeline for medical appointment listings.
//
// Raw cards harvested from a listing page are turned into timestamped
// availability records (French date fragments resolved via ParseDateText),
// filtered to a rolling window, deduplicated, and reduced to day-granularity
// canonical keys. Snapshots of those keys are compared across runs with Diff
// to decide whether anything changed since the last notification.
package availability

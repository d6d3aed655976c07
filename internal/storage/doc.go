// Package storage provides JSON-based persistence for the last-notified
// availability snapshot.
//
// A single state file holds the ordered list of canonical keys from the
// previous notified run. Reads never fail: a missing or corrupt file is an
// empty snapshot. Writes go through a temp file and an atomic rename.
package storage

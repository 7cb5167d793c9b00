// Package types provides type definitions for the records, snapshots and answers
// that flow through the market copilot.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RecordKind tags the variant of a NormalizedRecord.
type RecordKind string

// Record kinds
const (
	KindJobPosting RecordKind = "job_posting"
	KindEvent      RecordKind = "event"
)

// Record is a normalized record produced at the source boundary.
// JobPosting and Event are the only implementations.
type Record interface {
	Kind() RecordKind
	// Ref returns the identity used to reference the record: a URL or a source id.
	Ref() string
}

// AsRecords widens a typed slice so it can be written as a snapshot.
func AsRecords[T Record](items []T) []Record {
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

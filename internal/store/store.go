// Package store holds user records in memory for the lifetime of the process.
package store

import "github.com/google/uuid"

// Store maps identifiers to values. Implementations must be safe for concurrent use.
type Store[V any] interface {
	// Get returns the value stored under id.
	Get(id uuid.UUID) (V, bool)
	// PutIfAbsent stores v under id unless id is already present. It reports
	// whether the value was stored.
	PutIfAbsent(id uuid.UUID, v V) bool
	// Len returns the number of stored values.
	Len() int
}

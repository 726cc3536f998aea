package store

import (
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// DefaultShardCount is used when no shard count is configured
const DefaultShardCount = 32

type shard[V any] struct {
	mu    sync.RWMutex
	items map[uuid.UUID]V
}

// ShardedStore spreads keys over independently locked maps so that writers to
// different keys rarely wait on each other.
type ShardedStore[V any] struct {
	shards []*shard[V]
}

var _ Store[struct{}] = (*ShardedStore[struct{}])(nil)

// NewShardedStore creates an empty store with the given number of shards
func NewShardedStore[V any](shardCount int) (*ShardedStore[V], error) {
	if shardCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShardCount, shardCount)
	}

	s := &ShardedStore[V]{
		shards: make([]*shard[V], shardCount),
	}
	for i := range s.shards {
		s.shards[i] = &shard[V]{items: make(map[uuid.UUID]V)}
	}
	return s, nil
}

func (s *ShardedStore[V]) shardFor(id uuid.UUID) *shard[V] {
	h := fnv.New32a()
	h.Write(id[:])
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Get returns the value stored under id
func (s *ShardedStore[V]) Get(id uuid.UUID) (V, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	v, ok := sh.items[id]
	sh.mu.RUnlock()
	return v, ok
}

// PutIfAbsent stores v under id unless the key is already taken
func (s *ShardedStore[V]) PutIfAbsent(id uuid.UUID, v V) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.items[id]; exists {
		return false
	}
	sh.items[id] = v
	return true
}

// Len returns the number of stored values across all shards
func (s *ShardedStore[V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.items)
		sh.mu.RUnlock()
	}
	return n
}

// ShardCount returns the number of shards
func (s *ShardedStore[V]) ShardCount() int {
	return len(s.shards)
}

package store

import "errors"

var (
	ErrInvalidShardCount = errors.New("shard count must be at least 1")
)

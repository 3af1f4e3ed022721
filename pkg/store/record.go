package store

import (
	"context"
	"time"
)

// Record is the persisted unit mapping a session's pid to its serialized
// state and owner token
type Record struct {
	Pid       int
	Owner     string
	State     []byte
	CreatedAt time.Time
}

// PhysicalStore is the durable storage contract behind the session store.
// Implementations must serialize concurrent writers so no upsert is torn.
type PhysicalStore interface {
	// Upsert inserts or fully replaces the record for pid. CreatedAt is
	// reset to now on replace.
	Upsert(ctx context.Context, pid int, owner string, state []byte) error

	// GetByPid returns the record for pid, or ok=false when absent
	GetByPid(ctx context.Context, pid int) (Record, bool, error)

	// DeleteOlderThan removes every record created before now-age and
	// reports how many were removed
	DeleteOlderThan(ctx context.Context, age time.Duration) (int, error)

	// Count reports the number of stored records
	Count(ctx context.Context) (int, error)

	// Close releases the underlying storage
	Close() error
}

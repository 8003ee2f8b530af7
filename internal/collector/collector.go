package collector

import (
	"context"
	"sync/atomic"
	"time"
)

// Collector is a sensor that produces event records into the SPSC queue.
// Exactly one goroutine runs Start; it is the queue's single producer.
type Collector interface {
	Start(ctx context.Context, interval time.Duration) error
	Stop() error
}

// Stats counts records rejected at the producer boundary. Invalid records
// never reach the queue; full-queue drops are silent by policy, the
// counters exist for monitoring only.
type Stats struct {
	DroppedFull    atomic.Uint64
	DroppedInvalid atomic.Uint64
	Produced       atomic.Uint64
}

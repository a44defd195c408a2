package util

import (
	"context"
	"hash/fnv"
	"time"
)

// QueryDelay returns the politeness delay to apply after the (term, location)
// query. The jitter component is derived from the query itself, so intervals
// vary between queries without fixed patterns, yet a given query always waits
// the same amount, which keeps runs reproducible.
func QueryDelay(term, location string, base, jitter time.Duration) time.Duration {
	if jitter <= 0 {
		return base
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(term))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(location))
	return base + time.Duration(uint64(h.Sum32())%uint64(jitter))
}

// PoliteWait sleeps for d unless ctx ends first.
func PoliteWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

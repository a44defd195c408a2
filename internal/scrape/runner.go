package scrape

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/scrape/types"
	"jobscanner-engine/internal/store"

	"github.com/google/uuid"
)

// Runner is the ingestion driver. It owns the idle/running state token and
// enforces at most one in-flight run: Start is a compare-and-set transition
// and a second call while a run is active is rejected, not queued.
type Runner struct {
	store    *store.DB
	hub      *events.Hub
	fetchers []types.Fetcher
	timeout  time.Duration

	running atomic.Bool

	mu     sync.Mutex
	status types.RunStatus
	done   chan struct{}
}

func NewRunner(st *store.DB, hub *events.Hub, fetchers []types.Fetcher, perFetcherTimeout time.Duration) *Runner {
	return &Runner{
		store:    st,
		hub:      hub,
		fetchers: fetchers,
		timeout:  perFetcherTimeout,
		status:   types.RunStatus{State: types.StateIdle},
	}
}

// Start triggers one ingestion run in the background and returns immediately.
// The returned bool says whether the run was accepted; when false, the
// snapshot describes the run already in flight.
func (r *Runner) Start(terms, locations []string) (types.RunStatus, bool) {
	if !r.running.CompareAndSwap(false, true) {
		return r.Status(), false
	}

	runID := uuid.NewString()
	done := make(chan struct{})

	r.mu.Lock()
	r.status.State = types.StateRunning
	r.status.RunID = runID
	r.status.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	r.status.LastError = ""
	snapshot := r.status
	r.done = done
	r.mu.Unlock()

	r.publish("run_started", map[string]any{"run_id": runID})
	log.Printf("[run] started id=%s terms=%d locations=%d", runID, len(terms), len(locations))

	go func() {
		defer close(done)

		found, added, dups := r.runOnce(context.Background(), terms, locations)
		now := time.Now().UTC().Format(time.RFC3339)

		r.mu.Lock()
		r.status.State = types.StateIdle
		r.status.LastFound = found
		r.status.LastNew = added
		r.status.LastDuplicates = dups
		r.status.LastOkAt = now
		r.mu.Unlock()
		r.running.Store(false)

		r.publish("run_finished", map[string]any{
			"run_id": runID, "found": found, "new": added, "duplicates": dups,
		})
		log.Printf("[run] finished id=%s found=%d new=%d duplicates=%d", runID, found, added, dups)
	}()

	return snapshot, true
}

// Status returns a read-only snapshot of the driver's state token.
func (r *Runner) Status() types.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Done exposes the completion channel of the current (or most recent) run.
// Nil until the first Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// runOnce crawls every source and persists the survivors one listing at a
// time. Each insert is its own atomic unit: a persistence fault on one
// listing is logged and the loop moves on, so an interrupted run still leaves
// the store valid, just partially populated.
func (r *Runner) runOnce(ctx context.Context, terms, locations []string) (found, added, dups int) {
	listings := CrawlAll(ctx, r.fetchers, terms, locations, r.timeout)
	found = len(listings)

	for _, l := range listings {
		id, err := r.store.InsertJob(ctx, l)
		if err != nil {
			log.Printf("[run] insert error url=%q: %v", l.URL, err)
			continue
		}
		if id == 0 {
			dups++
			continue
		}
		added++
		r.publish("job_created", map[string]any{"id": id})
	}
	return found, added, dups
}

func (r *Runner) publish(typ string, data any) {
	if r.hub == nil {
		return
	}
	r.hub.Publish(events.MakeEvent("", typ, 1, data))
}

package types

import (
	"context"

	"jobscanner-engine/internal/domain"
)

// Fetcher is the contract every source adapter satisfies. Fetch walks the
// cross-product of search terms and locations and returns whatever listings
// survived extraction and validation; a partial (even empty) result with a
// nil error is the normal outcome when individual queries fail.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, terms, locations []string) ([]domain.Listing, error)
}

// RunState values for the ingestion driver's status token.
const (
	StateIdle    = "idle"
	StateRunning = "running"
)

// RunStatus is the driver's read-only status snapshot.
type RunStatus struct {
	State          string `json:"state"`
	RunID          string `json:"run_id,omitempty"`
	LastRunAt      string `json:"last_run_at,omitempty"`
	LastOkAt       string `json:"last_ok_at,omitempty"`
	LastError      string `json:"last_error,omitempty"`
	LastFound      int    `json:"last_found"`
	LastNew        int    `json:"last_new"`
	LastDuplicates int    `json:"last_duplicates"`
}

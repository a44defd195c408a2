package httpapi

import (
	"sync/atomic"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/scrape/types"
	"jobscanner-engine/internal/store"
)

// CrawlRunner is the slice of the ingestion driver the API needs. Injected so
// handler tests can run against a double.
type CrawlRunner interface {
	Start(terms, locations []string) (types.RunStatus, bool)
	Status() types.RunStatus
}

type Deps struct {
	Store *store.DB

	Hub *events.Hub

	Runner CrawlRunner

	// CfgVal stores config.Config; swapped atomically on reload.
	CfgVal *atomic.Value

	UserCfgPath string
	LoadCfg     func() (config.Config, error)
}

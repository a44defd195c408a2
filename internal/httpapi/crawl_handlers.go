package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobscanner-engine/internal/config"
)

type CrawlHandler struct {
	Runner CrawlRunner
	CfgVal *atomic.Value // config.Config
}

// Trigger starts one ingestion run with the active config's terms and
// locations. 202 when accepted; 409 with the in-flight status when a run is
// already going.
func (h CrawlHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)

	st, ok := h.Runner.Start(cfg.Crawl.SearchTerms, cfg.Crawl.Locations)
	if !ok {
		WriteJSON(w, http.StatusConflict, map[string]any{
			"ok": false, "msg": "crawl already running", "status": st,
		})
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "status": st})
}

func (h CrawlHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Runner.Status())
}

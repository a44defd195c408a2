package httpapi

import "net/http"

// NewMux wires every API route. main() wraps the result in the middleware
// chain before serving.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	// Jobs
	jh := JobsHandler{Store: d.Store, Hub: d.Hub}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   jh.GetByPath,    // /api/jobs/{id}
		http.MethodPatch: jh.UpdateByPath, // /api/jobs/{id}
	}))
	mux.HandleFunc("/api/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Stats,
	}))
	mux.HandleFunc("/api/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Search,
	}))
	mux.HandleFunc("/api/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Companies,
	}))

	// Crawl
	crh := CrawlHandler{Runner: d.Runner, CfgVal: d.CfgVal}
	mux.HandleFunc("/api/crawl", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: crh.Trigger,
	}))
	mux.HandleFunc("/api/crawl/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: crh.Status,
	}))

	// Config
	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath, LoadCfg: d.LoadCfg}
	mux.HandleFunc("/api/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
	}))
	mux.HandleFunc("/api/config/reload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Reload,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

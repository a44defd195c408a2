package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/httpapi"
	"jobscanner-engine/internal/scrape"
	"jobscanner-engine/internal/scrape/google"
	"jobscanner-engine/internal/scrape/linkedin"
	"jobscanner-engine/internal/scrape/types"
	"jobscanner-engine/internal/scrape/util"
	"jobscanner-engine/internal/store"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dataDir := os.Getenv("JOBSCANNER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir. The in-process runner already rejects
	// concurrent runs; the file lock extends that across processes.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock %s: %v", lock.Path(), err)
	}
	if !locked {
		log.Fatalf("another engine instance holds %s", lock.Path())
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	raw, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, res := config.NormalizeAndValidate(raw)
	for _, w := range res.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !res.OK() {
		for _, e := range res.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}

	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	dbPath := filepath.Join(dataDir, "jobscanner.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		log.Fatal(err)
	}

	hub := events.NewHub()
	fetchers := buildFetchers(cfg)
	if len(fetchers) == 0 {
		log.Fatal("no sources enabled")
	}

	runner := scrape.NewRunner(db, hub, fetchers,
		time.Duration(cfg.Crawl.FetchTimeoutSecs)*time.Second)

	maybeInitialCrawl(cfg, db, runner)

	mux := httpapi.NewMux(httpapi.Deps{
		Store:       db,
		Hub:         hub,
		Runner:      runner,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (db=%s)", addr, dbPath)

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

func buildFetchers(cfg config.Config) []types.Fetcher {
	var fetchers []types.Fetcher

	delayBase := time.Duration(cfg.Crawl.DelayBaseSecs) * time.Second
	delayJitter := time.Duration(cfg.Crawl.DelayJitterSecs) * time.Second

	if cfg.Sources.GoogleCareers.Enabled {
		fetchers = append(fetchers, google.New(google.Config{
			MaxScrolls:  cfg.Sources.GoogleCareers.MaxScrolls,
			DelayBase:   delayBase,
			DelayJitter: delayJitter,
		}))
	}
	if cfg.Sources.LinkedIn.Enabled {
		rps := cfg.Crawl.RequestsPerSecond
		if rps <= 0 {
			rps = 0.5
		}
		limiter := util.NewHostLimiter(rps, 1)
		fetchers = append(fetchers, linkedin.New(linkedin.Config{
			MaxPages:      cfg.Sources.LinkedIn.MaxPages,
			LocaleFilter:  cfg.Sources.LinkedIn.LocaleFilter,
			LocaleMarkers: cfg.Sources.LinkedIn.LocaleMarkers,
			DelayBase:     delayBase,
			DelayJitter:   delayJitter,
		}, limiter))
	}
	return fetchers
}

// maybeInitialCrawl kicks off one run at startup when the store is empty, so
// a fresh install has data before anyone presses a button.
func maybeInitialCrawl(cfg config.Config, db *store.DB, runner *scrape.Runner) {
	if !cfg.Crawl.InitialCrawl {
		return
	}
	stats, err := db.GetStats(context.Background())
	if err != nil {
		log.Printf("[engine] initial crawl skipped: %v", err)
		return
	}
	if stats.Total > 0 {
		return
	}
	if _, ok := runner.Start(cfg.Crawl.SearchTerms, cfg.Crawl.Locations); ok {
		log.Printf("[engine] store empty, initial crawl started")
	}
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/types"
	"jobscanner-engine/internal/store"

	"github.com/stretchr/testify/require"
)

// stubRunner flips between accepting and rejecting triggers.
type stubRunner struct {
	busy   bool
	status types.RunStatus
	calls  int
}

func (s *stubRunner) Start(_, _ []string) (types.RunStatus, bool) {
	s.calls++
	if s.busy {
		return s.status, false
	}
	s.status = types.RunStatus{State: types.StateRunning, RunID: "run-1"}
	return s.status, true
}

func (s *stubRunner) Status() types.RunStatus { return s.status }

func testDeps(t *testing.T) (Deps, *store.DB, *stubRunner) {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	cfg := config.Config{}
	cfg.Crawl.SearchTerms = []string{"sre"}
	cfg.Crawl.Locations = []string{"Israel"}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	runner := &stubRunner{}
	return Deps{
		Store:  db,
		Runner: runner,
		CfgVal: &cfgVal,
	}, db, runner
}

func seedJob(t *testing.T, db *store.DB, title, url string) int64 {
	t.Helper()
	id, err := db.InsertJob(context.Background(), domain.Listing{
		Title: title, Company: "Acme", Location: "Tel Aviv", URL: url,
	})
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func doReq(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	deps, _, _ := testDeps(t)
	rec := doReq(t, NewMux(deps), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestJobsListAndFilter(t *testing.T) {
	deps, db, _ := testDeps(t)
	mux := NewMux(deps)

	id1 := seedJob(t, db, "Backend Engineer", "https://acme.example/jobs/1")
	seedJob(t, db, "SRE", "https://acme.example/jobs/2")
	_, err := db.SetStatus(context.Background(), id1, store.StatusProcessed)
	require.NoError(t, err)

	rec := doReq(t, mux, http.MethodGet, "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []store.StoredJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 2)

	rec = doReq(t, mux, http.MethodGet, "/api/jobs?status=processed", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
	require.Equal(t, "Backend Engineer", jobs[0].Title)
}

func TestJobGetAndPatch(t *testing.T) {
	deps, db, _ := testDeps(t)
	mux := NewMux(deps)
	id := seedJob(t, db, "Backend Engineer", "https://acme.example/jobs/1")

	rec := doReq(t, mux, http.MethodGet, "/api/jobs/999999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doReq(t, mux, http.MethodPatch, "/api/jobs/"+itoa(id), `{"status":"processed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doReq(t, mux, http.MethodGet, "/api/jobs/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var job store.StoredJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	require.Equal(t, store.StatusProcessed, job.Status)

	rec = doReq(t, mux, http.MethodPatch, "/api/jobs/"+itoa(id), `{"status":"bogus"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRequiresQuery(t *testing.T) {
	deps, db, _ := testDeps(t)
	mux := NewMux(deps)
	seedJob(t, db, "Backend Engineer", "https://acme.example/jobs/1")

	rec := doReq(t, mux, http.MethodGet, "/api/search", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doReq(t, mux, http.MethodGet, "/api/search?q=backend", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []store.StoredJob
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	require.Len(t, jobs, 1)
}

func TestCrawlTriggerConflict(t *testing.T) {
	deps, _, runner := testDeps(t)
	mux := NewMux(deps)

	rec := doReq(t, mux, http.MethodPost, "/api/crawl", "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	runner.busy = true
	rec = doReq(t, mux, http.MethodPost, "/api/crawl", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "run-1")
	require.Equal(t, 2, runner.calls)
}

func TestCrawlStatus(t *testing.T) {
	deps, _, runner := testDeps(t)
	runner.status = types.RunStatus{State: types.StateIdle, LastNew: 3}
	rec := doReq(t, NewMux(deps), http.MethodGet, "/api/crawl/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"last_new":3`)
}

func TestMethodNotAllowed(t *testing.T) {
	deps, _, _ := testDeps(t)
	rec := doReq(t, NewMux(deps), http.MethodDelete, "/api/jobs", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/store"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

func listing(url, title, company string) domain.Listing {
	return domain.Listing{
		Title:      title,
		Company:    company,
		Location:   "Tel Aviv, Israel",
		URL:        url,
		PostedDate: "2026-08-30",
		Metadata:   map[string]any{"source": "test", "crawled_at": "2026-08-30T10:00:00Z"},
	}
}

func TestInsertJobIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	// same url again: no id, no error
	again, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	require.Zero(t, again)

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)
}

func TestInsertJobMissingURL(t *testing.T) {
	db := openTestDB(t)
	_, err := db.InsertJob(context.Background(), listing("  ", "VP Eng", "Acme"))
	require.Error(t, err)
}

func TestURLUniqueness(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := db.InsertJob(ctx, listing("http://x/same", "Staff Engineer", "Acme"))
		require.NoError(t, err)
	}

	jobs, err := db.ListJobs(ctx, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	ok, err := db.Exists(ctx, "http://x/same")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = db.Exists(ctx, "http://x/other")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListJobsStatusFilterNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id1, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	id2, err := db.InsertJob(ctx, listing("http://x/2", "Director Engineering", "Globex"))
	require.NoError(t, err)
	id3, err := db.InsertJob(ctx, listing("http://x/3", "Staff Engineer", "Initech"))
	require.NoError(t, err)

	changed, err := db.SetStatus(ctx, id2, store.StatusProcessed)
	require.NoError(t, err)
	require.True(t, changed)

	fresh, err := db.ListJobs(ctx, store.ListOpts{Status: store.StatusNew})
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	require.Equal(t, id3, fresh[0].ID) // newest id first
	require.Equal(t, id1, fresh[1].ID)
	for _, j := range fresh {
		require.Equal(t, store.StatusNew, j.Status)
	}

	limited, err := db.ListJobs(ctx, store.ListOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, id3, limited[0].ID)
}

func TestListJobsCompanyFilterAndOffset(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	id2, err := db.InsertJob(ctx, listing("http://x/2", "CTO", "Acme"))
	require.NoError(t, err)
	_, err = db.InsertJob(ctx, listing("http://x/3", "Staff Engineer", "Globex"))
	require.NoError(t, err)

	acme, err := db.ListJobs(ctx, store.ListOpts{Company: "Acme"})
	require.NoError(t, err)
	require.Len(t, acme, 2)
	for _, j := range acme {
		require.Equal(t, "Acme", j.Company)
	}

	page, err := db.ListJobs(ctx, store.ListOpts{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, id2, page[0].ID) // newest row skipped by offset

	rest, err := db.ListJobs(ctx, store.ListOpts{Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
}

func TestSetStatusMissingRow(t *testing.T) {
	db := openTestDB(t)
	changed, err := db.SetStatus(context.Background(), 9999, store.StatusProcessed)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, store.Stats{}, stats)

	id, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	_, err = db.InsertJob(ctx, listing("http://x/2", "CTO", "Globex"))
	require.NoError(t, err)

	_, err = db.SetStatus(ctx, id, store.StatusProcessed)
	require.NoError(t, err)

	stats, err = db.GetStats(ctx)
	require.NoError(t, err)
	require.Equal(t, store.Stats{Total: 2, New: 1, Processed: 1}, stats)
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	l := listing("http://x/1", "VP Eng", "Acme")
	l.Metadata["search_location"] = "Israel"

	id, err := db.InsertJob(ctx, l)
	require.NoError(t, err)

	got, err := db.GetJob(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "test", got.Metadata["source"])
	require.Equal(t, "Israel", got.Metadata["search_location"])
	require.Equal(t, store.StatusNew, got.Status)

	missing, err := db.GetJob(ctx, id+100)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSearchJobs(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.InsertJob(ctx, listing("http://x/1", "VP Engineering", "Acme"))
	require.NoError(t, err)
	_, err = db.InsertJob(ctx, listing("http://x/2", "Head of Product", "Globex"))
	require.NoError(t, err)

	hits, err := db.SearchJobs(ctx, "engineering", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "VP Engineering", hits[0].Title)

	hits, err = db.SearchJobs(ctx, "globex", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestCompanies(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.InsertJob(ctx, listing("http://x/1", "VP Eng", "Acme"))
	require.NoError(t, err)
	_, err = db.InsertJob(ctx, listing("http://x/2", "CTO", "Acme"))
	require.NoError(t, err)
	_, err = db.InsertJob(ctx, listing("http://x/3", "Staff Engineer", "Globex"))
	require.NoError(t, err)

	companies, err := db.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 2)
	require.Equal(t, "Acme", companies[0].Name)
	require.Equal(t, 2, companies[0].JobCount)
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobscanner-engine/internal/domain"
)

// Job statuses. A row is created as StatusNew and only SetStatus moves it.
const (
	StatusNew       = "new"
	StatusProcessed = "processed"
)

// StoredJob is a persisted listing plus store-assigned identity and status.
type StoredJob struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	PostedDate  string         `json:"posted_date"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata"`
}

type ListOpts struct {
	Status  string // exact match; empty means all
	Company string // exact match; empty means all
	Limit   int    // <= 0 means unbounded
	Offset  int    // rows to skip; <= 0 means none
}

type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Processed int `json:"processed"`
}

type CompanyCount struct {
	Name          string `json:"name"`
	JobCount      int    `json:"job_count"`
	LatestPosting string `json:"latest_posting,omitempty"`
}

// InsertJob persists one listing. It returns the new row id, or 0 with a nil
// error when a job with the same url already exists, so re-running ingestion
// over overlapping data never duplicates rows. Any other persistence failure
// is returned to the caller.
func (d *DB) InsertJob(ctx context.Context, l domain.Listing) (int64, error) {
	if strings.TrimSpace(l.URL) == "" {
		return 0, errors.New("missing url")
	}

	meta := l.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaB, err := json.Marshal(meta)
	if err != nil {
		return 0, fmt.Errorf("marshal metadata: %w", err)
	}

	res, err := d.Pool.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (title, company, location, url, posted_date, description, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?);`,
		l.Title, l.Company, l.Location, l.URL, l.PostedDate, l.Description, string(metaB),
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		// url already present
		return 0, nil
	}
	return res.LastInsertId()
}

// Exists reports whether a job with the given url is stored.
func (d *DB) Exists(ctx context.Context, url string) (bool, error) {
	var one int
	err := d.Pool.QueryRowContext(ctx, `SELECT 1 FROM jobs WHERE url = ? LIMIT 1;`, url).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListJobs returns jobs newest-id-first, optionally filtered by exact status.
func (d *DB) ListJobs(ctx context.Context, opts ListOpts) ([]StoredJob, error) {
	query := `
SELECT id, title, company, location, url, posted_date, description, status, metadata
FROM jobs`
	var where []string
	var args []any
	if opts.Status != "" {
		where = append(where, `status = ?`)
		args = append(args, opts.Status)
	}
	if opts.Company != "" {
		where = append(where, `company = ?`)
		args = append(args, opts.Company)
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY id DESC`
	if opts.Limit > 0 || opts.Offset > 0 {
		// OFFSET needs a LIMIT clause; -1 means unbounded
		limit := opts.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ?`
		args = append(args, limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := d.Pool.QueryContext(ctx, query+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// GetJob fetches one job by id; (nil, nil) when it does not exist.
func (d *DB) GetJob(ctx context.Context, id int64) (*StoredJob, error) {
	row := d.Pool.QueryRowContext(ctx, `
SELECT id, title, company, location, url, posted_date, description, status, metadata
FROM jobs WHERE id = ?;`, id)

	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// SetStatus updates one job's status and reports whether a row was affected.
func (d *DB) SetStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := d.Pool.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?;`, status, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetStats returns aggregate counts by status.
func (d *DB) GetStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := d.Pool.QueryRowContext(ctx, `
SELECT
  COUNT(*),
  COUNT(CASE WHEN status = 'new' THEN 1 END),
  COUNT(CASE WHEN status = 'processed' THEN 1 END)
FROM jobs;`).Scan(&s.Total, &s.New, &s.Processed)
	return s, err
}

// SearchJobs matches q against title, company and description, newest first.
func (d *DB) SearchJobs(ctx context.Context, q string, limit int) ([]StoredJob, error) {
	if limit <= 0 {
		limit = 20
	}
	pat := "%" + q + "%"
	rows, err := d.Pool.QueryContext(ctx, `
SELECT id, title, company, location, url, posted_date, description, status, metadata
FROM jobs
WHERE title LIKE ? OR company LIKE ? OR description LIKE ?
ORDER BY id DESC
LIMIT ?;`, pat, pat, pat, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

// Companies aggregates stored jobs per company, busiest first.
func (d *DB) Companies(ctx context.Context) ([]CompanyCount, error) {
	rows, err := d.Pool.QueryContext(ctx, `
SELECT company, COUNT(*), COALESCE(MAX(posted_date), '')
FROM jobs
GROUP BY company
ORDER BY COUNT(*) DESC, company ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompanyCount
	for rows.Next() {
		var c CompanyCount
		if err := rows.Scan(&c.Name, &c.JobCount, &c.LatestPosting); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (StoredJob, error) {
	var j StoredJob
	var metaJSON string
	if err := s.Scan(
		&j.ID, &j.Title, &j.Company, &j.Location, &j.URL,
		&j.PostedDate, &j.Description, &j.Status, &metaJSON,
	); err != nil {
		return StoredJob{}, err
	}
	if err := json.Unmarshal([]byte(metaJSON), &j.Metadata); err != nil {
		j.Metadata = map[string]any{}
	}
	return j, nil
}

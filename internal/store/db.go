package store

import (
	"context"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"database/sql"
)

type DB struct {
	Pool *sql.DB
}

// Open opens (creating if needed) the jobs database. WAL keeps concurrent
// readers off the writer's back; busy_timeout absorbs writer contention, so
// ingestion can overlap read traffic safely.
func Open(path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

// ScholarMesh - Research Collaboration Analytics
// Copyright 2026 Mehmet Kaya (mkaya-dev)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mkaya-dev/scholarmesh

// Package database implements the DuckDB-backed profile store: schema
// management, record CRUD, the bulk loaders feeding the suggestion
// engine's snapshot, and the tag-association upserts used by
// auto-tagging.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/mkaya-dev/scholarmesh/internal/config"
	"github.com/mkaya-dev/scholarmesh/internal/logging"
)

// ErrDataUnavailable marks store-level failures on the suggestion read
// path. A request hitting this aborts; no partial snapshot is served.
var ErrDataUnavailable = errors.New("profile store unavailable")

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// DB wraps the DuckDB connection with the store's query surface.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database, configures the connection pool, and ensures
// the schema exists.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d", cfg.Path, numThreads)
	if cfg.MaxMemory != "" {
		connStr += "&max_memory=" + cfg.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// DuckDB is an embedded engine; a small pool is enough and avoids
	// file-lock contention.
	conn.SetMaxOpenConns(numThreads)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	db := &DB{conn: conn, cfg: cfg}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Int("threads", numThreads).Msg("Database opened")
	return db, nil
}

// Conn exposes the underlying connection pool.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	logging.Debug().Msg("Closing database")
	return db.conn.Close()
}

// unavailable wraps a query failure on the snapshot read path with the
// ErrDataUnavailable sentinel.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
}

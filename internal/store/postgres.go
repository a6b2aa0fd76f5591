// Package store bulk-loads the CSV dataset into Postgres.
package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"

	"albumpulse/internal/dataset"
)

// Config holds Postgres connection settings.
type Config struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// DSN builds a postgres:// connection URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	return u.String()
}

// Validate checks that every connection field is set.
func (c Config) Validate() error {
	missing := []string{}
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Port == "" {
		missing = append(missing, "port")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("postgres config missing: %v", missing)
	}
	return nil
}

// tableLoads maps tables to their CSV files, in dependency order: parents
// before children so COPY never hits a missing foreign key.
var tableLoads = []struct {
	table string
	file  string
}{
	{"tracks", dataset.TracksFile},
	{"lyrics", dataset.LyricsFile},
	{"youtube_videos", dataset.VideosFile},
	{"youtube_stats_snapshots", dataset.StatsFile},
}

// TableCount reports how many rows a table received.
type TableCount struct {
	Table string
	Rows  int64
}

// Load replaces the database contents with the CSV dataset in dataDir.
// All four files must exist. Everything runs in one transaction: truncate,
// then COPY each file in dependency order. On any error nothing is
// committed.
func Load(ctx context.Context, cfg Config, dataDir string) ([]TableCount, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Fail before touching the database if anything is missing.
	for _, tl := range tableLoads {
		path := filepath.Join(dataDir, tl.file)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("dataset file %s not found; run the earlier stages first: %w", tl.file, err)
		}
	}

	conn, err := pgx.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Children first in the truncate list; CASCADE covers anything else.
	_, err = tx.Exec(ctx, `TRUNCATE youtube_stats_snapshots, youtube_videos, lyrics, tracks RESTART IDENTITY CASCADE`)
	if err != nil {
		return nil, fmt.Errorf("failed to truncate tables: %w", err)
	}

	counts := make([]TableCount, 0, len(tableLoads))
	for _, tl := range tableLoads {
		rows, err := copyFile(ctx, conn, filepath.Join(dataDir, tl.file), tl.table)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", tl.table, err)
		}
		counts = append(counts, TableCount{Table: tl.table, Rows: rows})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return counts, nil
}

// copyFile streams one CSV file into a table with COPY FROM STDIN. It runs
// on the transaction's underlying connection, so it is part of the
// transaction.
func copyFile(ctx context.Context, conn *pgx.Conn, path, table string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sql := fmt.Sprintf(`COPY public.%s FROM STDIN WITH (FORMAT csv, HEADER true)`, table)
	tag, err := conn.PgConn().CopyFrom(ctx, f, sql)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package store

import (
	"context"
	"strings"
	"testing"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "localhost",
		Port:     "5432",
		Database: "albumpulse",
		User:     "loader",
		Password: "p@ss/word",
	}

	dsn := cfg.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("DSN = %q", dsn)
	}
	if !strings.Contains(dsn, "localhost:5432") || !strings.HasSuffix(dsn, "/albumpulse") {
		t.Errorf("DSN = %q", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Errorf("password should be escaped in DSN: %q", dsn)
	}
}

func TestConfigValidate(t *testing.T) {
	full := Config{Host: "h", Port: "5432", Database: "d", User: "u", Password: "p"}
	if err := full.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	missing := Config{Host: "h", Port: "5432"}
	err := missing.Validate()
	if err == nil {
		t.Fatal("expected error for missing fields")
	}
	for _, want := range []string{"database", "user", "password"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should name %q: %v", want, err)
		}
	}
}

func TestLoadRequiresDatasetFiles(t *testing.T) {
	cfg := Config{Host: "h", Port: "5432", Database: "d", User: "u", Password: "p"}

	_, err := Load(context.Background(), cfg, t.TempDir())
	if err == nil {
		t.Fatal("expected error for empty data directory")
	}
	if !strings.Contains(err.Error(), "tracks.csv") {
		t.Errorf("error should name the missing file: %v", err)
	}
}

func TestLoadOrder(t *testing.T) {
	want := []string{"tracks", "lyrics", "youtube_videos", "youtube_stats_snapshots"}
	if len(tableLoads) != len(want) {
		t.Fatalf("tableLoads has %d entries, want %d", len(tableLoads), len(want))
	}
	for i, tl := range tableLoads {
		if tl.table != want[i] {
			t.Errorf("tableLoads[%d] = %q, want %q (parents load before children)", i, tl.table, want[i])
		}
	}
}

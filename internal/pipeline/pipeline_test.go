package pipeline

import (
	"context"
	"testing"
	"time"

	"albumpulse/internal/config"
	"albumpulse/internal/logger"
)

func newTestPipeline(modify func(*config.Config)) *Pipeline {
	cfg := config.DefaultConfig()
	cfg.AlbumName = "Don't Be Dumb"
	cfg.ArtistName = "A$AP Rocky"
	if modify != nil {
		modify(&cfg)
	}
	return New(cfg, config.Secrets{}, logger.New(false))
}

func TestSnapshotAllowed(t *testing.T) {
	p := newTestPipeline(nil)

	tests := []struct {
		hour int
		want bool
	}{
		{hour: 0, want: false},
		{hour: 17, want: false},
		{hour: 18, want: true},
		{hour: 21, want: true},
		{hour: 22, want: false},
		{hour: 23, want: false},
	}
	for _, tt := range tests {
		if got := p.snapshotAllowed(tt.hour); got != tt.want {
			t.Errorf("snapshotAllowed(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestStatsSkipsOutsideWindow(t *testing.T) {
	// Window that can never include the current hour.
	now := time.Now().UTC().Hour()
	start := (now + 2) % 23
	p := newTestPipeline(func(c *config.Config) {
		c.SnapshotStartHourUTC = start
		c.SnapshotEndHourUTC = start + 1
	})
	p.secrets.YouTubeAPIKey = "key"

	// No data dir, no network: the skip must happen before either is
	// touched.
	if err := p.Stats(context.Background()); err != nil {
		t.Errorf("expected silent skip outside window, got %v", err)
	}
}

func TestStagesRequireAPIKeys(t *testing.T) {
	p := newTestPipeline(nil)
	ctx := context.Background()

	if err := p.Tracks(ctx); err == nil {
		t.Error("Tracks should fail without GENIUS_API_KEY")
	}
	if err := p.Videos(ctx); err == nil {
		t.Error("Videos should fail without YOUTUBE_API_KEY")
	}
	if err := p.Lyrics(ctx); err == nil {
		t.Error("Lyrics should fail without GENIUS_API_KEY")
	}
}

// The all command covers the scraping stages only: stats is gated on its
// collection window and load needs database credentials, so neither
// belongs in a blind full run.
func TestAllRunsScrapingStagesOnly(t *testing.T) {
	p := newTestPipeline(nil)

	want := []string{"tracks", "videos", "lyrics"}
	stages := p.allStages()
	if len(stages) != len(want) {
		t.Fatalf("allStages() has %d entries, want %d", len(stages), len(want))
	}
	for i, stage := range stages {
		if stage.name != want[i] {
			t.Errorf("allStages()[%d] = %q, want %q", i, stage.name, want[i])
		}
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Errorf("zero sleep: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Minute); err == nil {
		t.Error("expected context error from cancelled sleep")
	}
}

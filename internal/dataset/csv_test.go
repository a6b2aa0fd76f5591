package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteAndReadTracks(t *testing.T) {
	dir := t.TempDir()

	in := []TrackRow{
		{TrackID: "dont_be_dumb_01", TrackNumber: 1, TrackName: "Highjack", TrackNameRaw: "Highjack (Official Audio)"},
		{TrackID: "dont_be_dumb_02", TrackNumber: 2, TrackName: "Ruby Rosary", TrackNameRaw: "Ruby Rosary"},
	}
	if err := WriteTracks(dir, in); err != nil {
		t.Fatalf("WriteTracks: %v", err)
	}

	out, err := ReadTracks(dir)
	if err != nil {
		t.Fatalf("ReadTracks: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestReadTracksMissingFile(t *testing.T) {
	if _, err := ReadTracks(t.TempDir()); err == nil {
		t.Fatal("expected error for missing tracks.csv")
	}
}

func TestLyricsFieldsSurviveCSV(t *testing.T) {
	dir := t.TempDir()

	in := []LyricRow{{
		TrackID:         "a_01",
		TrackName:       `Tracks, with "quotes"`,
		GeniusURL:       "https://genius.com/x",
		Lyrics:          "line one\nline two, with comma\nline three",
		WordCount:       9,
		UniqueWordCount: 8,
		RepetitionRatio: 0.1111,
	}}
	if err := WriteLyrics(dir, in); err != nil {
		t.Fatalf("WriteLyrics: %v", err)
	}

	out := ReadLyrics(dir)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out[0], in[0])
	}
	if !strings.Contains(out[0].Lyrics, "\n") {
		t.Error("newlines in lyrics should survive")
	}
}

func TestReadLyricsMissingFileIsEmpty(t *testing.T) {
	if rows := ReadLyrics(t.TempDir()); rows != nil {
		t.Errorf("expected nil for missing lyrics.csv, got %+v", rows)
	}
}

func TestReadLyricsMalformedFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LyricsFile)
	if err := os.WriteFile(path, []byte("not,a,valid\nlyrics file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if rows := ReadLyrics(dir); rows != nil {
		t.Errorf("expected nil for malformed lyrics.csv, got %+v", rows)
	}
}

func TestAppendStatsHeaderOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	likes := int64(10)

	first := []StatsRow{{VideoID: "vid1", CapturedAt: "2026-08-24T19:00:00Z", ViewCount: 100, LikeCount: &likes}}
	second := []StatsRow{{VideoID: "vid1", CapturedAt: "2026-08-25T19:00:00Z", ViewCount: 150}}

	if err := AppendStats(dir, first); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := AppendStats(dir, second); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, StatsFile))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if got := strings.Count(content, "youtube_video_id,captured_at"); got != 1 {
		t.Errorf("header appears %d times, want 1:\n%s", got, content)
	}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3 (header + 2 snapshots):\n%s", len(lines), content)
	}
	if lines[1] != "vid1,2026-08-24T19:00:00Z,100,10," {
		t.Errorf("first snapshot = %q", lines[1])
	}
	if lines[2] != "vid1,2026-08-25T19:00:00Z,150,," {
		t.Errorf("nil counts should serialize empty: %q", lines[2])
	}
}

func TestVideoRowNoMatchFields(t *testing.T) {
	dir := t.TempDir()

	in := []VideoRow{
		{TrackID: "a_01", VideoID: "vid1", VideoTitle: "Highjack", ChannelTitle: "Ch (Releases)", PublishedAt: "2026-08-01T00:00:00Z", IsOfficial: true, MatchConfidence: "high"},
		{TrackID: "a_02", MatchConfidence: "none"},
	}
	if err := WriteVideos(dir, in); err != nil {
		t.Fatalf("WriteVideos: %v", err)
	}

	out, err := ReadVideos(dir)
	if err != nil {
		t.Fatalf("ReadVideos: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("out[0] = %+v", out[0])
	}
	if out[1].VideoID != "" || out[1].IsOfficial || out[1].MatchConfidence != "none" {
		t.Errorf("out[1] = %+v", out[1])
	}
}

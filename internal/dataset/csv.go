package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var (
	tracksHeader = []string{"track_id", "track_number", "track_name", "track_name_raw"}
	lyricsHeader = []string{"track_id", "track_name", "genius_url", "lyrics", "word_count", "unique_word_count", "repetition_ratio"}
	videosHeader = []string{"track_id", "youtube_video_id", "youtube_title", "channel_title", "published_at", "is_official", "match_confidence"}
	statsHeader  = []string{"youtube_video_id", "captured_at", "view_count", "like_count", "comment_count"}
)

// WriteTracks rewrites tracks.csv with the given rows.
func WriteTracks(dataDir string, rows []TrackRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.TrackID,
			strconv.Itoa(r.TrackNumber),
			r.TrackName,
			r.TrackNameRaw,
		})
	}
	return writeFile(filepath.Join(dataDir, TracksFile), tracksHeader, records)
}

// WriteLyrics rewrites lyrics.csv with the given rows.
func WriteLyrics(dataDir string, rows []LyricRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.TrackID,
			r.TrackName,
			r.GeniusURL,
			r.Lyrics,
			strconv.Itoa(r.WordCount),
			strconv.Itoa(r.UniqueWordCount),
			formatRatio(r.RepetitionRatio),
		})
	}
	return writeFile(filepath.Join(dataDir, LyricsFile), lyricsHeader, records)
}

// WriteVideos rewrites youtube_videos.csv with the given rows.
func WriteVideos(dataDir string, rows []VideoRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.TrackID,
			r.VideoID,
			r.VideoTitle,
			r.ChannelTitle,
			r.PublishedAt,
			strconv.FormatBool(r.IsOfficial),
			r.MatchConfidence,
		})
	}
	return writeFile(filepath.Join(dataDir, VideosFile), videosHeader, records)
}

// AppendStats appends snapshot rows to youtube_stats_snapshots.csv,
// writing the header only when the file does not exist yet. Snapshots are
// never overwritten.
func AppendStats(dataDir string, rows []StatsRow) error {
	path := filepath.Join(dataDir, StatsFile)
	_, statErr := os.Stat(path)
	newFile := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if newFile {
		if err := w.Write(statsHeader); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, r := range rows {
		record := []string{
			r.VideoID,
			r.CapturedAt,
			strconv.FormatInt(r.ViewCount, 10),
			formatNullableCount(r.LikeCount),
			formatNullableCount(r.CommentCount),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// ReadTracks loads tracks.csv. A missing or malformed file is an error:
// every later stage depends on it.
func ReadTracks(dataDir string) ([]TrackRow, error) {
	path := filepath.Join(dataDir, TracksFile)
	records, err := readFile(path, len(tracksHeader))
	if err != nil {
		return nil, err
	}

	rows := make([]TrackRow, 0, len(records))
	for _, rec := range records {
		num, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s: bad track_number %q: %w", path, rec[1], err)
		}
		rows = append(rows, TrackRow{
			TrackID:      rec[0],
			TrackNumber:  num,
			TrackName:    rec[2],
			TrackNameRaw: rec[3],
		})
	}
	return rows, nil
}

// ReadVideos loads youtube_videos.csv.
func ReadVideos(dataDir string) ([]VideoRow, error) {
	path := filepath.Join(dataDir, VideosFile)
	records, err := readFile(path, len(videosHeader))
	if err != nil {
		return nil, err
	}

	rows := make([]VideoRow, 0, len(records))
	for _, rec := range records {
		official, _ := strconv.ParseBool(rec[5])
		rows = append(rows, VideoRow{
			TrackID:         rec[0],
			VideoID:         rec[1],
			VideoTitle:      rec[2],
			ChannelTitle:    rec[3],
			PublishedAt:     rec[4],
			IsOfficial:      official,
			MatchConfidence: rec[6],
		})
	}
	return rows, nil
}

// ReadLyrics loads lyrics.csv for resumption. A missing or unreadable file
// just means nothing to resume from, so it returns no rows and no error.
func ReadLyrics(dataDir string) []LyricRow {
	path := filepath.Join(dataDir, LyricsFile)
	records, err := readFile(path, len(lyricsHeader))
	if err != nil {
		return nil
	}

	rows := make([]LyricRow, 0, len(records))
	for _, rec := range records {
		wc, err := strconv.Atoi(rec[4])
		if err != nil {
			continue
		}
		uwc, err := strconv.Atoi(rec[5])
		if err != nil {
			continue
		}
		ratio, err := strconv.ParseFloat(rec[6], 64)
		if err != nil {
			continue
		}
		rows = append(rows, LyricRow{
			TrackID:         rec[0],
			TrackName:       rec[1],
			GeniusURL:       rec[2],
			Lyrics:          rec[3],
			WordCount:       wc,
			UniqueWordCount: uwc,
			RepetitionRatio: ratio,
		})
	}
	return rows
}

func writeFile(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readFile(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	// Header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s header: %w", path, err)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatNullableCount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

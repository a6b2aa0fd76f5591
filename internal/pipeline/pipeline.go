// Package pipeline wires the stages together: tracks → videos → stats →
// lyrics → load. Each stage reads the CSVs earlier stages wrote, so
// stages can run independently once their inputs exist.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"albumpulse/internal/config"
	"albumpulse/internal/dataset"
	"albumpulse/internal/genius"
	"albumpulse/internal/logger"
	"albumpulse/internal/lyrics"
	"albumpulse/internal/match"
	"albumpulse/internal/progress"
	"albumpulse/internal/store"
	"albumpulse/internal/track"
	"albumpulse/internal/youtube"
)

// Pipeline holds the shared dependencies of all stages.
type Pipeline struct {
	cfg     config.Config
	secrets config.Secrets
	log     *logger.Logger
}

// New creates a pipeline from validated configuration.
func New(cfg config.Config, secrets config.Secrets, log *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, secrets: secrets, log: log}
}

// Tracks discovers the album page, extracts the tracklist, and writes
// tracks.csv.
func (p *Pipeline) Tracks(ctx context.Context) error {
	if p.secrets.GeniusAPIKey == "" {
		return fmt.Errorf("GENIUS_API_KEY is not set")
	}
	client := genius.New(p.secrets.GeniusAPIKey)

	song, err := client.FindAlbumSong(ctx, p.cfg.AlbumName, p.cfg.ArtistName)
	if err != nil {
		return fmt.Errorf("album discovery failed: %w", err)
	}
	if song.AlbumURL == "" {
		return fmt.Errorf("found song %q but it carries no album page; adjust album_name or artist_name", song.Title)
	}
	if !match.TitleContains(song.AlbumName, p.cfg.AlbumName) {
		p.log.Warn("album name from API %q does not closely match %q, proceeding anyway", song.AlbumName, p.cfg.AlbumName)
	}
	p.log.Info("Using album page: %s", song.AlbumURL)

	html, err := client.GetPage(ctx, song.AlbumURL)
	if err != nil {
		return fmt.Errorf("failed to fetch album page: %w", err)
	}

	entries, err := genius.ExtractTracklist(html)
	if err != nil {
		return err
	}

	slug := p.cfg.AlbumSlug
	if slug == "" {
		slug = track.Slugify(p.cfg.AlbumName)
	}

	tracks := make([]track.Track, 0, len(entries))
	for _, e := range entries {
		tracks = append(tracks, track.Track{
			ID:      track.MakeID(slug, e.Number),
			Number:  e.Number,
			Name:    track.CleanName(e.Title),
			RawName: e.Title,
		})
	}
	if err := track.Validate(tracks); err != nil {
		return fmt.Errorf("tracklist failed validation: %w", err)
	}

	rows := make([]dataset.TrackRow, 0, len(tracks))
	for _, t := range tracks {
		p.log.Debug("%02d %s", t.Number, t.Name)
		rows = append(rows, dataset.TrackRow{
			TrackID:      t.ID,
			TrackNumber:  t.Number,
			TrackName:    t.Name,
			TrackNameRaw: t.RawName,
		})
	}
	if err := dataset.WriteTracks(p.cfg.DataDir, rows); err != nil {
		return err
	}

	p.log.Success("Wrote %d tracks", len(rows))
	return nil
}

// Videos matches each track to a video from the album's release playlist
// and writes youtube_videos.csv.
func (p *Pipeline) Videos(ctx context.Context) error {
	if p.secrets.YouTubeAPIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is not set")
	}
	client := youtube.New(p.secrets.YouTubeAPIKey)

	tracks, err := dataset.ReadTracks(p.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("tracks.csv is required; run the tracks stage first: %w", err)
	}

	playlistID := p.cfg.PlaylistID
	if playlistID == "" {
		playlistID, err = p.findAlbumPlaylist(ctx, client)
		if err != nil {
			return err
		}
	}
	p.log.Info("Using album playlist: %s", playlistID)

	items, err := client.PlaylistItems(ctx, playlistID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("playlist %s has no videos", playlistID)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.VideoID)
	}
	durations, err := client.VideoDurations(ctx, ids)
	if err != nil {
		return err
	}

	minDuration := time.Duration(p.cfg.Weights.MinVideoSeconds) * time.Second
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].TrackNumber < tracks[j].TrackNumber })

	matched := 0
	rows := make([]dataset.VideoRow, 0, len(tracks))
	for _, t := range tracks {
		row := dataset.VideoRow{TrackID: t.TrackID, MatchConfidence: string(match.ConfidenceNone)}

		// First playlist video whose title contains the track name and
		// is long enough. Audio tracks can be short-ish, hence the low
		// duration floor.
		for _, item := range items {
			if !match.TitleContains(item.Title, t.TrackName) {
				continue
			}
			if durations[item.VideoID] < minDuration {
				continue
			}
			row.VideoID = item.VideoID
			row.VideoTitle = item.Title
			row.ChannelTitle = item.ChannelTitle
			row.PublishedAt = item.PublishedAt
			row.IsOfficial = true
			row.MatchConfidence = string(match.ConfidenceHigh)
			matched++
			break
		}

		if row.VideoID != "" {
			p.log.Debug("%02d %s -> %s", t.TrackNumber, t.TrackName, row.VideoID)
		} else {
			p.log.Debug("%02d %s -> NO MATCH", t.TrackNumber, t.TrackName)
		}
		rows = append(rows, row)
	}

	if err := dataset.WriteVideos(p.cfg.DataDir, rows); err != nil {
		return err
	}

	p.log.Success("Matched %d of %d tracks to videos", matched, len(tracks))
	return nil
}

// findAlbumPlaylist searches the channel's playlists and scores each
// against the album title.
func (p *Pipeline) findAlbumPlaylist(ctx context.Context, client *youtube.Client) (string, error) {
	if p.cfg.ChannelID == "" {
		return "", fmt.Errorf("channel_id or playlist_id must be set to find the album playlist")
	}

	playlists, err := client.SearchPlaylists(ctx, p.cfg.ChannelID, p.cfg.AlbumName)
	if err != nil {
		return "", err
	}
	if len(playlists) == 0 {
		return "", fmt.Errorf("no playlists found for %q on channel %s", p.cfg.AlbumName, p.cfg.ChannelID)
	}

	cands := make([]match.Candidate, 0, len(playlists))
	for i, pl := range playlists {
		score := p.cfg.Weights.ScorePlaylist(match.Playlist{ID: pl.ID, Title: pl.Title}, p.cfg.AlbumName)
		p.log.Debug("playlist %s %q scored %d", pl.ID, pl.Title, score)
		cands = append(cands, match.Candidate{Index: i, Score: score})
	}
	best := match.Rank(cands)[0]
	return playlists[best.Index].ID, nil
}

// Stats appends one engagement snapshot per matched video to
// youtube_stats_snapshots.csv. Outside the configured UTC window it skips
// without error, so a scheduler can call it blindly.
func (p *Pipeline) Stats(ctx context.Context) error {
	if p.secrets.YouTubeAPIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is not set")
	}

	now := time.Now().UTC()
	if p.cfg.ForceSnapshot {
		p.log.Warn("force_snapshot is set; skipping the time window check")
	} else if !p.snapshotAllowed(now.Hour()) {
		p.log.Skip("current UTC hour is %d; snapshots are collected between %d:00 and %d:00 UTC",
			now.Hour(), p.cfg.SnapshotStartHourUTC, p.cfg.SnapshotEndHourUTC)
		return nil
	}

	videos, err := dataset.ReadVideos(p.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("youtube_videos.csv is required; run the videos stage first: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, v := range videos {
		if v.VideoID == "" || seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		ids = append(ids, v.VideoID)
	}
	if len(ids) == 0 {
		return fmt.Errorf("no matched video ids in youtube_videos.csv")
	}

	client := youtube.New(p.secrets.YouTubeAPIKey)
	stats, err := client.VideoStats(ctx, ids)
	if err != nil {
		return err
	}

	capturedAt := now.Format(time.RFC3339)
	rows := make([]dataset.StatsRow, 0, len(ids))
	for _, id := range ids {
		s, ok := stats[id]
		if !ok {
			p.log.Warn("no stats returned for video %s", id)
			continue
		}
		rows = append(rows, dataset.StatsRow{
			VideoID:      id,
			CapturedAt:   capturedAt,
			ViewCount:    s.Views,
			LikeCount:    s.Likes,
			CommentCount: s.Comments,
		})
	}
	if len(rows) == 0 {
		p.log.Warn("no stats returned from API")
		return nil
	}

	if err := dataset.AppendStats(p.cfg.DataDir, rows); err != nil {
		return err
	}

	p.log.Success("Captured stats for %d videos at %s", len(rows), capturedAt)
	return nil
}

// Lyrics fetches, cleans, and measures lyrics for every track, writing
// lyrics.csv. Tracks that already have lyrics from an earlier run are kept
// as-is; failed tracks get an empty row and are retried next run.
func (p *Pipeline) Lyrics(ctx context.Context) error {
	if p.secrets.GeniusAPIKey == "" {
		return fmt.Errorf("GENIUS_API_KEY is not set")
	}
	client := genius.New(p.secrets.GeniusAPIKey)
	cleaner := lyrics.NewCleaner(p.cfg.Cleaner)

	tracks, err := dataset.ReadTracks(p.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("tracks.csv is required; run the tracks stage first: %w", err)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].TrackNumber < tracks[j].TrackNumber })

	done := make(map[string]dataset.LyricRow)
	for _, row := range dataset.ReadLyrics(p.cfg.DataDir) {
		if row.Lyrics != "" {
			done[row.TrackID] = row
		}
	}
	if len(done) > 0 {
		p.log.Info("Resuming: %d of %d tracks already have lyrics", len(done), len(tracks))
	}

	bar := progress.New("lyrics", len(tracks))
	p.log.SetProgressBar(true)
	defer p.log.SetProgressBar(false)
	defer bar.Finish()

	rows := make([]dataset.LyricRow, 0, len(tracks))
	for _, t := range tracks {
		if row, ok := done[t.TrackID]; ok {
			rows = append(rows, row)
			bar.Increment()
			continue
		}

		row, err := p.fetchLyrics(ctx, client, cleaner, t)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.log.Error("%s: %v", t.TrackID, err)
			row = dataset.LyricRow{TrackID: t.TrackID, TrackName: t.TrackName}
		}
		rows = append(rows, row)
		bar.Increment()

		if err := sleepCtx(ctx, p.cfg.SleepDuration()); err != nil {
			return err
		}
	}

	if err := dataset.WriteLyrics(p.cfg.DataDir, rows); err != nil {
		return err
	}

	withLyrics := 0
	for _, r := range rows {
		if r.Lyrics != "" {
			withLyrics++
		}
	}
	p.log.Success("Wrote lyrics for %d of %d tracks", withLyrics, len(rows))
	return nil
}

// fetchLyrics resolves one track to a song page, scrapes and cleans the
// text, and computes its metrics.
func (p *Pipeline) fetchLyrics(ctx context.Context, client *genius.Client, cleaner *lyrics.Cleaner, t dataset.TrackRow) (dataset.LyricRow, error) {
	row := dataset.LyricRow{TrackID: t.TrackID, TrackName: t.TrackName}

	hits, err := client.Search(ctx, p.cfg.ArtistName+" "+t.TrackName, 10)
	if err != nil {
		return row, err
	}
	if len(hits) == 0 {
		p.log.Debug("%s: no search hits, confidence none", t.TrackID)
		return row, nil
	}

	cands := make([]match.Candidate, 0, len(hits))
	for i, h := range hits {
		score := p.cfg.Weights.ScoreSongHit(match.SongHit{Title: h.Title, Artist: h.Artist}, t.TrackName, p.cfg.ArtistName)
		cands = append(cands, match.Candidate{Index: i, Score: score})
	}
	hit := hits[match.Rank(cands)[0].Index]

	song, err := client.GetSong(ctx, hit.ID)
	if err != nil {
		return row, err
	}
	row.GeniusURL = song.URL

	html, err := client.GetPage(ctx, song.URL)
	if err != nil {
		return row, err
	}
	raw, err := genius.ExtractLyrics(html)
	if err != nil {
		return row, err
	}

	row.Lyrics = cleaner.Clean(raw, t.TrackName)
	m := cleaner.ComputeMetrics(row.Lyrics)
	row.WordCount = m.WordCount
	row.UniqueWordCount = m.UniqueWordCount
	row.RepetitionRatio = m.RepetitionRatio

	confidence := match.ConfidenceLow
	if m.WordCount > p.cfg.LyricConfidenceWords {
		confidence = match.ConfidenceHigh
	}
	p.log.Debug("%s | %s -> %s (%d words, confidence %s)", t.TrackID, t.TrackName, song.URL, m.WordCount, confidence)
	return row, nil
}

// Load bulk-loads the CSV dataset into Postgres.
func (p *Pipeline) Load(ctx context.Context) error {
	counts, err := store.Load(ctx, p.secrets.Postgres, p.cfg.DataDir)
	if err != nil {
		return err
	}
	for _, c := range counts {
		p.log.Info("%s: %d rows", c.Table, c.Rows)
	}
	p.log.Success("Database load complete")
	return nil
}

type pipelineStage struct {
	name string
	run  func(context.Context) error
}

// allStages lists what the all command runs, in order. Stats stays out
// because it is window-gated for a scheduler, and load stays out because
// it needs database credentials; both remain their own commands.
func (p *Pipeline) allStages() []pipelineStage {
	return []pipelineStage{
		{"tracks", p.Tracks},
		{"videos", p.Videos},
		{"lyrics", p.Lyrics},
	}
}

// All runs the scraping stages in order, stopping at the first failure.
func (p *Pipeline) All(ctx context.Context) error {
	for _, stage := range p.allStages() {
		p.log.Info("=== %s ===", stage.name)
		if err := stage.run(ctx); err != nil {
			return fmt.Errorf("%s stage failed: %w", stage.name, err)
		}
	}
	return nil
}

// snapshotAllowed reports whether the given UTC hour falls inside the
// configured collection window. Keeping captures in one evening window
// makes day-over-day deltas comparable.
func (p *Pipeline) snapshotAllowed(hour int) bool {
	return hour >= p.cfg.SnapshotStartHourUTC && hour < p.cfg.SnapshotEndHourUTC
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

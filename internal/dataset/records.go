// Package dataset defines the on-disk CSV dataset the pipeline stages
// share. Each stage reads the files earlier stages wrote and writes its
// own, so the files double as resume points.
package dataset

// Dataset file names, relative to the data directory.
const (
	TracksFile = "tracks.csv"
	LyricsFile = "lyrics.csv"
	VideosFile = "youtube_videos.csv"
	StatsFile  = "youtube_stats_snapshots.csv"
)

// TrackRow is one row of tracks.csv.
type TrackRow struct {
	TrackID      string
	TrackNumber  int
	TrackName    string
	TrackNameRaw string
}

// LyricRow is one row of lyrics.csv. Lyrics is the cleaned text; an empty
// Lyrics with a non-empty GeniusURL means the fetch failed and can be
// retried on the next run.
type LyricRow struct {
	TrackID         string
	TrackName       string
	GeniusURL       string
	Lyrics          string
	WordCount       int
	UniqueWordCount int
	RepetitionRatio float64
}

// VideoRow is one row of youtube_videos.csv. Video fields are empty when
// no video matched the track.
type VideoRow struct {
	TrackID         string
	VideoID         string
	VideoTitle      string
	ChannelTitle    string
	PublishedAt     string
	IsOfficial      bool
	MatchConfidence string
}

// StatsRow is one row of youtube_stats_snapshots.csv. Snapshots are
// append-only. LikeCount and CommentCount are nil when the video hides
// them.
type StatsRow struct {
	VideoID      string
	CapturedAt   string
	ViewCount    int64
	LikeCount    *int64
	CommentCount *int64
}

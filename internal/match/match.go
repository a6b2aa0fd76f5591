package match

import (
	"regexp"
	"sort"
	"strings"
)

// Confidence is the coarse trust label attached to automatically selected
// candidates.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
	ConfidenceNone Confidence = "none"
)

// Candidate is one scored search result. Index preserves the order the
// candidate was seen in, which breaks score ties (first seen wins).
type Candidate struct {
	Index int
	Score int
}

// Rank sorts candidates by score descending. Equal scores keep their
// original order, so the earliest candidate wins ties.
func Rank(cands []Candidate) []Candidate {
	ranked := make([]Candidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Weights holds the scoring constants. The values are empirically tuned
// rather than derived; they are kept adjustable for that reason.
type Weights struct {
	ArtistContains  int `yaml:"artist_contains"`   // song hit: primary artist contains the wanted artist
	TitleContains   int `yaml:"title_contains"`    // song hit: title contains the wanted track name
	AlbumInTitle    int `yaml:"album_in_title"`    // playlist: album name appears in playlist title
	ReleasePrefix   int `yaml:"release_prefix"`    // playlist: id carries the auto-release prefix
	ReleaseKeyword  int `yaml:"release_keyword"`   // playlist: title mentions "album" or "release"
	MinVideoSeconds int `yaml:"min_video_seconds"` // track to video: minimum duration to accept a match
}

// DefaultWeights returns the scoring constants the pipeline was tuned with.
func DefaultWeights() Weights {
	return Weights{
		ArtistContains:  50,
		TitleContains:   30,
		AlbumInTitle:    50,
		ReleasePrefix:   30,
		ReleaseKeyword:  10,
		MinVideoSeconds: 30,
	}
}

// releasePlaylistPrefix is the id prefix YouTube assigns to auto-generated
// album release playlists.
const releasePlaylistPrefix = "OLAK5uy"

// SongHit is the comparable subset of a lyrics-site search result.
type SongHit struct {
	Title  string
	Artist string
}

// ScoreSongHit scores one search hit against the wanted track and artist.
func (w Weights) ScoreSongHit(hit SongHit, wantTitle, wantArtist string) int {
	score := 0
	if strings.Contains(Normalize(hit.Artist), Normalize(wantArtist)) {
		score += w.ArtistContains
	}
	if strings.Contains(Normalize(hit.Title), Normalize(wantTitle)) {
		score += w.TitleContains
	}
	return score
}

// Playlist is the comparable subset of a playlist search result.
type Playlist struct {
	ID    string
	Title string
}

// ScorePlaylist scores a channel playlist against the album title.
func (w Weights) ScorePlaylist(p Playlist, albumTitle string) int {
	title := Normalize(p.Title)
	score := 0
	if strings.Contains(title, Normalize(albumTitle)) {
		score += w.AlbumInTitle
	}
	if strings.HasPrefix(p.ID, releasePlaylistPrefix) {
		score += w.ReleasePrefix
	}
	if strings.Contains(title, "album") || strings.Contains(title, "release") {
		score += w.ReleaseKeyword
	}
	return score
}

var (
	nonWord   = regexp.MustCompile(`[^a-z0-9\s']`)
	spaceRuns = regexp.MustCompile(`\s+`)
)

// Normalize lowercases, fixes smart quotes, strips everything but letters,
// digits, and apostrophes, and collapses whitespace. Used for all fuzzy
// containment checks.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "’", "'")
	s = nonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}

// TitleContains reports whether the normalized haystack contains the
// normalized needle.
func TitleContains(haystack, needle string) bool {
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

package track

import (
	"fmt"
	"regexp"
	"strings"
)

// Track is one album track as discovered from the lyrics site.
type Track struct {
	ID      string // stable per album+position, e.g. "dont_be_dumb_03"
	Number  int
	Name    string // cleaned display name
	RawName string // as scraped
}

// Patterns stripped from raw track titles before they become display names
var nameCleanupPatterns = []*regexp.Regexp{
	// Featuring credits in parentheses or brackets
	regexp.MustCompile(`(?i)[\(\[][^\)\]]*(feat\.|ft\.|featuring)[^\)\]]*[\)\]]`),

	// Upload-style noise in parentheses or brackets
	regexp.MustCompile(`(?i)[\(\[][^\)\]]*(official audio|official video|audio|video|explicit|clean|lyrics?)[^\)\]]*[\)\]]`),

	// Trailing "- Official Audio" style suffixes
	regexp.MustCompile(`(?i)\s*-\s*(official audio|official video|audio|video|lyrics?)\s*$`),

	// Trailing "Lyrics 123.4K" view counters that leak from scraped rows
	regexp.MustCompile(`(?i)\s*lyrics\s*\d+(\.\d+)?k\s*$`),
}

var spaceRuns = regexp.MustCompile(`\s+`)

// CleanName turns a scraped track title into a display name.
func CleanName(raw string) string {
	s := spaceRuns.ReplaceAllString(strings.TrimSpace(raw), " ")
	for _, p := range nameCleanupPatterns {
		s = p.ReplaceAllString(s, "")
	}
	return spaceRuns.ReplaceAllString(strings.TrimSpace(s), " ")
}

// MakeID builds the stable track identifier used across all CSVs and tables.
func MakeID(albumSlug string, number int) string {
	return fmt.Sprintf("%s_%02d", albumSlug, number)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a database-safe album slug from a display name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "’", "")
	s = strings.ReplaceAll(s, "'", "")
	s = nonSlug.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Validate checks the invariants every tracklist must satisfy: unique,
// non-empty IDs and non-empty cleaned names.
func Validate(tracks []Track) error {
	seen := make(map[string]bool, len(tracks))
	for _, t := range tracks {
		if t.ID == "" {
			return fmt.Errorf("track %d has an empty id", t.Number)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate track id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Name == "" {
			return fmt.Errorf("track %d (%q) became empty after cleaning", t.Number, t.RawName)
		}
	}
	return nil
}

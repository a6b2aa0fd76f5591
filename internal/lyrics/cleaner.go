package lyrics

import (
	"regexp"
	"strings"

	"albumpulse/internal/match"
)

// CleanerConfig holds the heuristic thresholds. The length gates are
// empirically tuned, not derived, so they stay adjustable instead of being
// buried in the filter code.
type CleanerConfig struct {
	HeadScanLines    int `yaml:"head_scan_lines"`    // how many leading non-blank lines to screen for blurbs
	BlurbMinLen      int `yaml:"blurb_min_len"`      // leading line length that marks a title-bearing line as blurb
	DescStrongMinLen int `yaml:"desc_strong_min_len"` // length gate for strong description signals
	DescWeakMinLen   int `yaml:"desc_weak_min_len"`   // length gate for weak signals combined with the title
	MetricsPrecision int `yaml:"metrics_precision"`   // decimal places for the repetition ratio
}

// DefaultCleanerConfig returns the thresholds the cleaner was tuned with.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		HeadScanLines:    8,
		BlurbMinLen:      40,
		DescStrongMinLen: 40,
		DescWeakMinLen:   30,
		MetricsPrecision: 4,
	}
}

// Cleaner strips scraped lyric pages down to the sung/spoken body. The
// heuristics are layered and length-gated because lyric text legitimately
// contains many of the same words ("single", "album", years) that also
// appear in promotional blurbs; the filters trade perfect precision for
// practical recall.
type Cleaner struct {
	cfg CleanerConfig
}

// NewCleaner builds a Cleaner. Zero-valued config fields fall back to the
// defaults, so a partially filled config file still works.
func NewCleaner(cfg CleanerConfig) *Cleaner {
	def := DefaultCleanerConfig()
	if cfg.HeadScanLines <= 0 {
		cfg.HeadScanLines = def.HeadScanLines
	}
	if cfg.BlurbMinLen <= 0 {
		cfg.BlurbMinLen = def.BlurbMinLen
	}
	if cfg.DescStrongMinLen <= 0 {
		cfg.DescStrongMinLen = def.DescStrongMinLen
	}
	if cfg.DescWeakMinLen <= 0 {
		cfg.DescWeakMinLen = def.DescWeakMinLen
	}
	if cfg.MetricsPrecision <= 0 {
		cfg.MetricsPrecision = def.MetricsPrecision
	}
	return &Cleaner{cfg: cfg}
}

// stage is one named, order-sensitive filter over the line list.
type stage struct {
	name  string
	apply func(c *Cleaner, title string, lines []string) []string
}

// The pipeline runs top to bottom. Order matters: section labels must go
// before the line filters (a label can share a line with lyric text),
// trailing boilerplate must go before the description scan (the footer is
// full of long "released"-style lines), and the head-window blurb scan
// must go last so its window is counted over the lines that actually
// survive; otherwise junk lines consume window slots on the first pass
// and a rerun over the cleaned text sees a different window.
var stages = []stage{
	{"strip_section_labels", (*Cleaner).stripSectionLabels},
	{"drop_trailing_boilerplate", (*Cleaner).dropTrailingBoilerplate},
	{"drop_title_echo", (*Cleaner).dropTitleEcho},
	{"drop_contributor_lines", (*Cleaner).dropContributorLines},
	{"drop_language_menu", (*Cleaner).dropLanguageMenu},
	{"drop_description_lines", (*Cleaner).dropDescriptionLines},
	{"drop_leading_blurbs", (*Cleaner).dropLeadingBlurbs},
}

// Clean runs the full pipeline. It never fails: empty or whitespace-only
// input yields an empty string.
func (c *Cleaner) Clean(raw, trackTitle string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	text := normalizeNewlines(raw)
	lines := strings.Split(text, "\n")
	for _, s := range stages {
		lines = s.apply(c, trackTitle, lines)
	}
	return collapseWhitespace(lines)
}

// Stages returns the pipeline stage names in execution order.
func (c *Cleaner) Stages() []string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.name
	}
	return names
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// sectionLabel matches bracketed role/section headers like [Chorus: A, B]
// or [Verse 2], including ones that span lines (greedy to the next closing
// bracket). Unclosed brackets are left alone.
var sectionLabel = regexp.MustCompile(`(?s)\[[^\]]*\]`)

// labelMark is a placeholder byte that cannot appear in page text; it lets
// the line pass distinguish a line emptied by label removal (dropped) from
// a line that was blank to begin with (kept for stanza spacing).
const labelMark = "\x00"

func (c *Cleaner) stripSectionLabels(_ string, lines []string) []string {
	text := sectionLabel.ReplaceAllString(strings.Join(lines, "\n"), labelMark)

	var out []string
	for _, line := range strings.Split(text, "\n") {
		marked := strings.Contains(line, labelMark)
		line = strings.ReplaceAll(line, labelMark, "")
		if marked && strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Sentinel lines that start the trailing junk block on a lyric page.
var trailingSentinels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^you might also like$`),
	regexp.MustCompile(`(?i)^\d*embed$`),
	regexp.MustCompile(`(?i)^see .+ live$`),
}

func (c *Cleaner) dropTrailingBoilerplate(_ string, lines []string) []string {
	for i, line := range lines {
		t := strings.TrimSpace(line)
		for _, re := range trailingSentinels {
			if re.MatchString(t) {
				return lines[:i]
			}
		}
	}
	return lines
}

// Narrative phrases that mark editorial blurb text rather than lyrics.
var narrativePhrases = []string{
	"is the", "is a", "produced by", "released", "premiered", "announced",
}

// dropLeadingBlurbs screens the first HeadScanLines surviving non-blank
// lines. The window counts kept lines, not examined ones: a dropped blurb
// frees its slot for the next line, so cleaning already-clean text screens
// the exact same window and changes nothing.
func (c *Cleaner) dropLeadingBlurbs(title string, lines []string) []string {
	normTitle := match.Normalize(title)

	out := lines[:0:0]
	kept := 0
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			out = append(out, line)
			continue
		}
		if kept < c.cfg.HeadScanLines && c.isLeadingBlurb(t, normTitle) {
			continue
		}
		out = append(out, line)
		kept++
	}
	return out
}

func (c *Cleaner) isLeadingBlurb(line, normTitle string) bool {
	if strings.HasSuffix(line, "…") || strings.HasSuffix(line, "...") {
		return true
	}
	if normTitle == "" || !strings.Contains(match.Normalize(line), normTitle) {
		return false
	}
	lower := strings.ToLower(line)
	for _, p := range narrativePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return len(line) > c.cfg.BlurbMinLen
}

// punctFold maps typographic quotes and dashes to their ASCII forms so the
// title-echo comparison survives the site's punctuation styling.
var punctFold = strings.NewReplacer(
	"’", "'", "‘", "'", "“", `"`, "”", `"`,
	"–", "-", "—", "-",
)

func foldPunct(s string) string {
	s = punctFold.Replace(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(strings.Fields(s), " ")
}

func (c *Cleaner) dropTitleEcho(title string, lines []string) []string {
	if strings.TrimSpace(title) == "" {
		return lines
	}
	echo := foldPunct(title) + " lyrics"

	out := lines[:0:0]
	for _, line := range lines {
		if foldPunct(line) == echo {
			continue
		}
		out = append(out, line)
	}
	return out
}

// The site often glues the menu together ("118 ContributorsTranslations"),
// so no trailing boundary here.
var contributorLine = regexp.MustCompile(`(?i)^\d+\s*contributors?`)

func (c *Cleaner) dropContributorLines(_ string, lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if contributorLine.MatchString(t) || strings.EqualFold(t, "translations") {
			continue
		}
		out = append(out, line)
	}
	return out
}

// languageMenu is the fixed set of language names the site's translation
// menu leaks into the lyric container.
var languageMenu = map[string]bool{
	"türkçe":     true,
	"português":  true,
	"español":    true,
	"deutsch":    true,
	"français":   true,
	"italiano":   true,
	"polski":     true,
	"nederlands": true,
	"svenska":    true,
	"norsk":      true,
	"dansk":      true,
	"suomi":      true,
	"čeština":    true,
	"magyar":     true,
	"română":     true,
	"русский":    true,
	"українська": true,
	"ελληνικά":   true,
	"العربية":    true,
	"עברית":      true,
	"日本語":        true,
	"한국어":        true,
	"中文":         true,
	"english":    true,
}

func (c *Cleaner) dropLanguageMenu(_ string, lines []string) []string {
	out := lines[:0:0]
	for _, line := range lines {
		if languageMenu[strings.ToLower(strings.TrimSpace(line))] {
			continue
		}
		out = append(out, line)
	}
	return out
}

var (
	strongDescPhrases = []string{"released", "premiered", "announced"}
	weakDescPhrases   = []string{"album", "featuring"}
	singleContext     = []string{"lead", "debut", "first", "second", "third", "new", "official"}

	// A month only counts with an adjacent day or year; the bare words
	// ("may", "march") are everyday lyric vocabulary.
	monthMention = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b[ ,]*\d`)
)

func (c *Cleaner) dropDescriptionLines(title string, lines []string) []string {
	normTitle := match.Normalize(title)

	out := lines[:0:0]
	for _, line := range lines {
		if c.isDescriptionLine(strings.TrimSpace(line), normTitle) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// isDescriptionLine flags blurb text anywhere in the body. Every signal is
// length-gated: short lines keep words like "single" and "album" all the
// time, and dropping those would eat real lyrics.
func (c *Cleaner) isDescriptionLine(line, normTitle string) bool {
	n := len(line)
	if n <= c.cfg.DescWeakMinLen {
		return false
	}
	lower := strings.ToLower(line)

	if n > c.cfg.DescStrongMinLen {
		for _, p := range strongDescPhrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
		if monthMention.MatchString(line) {
			return true
		}
		if strings.Contains(lower, "single") {
			for _, q := range singleContext {
				if strings.Contains(lower, q) {
					return true
				}
			}
		}
	}

	if normTitle != "" && strings.Contains(match.Normalize(line), normTitle) {
		for _, p := range weakDescPhrases {
			if strings.Contains(lower, p) {
				return true
			}
		}
	}
	return false
}

var spaceTabRuns = regexp.MustCompile(`[ \t]+`)

// collapseWhitespace normalizes each line, collapses runs of blank lines to
// a single blank, and trims blank lines at both ends.
func collapseWhitespace(lines []string) string {
	var out []string
	blank := true // swallow leading blanks
	for _, line := range lines {
		line = strings.TrimSpace(spaceTabRuns.ReplaceAllString(line, " "))
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	// Trim trailing blank
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

package genius

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/PuerkitoBio/goquery"
)

// TrackEntry is one (position, raw title) pair from an album page.
type TrackEntry struct {
	Number int
	Title  string
}

// Track numbers outside this range are treated as walk noise.
const maxTrackNumber = 50

// ExtractTracklist parses an album page. Primary method: the embedded
// preloaded-state JSON blob. Fallback: visible tracklist rows. Returns
// entries sorted by track number, first seen per number wins.
func ExtractTracklist(html string) ([]TrackEntry, error) {
	if state, ok := extractPreloadedState(html); ok {
		if entries := tracksFromState(state); len(entries) > 0 {
			return entries, nil
		}
	}

	entries, err := tracksFromRows(html)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("could not extract tracklist from album page; the page structure may have changed")
	}
	return entries, nil
}

// Album pages embed a large JSON state blob:
//
//	window.__PRELOADED_STATE__ = JSON.parse("...escaped json...");
var preloadedStateRE = regexp.MustCompile(`window\.__PRELOADED_STATE__\s*=\s*JSON\.parse\("((?s:.+?))"\);`)

func extractPreloadedState(html string) (any, bool) {
	m := preloadedStateRE.FindStringSubmatch(html)
	if m == nil {
		return nil, false
	}

	unescaped, ok := unescapeJSString(m[1])
	if !ok {
		return nil, false
	}

	var state any
	if err := json.Unmarshal([]byte(unescaped), &state); err != nil {
		return nil, false
	}
	return state, true
}

// unescapeJSString decodes the body of a JS string literal. strconv.Unquote
// is not usable here: JS allows identity escapes like \/ that Go rejects.
// Unknown escapes pass through unchanged.
func unescapeJSString(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		switch s[i] {
		case '"', '\'', '/', '\\':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '0':
			b.WriteByte(0)
		case 'u':
			if i+4 >= len(s) {
				return "", false
			}
			v, err := strconv.ParseUint(s[i+1:i+5], 16, 32)
			if err != nil {
				return "", false
			}
			i += 4
			r := rune(v)
			// Combine UTF-16 surrogate pairs.
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if v2, err := strconv.ParseUint(s[i+3:i+7], 16, 32); err == nil {
					if combined := utf16.DecodeRune(r, rune(v2)); combined != 0xFFFD {
						r = combined
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), true
}

// tracksFromState walks the decoded state for anything track-shaped:
// objects carrying a track_number/number and a title/name.
func tracksFromState(state any) []TrackEntry {
	found := make(map[int]string)

	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case map[string]any:
			for _, numKey := range []string{"track_number", "number"} {
				n, okN := x[numKey].(float64)
				if !okN {
					continue
				}
				title := stringField(x, "title")
				if title == "" {
					title = stringField(x, "name")
				}
				num := int(n)
				if title != "" && num >= 1 && num <= maxTrackNumber {
					if _, exists := found[num]; !exists {
						found[num] = title
					}
				}
			}
			// Walk children in key order so "first seen per number"
			// is deterministic across runs.
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(x[k])
			}
		case []any:
			for _, child := range x {
				walk(child)
			}
		}
	}
	walk(state)

	return sortedEntries(found)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

var trackRowRE = regexp.MustCompile(`^(\d+)\.?\s+(.+)$`)

// tracksFromRows is the best-effort HTML fallback: tracklist rows rendered
// as "N. Title" text.
func tracksFromRows(html string) ([]TrackEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse album page: %w", err)
	}

	found := make(map[int]string)
	for _, selector := range []string{".chart_row", ".track_listing-track", "[class*='Tracklist'] li"} {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.Join(strings.Fields(sel.Text()), " ")
			m := trackRowRE.FindStringSubmatch(text)
			if m == nil {
				return
			}
			num, _ := strconv.Atoi(m[1])
			title := strings.TrimSpace(m[2])
			if title != "" && num >= 1 && num <= maxTrackNumber {
				if _, exists := found[num]; !exists {
					found[num] = title
				}
			}
		})
		if len(found) > 0 {
			break
		}
	}

	return sortedEntries(found), nil
}

func sortedEntries(found map[int]string) []TrackEntry {
	entries := make([]TrackEntry, 0, len(found))
	for num, title := range found {
		entries = append(entries, TrackEntry{Number: num, Title: title})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries
}

package genius

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLyrics pulls the raw lyric text out of a song page. Current pages
// render lyrics in data-lyrics-container blocks; very old pages use a
// .lyrics div. Returns "" when neither exists — the caller decides whether
// that is a failure.
func ExtractLyrics(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse song page: %w", err)
	}

	blocks := doc.Find(`div[data-lyrics-container="true"]`)
	if blocks.Length() > 0 {
		var parts []string
		blocks.Each(func(_ int, sel *goquery.Selection) {
			parts = append(parts, blockText(sel))
		})
		return strings.Join(parts, "\n"), nil
	}

	if old := doc.Find(".lyrics").First(); old.Length() > 0 {
		return blockText(old), nil
	}

	return "", nil
}

// blockText extracts a selection's text with <br> tags as newlines, the
// way a browser would render the lyric container.
func blockText(sel *goquery.Selection) string {
	html, err := goquery.OuterHtml(sel)
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}

	html = strings.ReplaceAll(html, "<br>", "\n")
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br />", "\n")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(doc.Text())
}

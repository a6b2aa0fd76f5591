package lyrics

import (
	"strings"
	"testing"
)

func newTestCleaner() *Cleaner {
	return NewCleaner(DefaultCleanerConfig())
}

func TestCleanEmptyInput(t *testing.T) {
	c := newTestCleaner()
	for _, in := range []string{"", "   ", "\n\n\n", "\r\n \r\n"} {
		if got := c.Clean(in, "Anything"); got != "" {
			t.Errorf("Clean(%q) = %q, want empty", in, got)
		}
	}
}

func TestCleanSectionLabels(t *testing.T) {
	c := newTestCleaner()
	got := c.Clean("[Chorus: A, B]\nI love you\n[Verse]\nYou love me", "Song")
	want := "I love you\nYou love me"
	if got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestCleanMultilineSectionLabel(t *testing.T) {
	c := newTestCleaner()
	in := "[Chorus: Artist One,\nArtist Two & Artist Three]\nI love you"
	got := c.Clean(in, "Song")
	if got != "I love you" {
		t.Errorf("Clean = %q, want %q", got, "I love you")
	}
}

func TestCleanInlineLabelKeepsLyric(t *testing.T) {
	c := newTestCleaner()
	got := c.Clean("[Intro] Yeah, yeah", "Song")
	if got != "Yeah, yeah" {
		t.Errorf("Clean = %q, want %q", got, "Yeah, yeah")
	}
}

func TestCleanLeadingBlurb(t *testing.T) {
	c := newTestCleaner()
	in := strings.Join([]string{
		"Title is the lead single from the album, released in 2023.",
		"I love you",
		"You love me",
	}, "\n")
	got := c.Clean(in, "Title")
	want := "I love you\nYou love me"
	if got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestCleanEllipsisBlurb(t *testing.T) {
	c := newTestCleaner()
	in := "Read more about this track…\nI love you"
	if got := c.Clean(in, "Song"); got != "I love you" {
		t.Errorf("Clean = %q, want %q", got, "I love you")
	}
}

func TestCleanTitleEcho(t *testing.T) {
	c := newTestCleaner()
	tests := []struct {
		name  string
		title string
		echo  string
	}{
		{"upper case ascii quote", "Don't Be Dumb", "DON'T BE DUMB LYRICS"},
		{"smart quote", "Don't Be Dumb", "Don’t Be Dumb Lyrics"},
		{"em dash title", "Run – Hide", "Run — Hide Lyrics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.echo + "\nI love you"
			if got := c.Clean(in, tt.title); got != "I love you" {
				t.Errorf("Clean = %q, want %q", got, "I love you")
			}
		})
	}
}

func TestCleanContributorAndTranslationLines(t *testing.T) {
	c := newTestCleaner()
	in := strings.Join([]string{
		"118 Contributors",
		"Translations",
		"Türkçe",
		"Português",
		"Deutsch",
		"I love you",
	}, "\n")
	if got := c.Clean(in, "Song"); got != "I love you" {
		t.Errorf("Clean = %q, want %q", got, "I love you")
	}
}

func TestCleanTrailingBoilerplate(t *testing.T) {
	c := newTestCleaner()
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "you might also like",
			in:   "I love you\nYou might also like\nOther Song by Someone\nMore junk",
		},
		{
			name: "embed marker",
			in:   "I love you\n347Embed\ntrailing junk",
		},
		{
			name: "bare embed",
			in:   "I love you\nEmbed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Clean(tt.in, "Song"); got != "I love you" {
				t.Errorf("Clean = %q, want %q", got, "I love you")
			}
		})
	}
}

func TestCleanDescriptionLinesAnywhere(t *testing.T) {
	c := newTestCleaner()
	tests := []struct {
		name string
		line string
		keep bool
	}{
		{
			name: "strong phrase long line",
			line: "The song was released to streaming platforms alongside the album.",
			keep: false,
		},
		{
			name: "premiered long line",
			line: "The accompanying video premiered the same week to wide acclaim online.",
			keep: false,
		},
		{
			name: "month with year",
			line: "The track first surfaced in a snippet posted during August 2025 sessions.",
			keep: false,
		},
		{
			name: "single with context",
			line: "It serves as the lead single for his long-delayed fourth studio effort.",
			keep: false,
		},
		{
			name: "short lyric with single",
			line: "I'm single now",
			keep: true,
		},
		{
			name: "short lyric with released",
			line: "released from my chains",
			keep: true,
		},
		{
			name: "long lyric without signals",
			line: "and I keep on running down the boulevard chasing every light we had",
			keep: true,
		},
		{
			name: "lyric mentioning may without date",
			line: "you may never know the way I felt when everything was falling down",
			keep: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "I love you\n" + tt.line + "\nYou love me"
			got := c.Clean(in, "Song")
			has := strings.Contains(got, strings.TrimSpace(spaceTabRuns.ReplaceAllString(tt.line, " ")))
			if has != tt.keep {
				t.Errorf("line kept = %v, want %v (output %q)", has, tt.keep, got)
			}
		})
	}
}

func TestCleanWeakPhraseNeedsTitle(t *testing.T) {
	c := newTestCleaner()

	// Weak signal + title on a long line: dropped.
	in := "Highjack appears on the album alongside several collaborations here\nI love you"
	if got := c.Clean(in, "Highjack"); got != "I love you" {
		t.Errorf("Clean = %q, want %q", got, "I love you")
	}

	// Same line without the title present: kept.
	in = "This appears on the album alongside several collaborations here\nI love you"
	got := c.Clean(in, "Highjack")
	if !strings.Contains(got, "appears on the album") {
		t.Errorf("weak phrase without title should be kept, got %q", got)
	}
}

func TestCleanCollapsesBlankRuns(t *testing.T) {
	c := newTestCleaner()
	in := "I love you\n\n\n\nYou love me\n"
	want := "I love you\n\nYou love me"
	if got := c.Clean(in, "Song"); got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestCleanNormalizesLineEndings(t *testing.T) {
	c := newTestCleaner()
	in := "I love you\r\nYou love me\rWe agree"
	want := "I love you\nYou love me\nWe agree"
	if got := c.Clean(in, "Song"); got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestCleanIdempotent(t *testing.T) {
	c := newTestCleaner()
	inputs := []string{
		"[Chorus: A, B]\nI love you\n[Verse]\nYou love me",
		strings.Join([]string{
			"118 Contributors",
			"Highjack is the lead single from the album, released in 2023.",
			"HIGHJACK LYRICS",
			"[Verse 1]",
			"I love you",
			"",
			"You love me",
			"You might also like",
			"Embed",
		}, "\n"),
		"plain lyric text\nwith two lines",
		// Junk lines ahead of a blurb sitting right at the edge of the
		// head window: the junk must not consume window slots.
		strings.Join([]string{
			"Translations",
			"line one of the verse",
			"line two of the verse",
			"line three of the verse",
			"line four of the verse",
			"line five of the verse",
			"line six of the verse",
			"line seven of the verse",
			"Read more about the recording sessions here…",
			"line eight of the verse",
		}, "\n"),
	}
	for _, in := range inputs {
		once := c.Clean(in, "Highjack")
		twice := c.Clean(once, "Highjack")
		if once != twice {
			t.Errorf("Clean not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestCleanFullPage(t *testing.T) {
	c := newTestCleaner()
	in := strings.Join([]string{
		"118 ContributorsTranslations",
		"Türkçe",
		"Español",
		"Highjack Lyrics",
		"Highjack is the second single from the record, released in 2023…",
		"[Intro: A$AP Rocky]",
		"Yeah",
		"",
		"[Verse 1]",
		"I been up all night",
		"No sleep in my eyes",
		"",
		"[Chorus: A$AP Rocky &",
		"Guest]",
		"Highjack the system",
		"You might also like",
		"See A$AP Rocky Live",
		"42Embed",
	}, "\n")

	want := strings.Join([]string{
		"Yeah",
		"",
		"I been up all night",
		"No sleep in my eyes",
		"",
		"Highjack the system",
	}, "\n")

	if got := c.Clean(in, "Highjack"); got != want {
		t.Errorf("Clean =\n%q\nwant\n%q", got, want)
	}
}

// The head-window blurb scan counts surviving lines only; menu junk that
// other filters remove must not shift a blurb out of the window.
func TestCleanBlurbWindowSkipsRemovedJunk(t *testing.T) {
	c := newTestCleaner()
	in := strings.Join([]string{
		"Translations",
		"Türkçe",
		"line one of the verse",
		"line two of the verse",
		"line three of the verse",
		"line four of the verse",
		"line five of the verse",
		"line six of the verse",
		"line seven of the verse",
		"Read more about the recording sessions here…",
		"line eight of the verse",
	}, "\n")

	once := c.Clean(in, "Song")
	if strings.Contains(once, "Read more about") {
		t.Errorf("ellipsis blurb should be dropped on the first pass, got %q", once)
	}
	if twice := c.Clean(once, "Song"); twice != once {
		t.Errorf("Clean not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestStagesOrdered(t *testing.T) {
	c := newTestCleaner()
	want := []string{
		"strip_section_labels",
		"drop_trailing_boilerplate",
		"drop_title_echo",
		"drop_contributor_lines",
		"drop_language_menu",
		"drop_description_lines",
		"drop_leading_blurbs",
	}
	names := c.Stages()
	if len(names) != len(want) {
		t.Fatalf("len(Stages()) = %d, want %d", len(names), len(want))
	}
	for i, name := range names {
		if name != want[i] {
			t.Errorf("Stages()[%d] = %q, want %q", i, name, want[i])
		}
	}
}

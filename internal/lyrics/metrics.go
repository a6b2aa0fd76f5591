package lyrics

import (
	"math"
	"regexp"

	"albumpulse/internal/match"
)

// Metrics are the derived lyric statistics stored alongside the cleaned
// text.
type Metrics struct {
	WordCount       int
	UniqueWordCount int
	RepetitionRatio float64 // 1 - unique/total, in [0,1); 0 for empty text
}

// wordPattern counts every sung token: contractions, numbers, slang.
var wordPattern = regexp.MustCompile(`[a-z0-9]+(?:'[a-z0-9]+)?`)

// Tokenize lowercases and normalizes the text, then splits it into word
// tokens (alphanumeric runs with optional internal apostrophes).
func Tokenize(text string) []string {
	return wordPattern.FindAllString(match.Normalize(text), -1)
}

// ComputeMetrics derives word counts and the repetition ratio from cleaned
// lyric text. Empty input yields zero metrics, never an error.
func (c *Cleaner) ComputeMetrics(text string) Metrics {
	words := Tokenize(text)
	if len(words) == 0 {
		return Metrics{}
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w] = true
	}

	ratio := 1.0 - float64(len(unique))/float64(len(words))
	return Metrics{
		WordCount:       len(words),
		UniqueWordCount: len(unique),
		RepetitionRatio: roundTo(ratio, c.cfg.MetricsPrecision),
	}
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

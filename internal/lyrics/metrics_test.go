package lyrics

import "testing"

func TestComputeMetrics(t *testing.T) {
	c := newTestCleaner()

	tests := []struct {
		name       string
		text       string
		wantWords  int
		wantUnique int
		wantRatio  float64
	}{
		{
			name:       "repeated phrase",
			text:       "I love you I love you",
			wantWords:  6,
			wantUnique: 3,
			wantRatio:  0.5,
		},
		{
			name:       "all unique",
			text:       "one two three four",
			wantWords:  4,
			wantUnique: 4,
			wantRatio:  0,
		},
		{
			name:       "empty",
			text:       "",
			wantWords:  0,
			wantUnique: 0,
			wantRatio:  0,
		},
		{
			name:       "punctuation only",
			text:       "!!! --- ???",
			wantWords:  0,
			wantUnique: 0,
			wantRatio:  0,
		},
		{
			name:       "contractions and numbers",
			text:       "don't stop 'til 2023 don't stop",
			wantWords:  6,
			wantUnique: 4,
			wantRatio:  0.3333,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := c.ComputeMetrics(tt.text)
			if m.WordCount != tt.wantWords {
				t.Errorf("WordCount = %d, want %d", m.WordCount, tt.wantWords)
			}
			if m.UniqueWordCount != tt.wantUnique {
				t.Errorf("UniqueWordCount = %d, want %d", m.UniqueWordCount, tt.wantUnique)
			}
			if m.RepetitionRatio != tt.wantRatio {
				t.Errorf("RepetitionRatio = %v, want %v", m.RepetitionRatio, tt.wantRatio)
			}
		})
	}
}

func TestRepetitionRatioBounds(t *testing.T) {
	c := newTestCleaner()
	texts := []string{
		"",
		"word",
		"word word word word word word",
		"a b c d e f g a b c",
		"I love you I love you",
	}
	for _, text := range texts {
		m := c.ComputeMetrics(text)
		if m.RepetitionRatio < 0 || m.RepetitionRatio >= 1 {
			t.Errorf("RepetitionRatio(%q) = %v, want in [0,1)", text, m.RepetitionRatio)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Don't stop", []string{"don't", "stop"}},
		{"Don’t stop", []string{"don't", "stop"}},
		{"year 2023!", []string{"year", "2023"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

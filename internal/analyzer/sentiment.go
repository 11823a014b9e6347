package analyzer

import (
	"regexp"
	"strings"

	"github.com/newswatchhq/newswatch/internal/models"
)

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// SentimentScorer assigns a signed lexical polarity score to text. It is
// deterministic for a given lexicon: the score is the sum of the signed
// weights of every matching token, matched words are reported back, and
// the comparative is the score normalized by token count.
type SentimentScorer struct {
	lexicon map[string]int
}

// NewSentimentScorer creates a scorer backed by the given word lexicon.
// A nil or empty lexicon falls back to the built-in one.
func NewSentimentScorer(lexicon map[string]int) *SentimentScorer {
	if len(lexicon) == 0 {
		lexicon = defaultSentimentLexicon()
	}
	return &SentimentScorer{lexicon: lexicon}
}

// Analyze scores a text blob. Empty text yields a zero result.
func (s *SentimentScorer) Analyze(text string) models.SentimentDetail {
	words := tokenize(text)

	detail := models.SentimentDetail{
		Positive: []string{},
		Negative: []string{},
	}

	for _, word := range words {
		weight, ok := s.lexicon[word]
		if !ok {
			continue
		}
		detail.Score += weight
		if weight > 0 {
			detail.Positive = append(detail.Positive, word)
		} else if weight < 0 {
			detail.Negative = append(detail.Negative, word)
		}
	}

	if len(words) > 0 {
		detail.Comparative = float64(detail.Score) / float64(len(words))
	}

	return detail
}

// tokenize lower-cases text, strips punctuation and splits on whitespace.
func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	return strings.Fields(text)
}

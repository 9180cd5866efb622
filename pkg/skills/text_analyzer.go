package skills

import (
	"context"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

var (
	sentencePattern = regexp.MustCompile(`[.!?]+`)
	urlPattern      = regexp.MustCompile(`https?://[^\s]+`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern    = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

var (
	positiveWords = map[string]bool{
		"good": true, "great": true, "excellent": true, "nice": true,
		"love": true, "happy": true, "awesome": true,
	}
	negativeWords = map[string]bool{
		"bad": true, "terrible": true, "awful": true, "hate": true,
		"sad": true, "angry": true, "poor": true,
	}
)

// TextAnalyzer analyzes text for statistics, sentiment, and patterns.
//
// Actions:
//   - text_stats: word count, character counts, sentence count, averages
//   - text_sentiment: basic lexicon-based sentiment classification
//   - text_patterns: find URLs, emails, and phone numbers
type TextAnalyzer struct {
	skill.Meta
}

// TextAnalyzerInput is the parameter struct shared by all text-analyzer
// actions.
type TextAnalyzerInput struct {
	Text string `json:"text" jsonschema:"description=The text to analyze"`
}

// NewTextAnalyzer creates the text-analyzer skill.
func NewTextAnalyzer() *TextAnalyzer {
	return &TextAnalyzer{
		Meta: skill.NewMeta("text-analyzer", "1.0.0", "Analyze text for statistics, sentiment, and patterns"),
	}
}

// ActionSchemas returns the parameter schema for each supported action.
func (s *TextAnalyzer) ActionSchemas() map[string]*jsonschema.Schema {
	input := skill.GenerateSchema[TextAnalyzerInput]()
	return map[string]*jsonschema.Schema{
		"text_stats":     input,
		"text_sentiment": input,
		"text_patterns":  input,
	}
}

// Process runs one text analysis action.
func (s *TextAnalyzer) Process(_ context.Context, action string, params skill.Params) (skill.Params, error) {
	var input TextAnalyzerInput
	if err := decodeParams(params, &input); err != nil {
		return nil, err
	}
	if input.Text == "" {
		return nil, errors.New("missing required parameter: text")
	}

	switch action {
	case "text_stats":
		return s.stats(input.Text), nil
	case "text_sentiment":
		return s.sentiment(input.Text), nil
	case "text_patterns":
		return s.patterns(input.Text), nil
	default:
		return nil, errors.Errorf("unknown action: %s", action)
	}
}

func (s *TextAnalyzer) stats(text string) skill.Params {
	words := strings.Fields(text)

	sentences := 0
	for _, part := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	totalWordLength := 0
	for _, w := range words {
		totalWordLength += utf8.RuneCountInString(w)
	}
	avgWordLength := 0.0
	if len(words) > 0 {
		avgWordLength = float64(totalWordLength) / float64(len(words))
	}

	sentenceDenom := sentences
	if sentenceDenom < 1 {
		sentenceDenom = 1
	}

	return skill.Params{
		"word_count":             len(words),
		"char_count":             utf8.RuneCountInString(text),
		"char_count_no_spaces":   utf8.RuneCountInString(strings.ReplaceAll(text, " ", "")),
		"sentence_count":         sentences,
		"avg_word_length":        avgWordLength,
		"avg_words_per_sentence": float64(len(words)) / float64(sentenceDenom),
	}
}

func (s *TextAnalyzer) sentiment(text string) skill.Params {
	positive, negative := 0, 0
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if positiveWords[w] {
			positive++
		}
		if negativeWords[w] {
			negative++
		}
	}

	sentiment := "neutral"
	switch {
	case positive > negative:
		sentiment = "positive"
	case negative > positive:
		sentiment = "negative"
	}

	denom := positive + negative
	if denom < 1 {
		denom = 1
	}

	return skill.Params{
		"sentiment":      sentiment,
		"positive_words": positive,
		"negative_words": negative,
		"confidence":     math.Abs(float64(positive-negative)) / float64(denom),
	}
}

func (s *TextAnalyzer) patterns(text string) skill.Params {
	urls := nonNil(urlPattern.FindAllString(text, -1))
	emails := nonNil(emailPattern.FindAllString(text, -1))
	phones := nonNil(phonePattern.FindAllString(text, -1))

	return skill.Params{
		"urls":           urls,
		"emails":         emails,
		"phone_numbers":  phones,
		"patterns_found": len(urls) + len(emails) + len(phones),
	}
}

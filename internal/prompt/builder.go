// Package prompt assembles the text sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"qbank/internal/domain"
	"qbank/internal/locale"
)

// DefaultExcerptLimit is the number of characters of document text embedded in a prompt.
const DefaultExcerptLimit = 30000

// IntentClassifier decides whether an utterance asks for generated questions.
type IntentClassifier interface {
	WantsQuestions(utterance string) bool
}

// KeywordClassifier matches any trigger as a case-insensitive substring.
type KeywordClassifier struct {
	triggers []string
}

func NewKeywordClassifier(triggers []string) KeywordClassifier {
	lowered := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lowered = append(lowered, t)
		}
	}
	return KeywordClassifier{triggers: lowered}
}

func (k KeywordClassifier) WantsQuestions(utterance string) bool {
	u := strings.ToLower(utterance)
	for _, t := range k.triggers {
		if strings.Contains(u, t) {
			return true
		}
	}
	return false
}

// Prompt is the assembled model input.
type Prompt struct {
	Text string
	// Generation is true when the format instruction was appended.
	Generation bool
}

// Builder is stateless and safe for concurrent use.
type Builder struct {
	bundle       locale.Bundle
	classifier   IntentClassifier
	excerptLimit int
}

type Option func(*Builder)

// WithClassifier replaces the keyword classifier.
func WithClassifier(c IntentClassifier) Option {
	return func(b *Builder) { b.classifier = c }
}

// WithExcerptLimit overrides DefaultExcerptLimit. Non-positive values are ignored.
func WithExcerptLimit(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.excerptLimit = n
		}
	}
}

func NewBuilder(bundle locale.Bundle, opts ...Option) *Builder {
	b := &Builder{
		bundle:       bundle,
		classifier:   NewKeywordClassifier(bundle.Triggers),
		excerptLimit: DefaultExcerptLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the prompt for utterance against documentText.
func (b *Builder) Build(documentText, utterance string, settings domain.GenerationSettings) Prompt {
	var sb strings.Builder
	sb.WriteString("Context: Expert educational AI.\n")
	fmt.Fprintf(&sb, "Content: %s...\n", Excerpt(documentText, b.excerptLimit))
	fmt.Fprintf(&sb, "User Request: %s\n", utterance)

	if !b.classifier.WantsQuestions(utterance) {
		return Prompt{Text: sb.String()}
	}

	sep := b.bundle.Separator
	fmt.Fprintf(&sb, "\nINSTRUCTION: Generate %s questions of type %s.\n", settings.Difficulty, settings.QuestionType)
	sb.WriteString("OUTPUT PATTERN:\n")
	fmt.Fprintf(&sb, "%s [Question] %s [Opt A] %s [Opt B] %s [Opt C] %s [Opt D] %s [Correct Answer] %s\n",
		b.bundle.OpenMarker, sep, sep, sep, sep, sep, b.bundle.CloseMarker)
	fmt.Fprintf(&sb, "Rules: Use %q separator. Language: %s.\n", sep, b.bundle.Language)
	return Prompt{Text: sb.String(), Generation: true}
}

// Excerpt returns the first limit characters of text. Cuts fall on rune
// boundaries, never mid-character.
func Excerpt(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}

// Package parser harvests quiz questions out of free-form model replies.
//
// A question is a delimited block: an opening marker, a body of fields joined
// by a separator, and a closing marker. Blocks with fewer than three fields
// are dropped without error.
package parser

import (
	"strings"
	"time"

	"qbank/internal/domain"
	"qbank/internal/locale"
)

const minFields = 3

// Result of parsing one reply.
type Result struct {
	Questions []domain.Question
	// Display is what the transcript shows: a count summary when at least one
	// question was found, otherwise the reply unchanged.
	Display string
	// Dropped counts blocks discarded for having too few fields.
	Dropped int
}

// Parser is safe for concurrent use as long as its IDGenerator is.
type Parser struct {
	open, close, sep string
	summary          func(int) string
	ids              domain.IDGenerator
	now              func() time.Time
}

// New creates a parser using the markers and wording of bundle.
func New(bundle locale.Bundle, ids domain.IDGenerator) *Parser {
	return &Parser{
		open:    bundle.OpenMarker,
		close:   bundle.CloseMarker,
		sep:     bundle.Separator,
		summary: bundle.Summary,
		ids:     ids,
		now:     time.Now,
	}
}

// Parse scans text for delimited blocks in source order.
func (p *Parser) Parse(text string) Result {
	var res Result
	for _, body := range p.blocks(text) {
		fields := strings.Split(body, p.sep)
		if len(fields) < minFields {
			res.Dropped++
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		last := len(fields) - 1
		res.Questions = append(res.Questions, domain.Question{
			ID:        p.ids.NewID(),
			Prompt:    fields[0],
			Options:   append([]string{}, fields[1:last]...),
			AnswerKey: fields[last],
			CreatedAt: p.now(),
		})
	}

	if len(res.Questions) > 0 {
		res.Display = p.summary(len(res.Questions))
	} else {
		res.Display = text
	}
	return res
}

// blocks returns the bodies between each opening marker and the nearest
// following closing marker. An opening marker without a close ends the scan.
func (p *Parser) blocks(text string) []string {
	var out []string
	rest := text
	for {
		start := strings.Index(rest, p.open)
		if start < 0 {
			return out
		}
		rest = rest[start+len(p.open):]

		end := strings.Index(rest, p.close)
		if end < 0 {
			return out
		}
		out = append(out, rest[:end])
		rest = rest[end+len(p.close):]
	}
}

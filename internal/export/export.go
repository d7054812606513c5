// Package export renders the question bank for download.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"qbank/internal/domain"
)

// Payload is the rendering input: the bank in display order plus its source.
type Payload struct {
	SourceName string            `json:"source_name"`
	ExportedAt time.Time         `json:"exported_at"`
	Questions  []domain.Question `json:"questions"`
}

// Renderer writes a payload in one output format.
type Renderer interface {
	ContentType() string
	FileName(p Payload) string
	Render(w io.Writer, p Payload) error
}

// JSONRenderer writes indented JSON.
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) FileName(p Payload) string {
	return BaseName(p.SourceName) + ".json"
}

func (JSONRenderer) Render(w io.Writer, p Payload) error {
	if p.Questions == nil {
		p.Questions = []domain.Question{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode export payload: %w", err)
	}
	return nil
}

// BaseName is "Q-Bank_<source without extension>", or "Q-Bank" with no source.
func BaseName(sourceName string) string {
	name := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" || name == "." {
		return "Q-Bank"
	}
	return "Q-Bank_" + name
}

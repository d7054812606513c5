package extractor

import (
	"context"

	"qbank/internal/docparse"
	"qbank/internal/domain"
)

// LocalExtractor parses documents in-process.
type LocalExtractor struct {
	parser *docparse.Parser
}

func NewLocalExtractor(limits docparse.Limits) *LocalExtractor {
	return &LocalExtractor{parser: docparse.New(limits)}
}

func (e *LocalExtractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.NewExtractionError("extraction cancelled", err)
	}
	text, err := e.parser.Extract(file.Name, file.Data)
	if err != nil {
		return "", domain.NewExtractionError("document could not be parsed", err)
	}
	return text, nil
}

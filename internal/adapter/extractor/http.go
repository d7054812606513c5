// Package extractor adapts text extraction services to domain.TextExtractor.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"qbank/internal/domain"
	"qbank/internal/logger"
)

// ExtractPath is the route of the extraction service.
const ExtractPath = "/extract-text"

// maxResponseBytes bounds how much of a reply body is read.
const maxResponseBytes = 64 << 20

// Response is the wire format of the extraction service: exactly one of
// Text or Error is set.
type Response struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// HTTPExtractor posts documents to a remote extraction service as the
// multipart field "file".
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExtractor(baseURL string, timeout time.Duration) *HTTPExtractor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPExtractor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, file domain.UploadedFile) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", file.Name)
	if err != nil {
		return "", domain.NewExtractionError("failed to build upload", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", domain.NewExtractionError("failed to build upload", err)
	}
	if err := mw.Close(); err != nil {
		return "", domain.NewExtractionError("failed to build upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+ExtractPath, &body)
	if err != nil {
		return "", domain.NewExtractionError("failed to build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", domain.NewExtractionError("extraction service unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", domain.NewExtractionError("failed to read extraction response", err)
	}

	var out Response
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Get().Warn("Extraction service returned non-JSON body",
			zap.Int("status", resp.StatusCode), zap.Int("bytes", len(raw)))
		return "", domain.NewExtractionError(fmt.Sprintf("unexpected extraction response (status %d)", resp.StatusCode), err)
	}
	if out.Error != "" {
		return "", domain.NewExtractionError(out.Error, nil).WithContext("status", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewExtractionError(fmt.Sprintf("extraction service returned status %d", resp.StatusCode), nil)
	}
	return out.Text, nil
}

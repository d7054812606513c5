package handler

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"qbank/internal/adapter/extractor"
	"qbank/internal/docparse"
	"qbank/internal/logger"
)

// ExtractHandler serves the standalone text extraction endpoint
type ExtractHandler struct {
	parser *docparse.Parser
}

func NewExtractHandler(parser *docparse.Parser) *ExtractHandler {
	return &ExtractHandler{parser: parser}
}

// ExtractText godoc
// @Summary Extract plain text from a document
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 200 {object} extractor.Response
// @Failure 400 {object} extractor.Response
// @Failure 500 {object} extractor.Response
// @Router /extract-text [post]
func (h *ExtractHandler) ExtractText(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(extractor.Response{Error: "No file uploaded"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(extractor.Response{Error: err.Error()})
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(extractor.Response{Error: err.Error()})
	}

	text, err := h.parser.Extract(fh.Filename, buf.Bytes())
	if err != nil {
		logger.Get().Warn("Text extraction failed", zap.String("file", fh.Filename), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(extractor.Response{Error: err.Error()})
	}
	logger.Get().Info("Text extracted", zap.String("file", fh.Filename), zap.Int("bytes", len(text)))
	return c.JSON(extractor.Response{Text: text})
}

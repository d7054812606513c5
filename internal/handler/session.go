package handler

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"qbank/internal/domain"
	"qbank/internal/dto"
	"qbank/internal/export"
	"qbank/internal/logger"
	"qbank/internal/middleware"
	"qbank/internal/session"
	"qbank/internal/validation"
)

// SessionHandler handles conversation session HTTP requests
type SessionHandler struct {
	sessions  *session.Manager
	validator *validation.Validator
	renderer  export.Renderer
	// wait bounds how long a request blocks for a turn or load; the work
	// itself keeps running and lands in the transcript.
	wait time.Duration
}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler(sessions *session.Manager, v *validation.Validator, renderer export.Renderer, wait time.Duration) *SessionHandler {
	if wait <= 0 {
		wait = 2 * time.Minute
	}
	return &SessionHandler{sessions: sessions, validator: v, renderer: renderer, wait: wait}
}

func (h *SessionHandler) session(c *fiber.Ctx) (*session.Session, error) {
	id, _ := c.Locals(middleware.SessionIDLocal).(string)
	if id == "" {
		id = utils.CopyString(c.Params("id"))
	}
	return h.sessions.Get(id)
}

func (h *SessionHandler) bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Malformed request body")
	}
	if errs := h.validator.Struct(out); len(errs) > 0 {
		return errs
	}
	return nil
}

// CreateSession godoc
// @Summary Start a session
// @Description Creates a conversation session with an empty bank and a welcome notice
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.CreateSessionResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	s, err := h.sessions.Create()
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{SessionID: s.ID()})
}

// GetSession godoc
// @Summary Get session overview
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(snap))
}

// DeleteSession godoc
// @Summary End a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, _ := c.Locals(middleware.SessionIDLocal).(string)
	if err := h.sessions.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetCredential godoc
// @Summary Set the model API key
// @Description The key is held in memory for this session only
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param body body dto.CredentialRequest true "Credential"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /sessions/{id}/credential [put]
func (h *SessionHandler) SetCredential(c *fiber.Ctx) error {
	var req dto.CredentialRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.SetCredential(req.APIKey); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateSettings godoc
// @Summary Change generation settings
// @Description Affects prompts built after the change only
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body dto.SettingsDTO true "Settings"
// @Success 200 {object} dto.SettingsDTO
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /sessions/{id}/settings [put]
func (h *SessionHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.SettingsDTO
	if err := h.bind(c, &req); err != nil {
		return err
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.UpdateSettings(req.ToDomain()); err != nil {
		return err
	}
	return c.JSON(req)
}

// SetDraft godoc
// @Summary Save the unsent input
// @Tags sessions
// @Accept json
// @Param id path string true "Session ID"
// @Param body body dto.DraftRequest true "Draft"
// @Success 204
// @Router /sessions/{id}/draft [put]
func (h *SessionHandler) SetDraft(c *fiber.Ctx) error {
	var req dto.DraftRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.SetDraft(req.Draft); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadDocument godoc
// @Summary Load a document
// @Description Extracts the text of the uploaded file and makes it the session's source material. A failed extraction keeps the previous document.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param file formData file true "Document"
// @Success 200 {object} dto.DocumentResponse
// @Success 202 {object} dto.DocumentResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/document [post]
func (h *SessionHandler) UploadDocument(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewInvalidInputError("No file uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return domain.NewInternalError("Failed to read upload", err)
	}
	defer f.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, f); err != nil {
		return domain.NewInternalError("Failed to read upload", err)
	}

	results, err := s.LoadDocument(c.UserContext(), domain.UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        buf.Bytes(),
	})
	if err != nil {
		return err
	}

	select {
	case r := <-results:
		return c.JSON(dto.NewDocumentResponse(r))
	case <-time.After(h.wait):
		logger.Get().Warn("Document load still running", zap.String("session_id", s.ID()))
		return c.Status(fiber.StatusAccepted).JSON(dto.DocumentResponse{Status: dto.StatusPending, SourceName: fh.Filename})
	}
}

// SendTurn godoc
// @Summary Send a message
// @Description Appends the message to the transcript, asks the model and harvests any questions from its reply. A failed model call returns status "failed" with the failure notice as the reply.
// @Tags turns
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body dto.TurnRequest true "Message"
// @Success 200 {object} dto.TurnResponse
// @Success 202 {object} dto.TurnResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 428 {object} middleware.ErrorResponse
// @Router /sessions/{id}/turns [post]
func (h *SessionHandler) SendTurn(c *fiber.Ctx) error {
	var req dto.TurnRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	s, err := h.session(c)
	if err != nil {
		return err
	}
	results, err := s.SendTurn(c.UserContext(), req.Message)
	if err != nil {
		return err
	}

	select {
	case r := <-results:
		return c.JSON(dto.NewTurnResponse(r))
	case <-time.After(h.wait):
		logger.Get().Warn("Turn still awaiting the model", zap.String("session_id", s.ID()))
		return c.Status(fiber.StatusAccepted).JSON(dto.TurnResponse{Status: dto.StatusPending, Questions: []dto.QuestionDTO{}})
	}
}

// GetMessages godoc
// @Summary Get the transcript
// @Tags turns
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.MessagesResponse
// @Router /sessions/{id}/messages [get]
func (h *SessionHandler) GetMessages(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return c.JSON(dto.MessagesResponse{Messages: dto.NewMessageDTOs(snap.Messages)})
}

// GetQuestions godoc
// @Summary Get the question bank
// @Description Newest batch first
// @Tags questions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuestionsResponse
// @Router /sessions/{id}/questions [get]
func (h *SessionHandler) GetQuestions(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	return c.JSON(dto.QuestionsResponse{SourceName: snap.SourceName, Questions: dto.NewQuestionDTOs(snap.Questions)})
}

// RemoveQuestion godoc
// @Summary Remove one question
// @Description Removing an unknown question is not an error
// @Tags questions
// @Param id path string true "Session ID"
// @Param questionId path string true "Question ID"
// @Success 204
// @Router /sessions/{id}/questions/{questionId} [delete]
func (h *SessionHandler) RemoveQuestion(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if _, err := s.RemoveQuestion(c.Params("questionId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearQuestions godoc
// @Summary Empty the question bank
// @Tags questions
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id}/questions [delete]
func (h *SessionHandler) ClearQuestions(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.ClearQuestions(); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export godoc
// @Summary Download the question bank
// @Tags questions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} export.Payload
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	payload, err := s.Export()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, payload); err != nil {
		return domain.NewInternalError("Failed to render export", err)
	}
	c.Set(fiber.HeaderContentType, h.renderer.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", h.renderer.FileName(payload)))
	return c.Send(buf.Bytes())
}

package dto

import (
	"time"

	"qbank/internal/domain"
	"qbank/internal/session"
)

// CreateSessionResponse represents a newly created session
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SettingsDTO carries generation settings in both directions
type SettingsDTO struct {
	Difficulty   string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	QuestionType string `json:"question_type" validate:"required,oneof=mixed multiple-choice true-false"`
}

func (s SettingsDTO) ToDomain() domain.GenerationSettings {
	return domain.GenerationSettings{
		Difficulty:   domain.Difficulty(s.Difficulty),
		QuestionType: domain.QuestionType(s.QuestionType),
	}
}

// SessionResponse is the session overview without transcript or bank
type SessionResponse struct {
	ID              string      `json:"id"`
	State           string      `json:"state"`
	DocumentLoading bool        `json:"document_loading"`
	SourceName      string      `json:"source_name,omitempty"`
	HasDocument     bool        `json:"has_document"`
	HasCredential   bool        `json:"has_credential"`
	Settings        SettingsDTO `json:"settings"`
	Draft           string      `json:"draft,omitempty"`
	MessageCount    int         `json:"message_count"`
	QuestionCount   int         `json:"question_count"`
	LastActivity    time.Time   `json:"last_activity"`
}

// CredentialRequest sets the model API key of a session
type CredentialRequest struct {
	APIKey string `json:"api_key" validate:"required,max=512"`
}

// DraftRequest stores the unsent input of a session
type DraftRequest struct {
	Draft string `json:"draft" validate:"max=20000"`
}

// TurnRequest represents one user utterance. Blank messages are rejected by the session.
type TurnRequest struct {
	Message string `json:"message" validate:"max=20000"`
}

// MessageDTO is one transcript entry
type MessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionDTO is one bank entry
type QuestionDTO struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options"`
	AnswerKey string    `json:"answer_key"`
	CreatedAt time.Time `json:"created_at"`
}

// TurnResponse reports a finished turn. A failed model call still returns
// 200: the failure notice is the reply and Error carries its code.
type TurnResponse struct {
	Status    string        `json:"status"`
	Reply     MessageDTO    `json:"reply"`
	Questions []QuestionDTO `json:"questions"`
	Error     string        `json:"error,omitempty"`
}

// DocumentResponse reports a finished document load
type DocumentResponse struct {
	Status     string `json:"status"`
	SourceName string `json:"source_name"`
	Characters int    `json:"characters,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MessagesResponse is the full transcript
type MessagesResponse struct {
	Messages []MessageDTO `json:"messages"`
}

// QuestionsResponse is the bank, newest first
type QuestionsResponse struct {
	SourceName string        `json:"source_name,omitempty"`
	Questions  []QuestionDTO `json:"questions"`
}

// HealthResponse represents the health endpoint payload
type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Cache    string `json:"cache"`
}

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

func NewSessionResponse(s session.Snapshot) SessionResponse {
	return SessionResponse{
		ID:              s.ID,
		State:           string(s.State),
		DocumentLoading: s.DocumentLoading,
		SourceName:      s.SourceName,
		HasDocument:     s.HasDocument,
		HasCredential:   s.HasCredential,
		Settings: SettingsDTO{
			Difficulty:   string(s.Settings.Difficulty),
			QuestionType: string(s.Settings.QuestionType),
		},
		Draft:         s.Draft,
		MessageCount:  len(s.Messages),
		QuestionCount: len(s.Questions),
		LastActivity:  s.LastActivity,
	}
}

func NewMessageDTO(m domain.Message) MessageDTO {
	return MessageDTO{Role: string(m.Role), Content: m.Content, CreatedAt: m.CreatedAt}
}

func NewMessageDTOs(msgs []domain.Message) []MessageDTO {
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = NewMessageDTO(m)
	}
	return out
}

func NewQuestionDTOs(qs []domain.Question) []QuestionDTO {
	out := make([]QuestionDTO, len(qs))
	for i, q := range qs {
		opts := q.Options
		if opts == nil {
			opts = []string{}
		}
		out[i] = QuestionDTO{ID: q.ID, Prompt: q.Prompt, Options: opts, AnswerKey: q.AnswerKey, CreatedAt: q.CreatedAt}
	}
	return out
}

func NewTurnResponse(r session.TurnResult) TurnResponse {
	resp := TurnResponse{
		Status:    StatusOK,
		Reply:     NewMessageDTO(r.Reply),
		Questions: NewQuestionDTOs(r.Questions),
	}
	if r.Err != nil {
		resp.Status = StatusFailed
		resp.Error = string(domain.CodeOf(r.Err))
	}
	return resp
}

func NewDocumentResponse(r session.LoadResult) DocumentResponse {
	resp := DocumentResponse{Status: StatusOK, SourceName: r.SourceName, Characters: r.Characters}
	if r.Err != nil {
		resp.Status = StatusFailed
		resp.Error = string(domain.CodeOf(r.Err))
	}
	return resp
}

// Package session runs the conversation state machine for one user: the
// loaded document, the transcript, generation settings and the question bank.
//
// All state is owned by a single dispatch goroutine. Public methods post
// closures to it; document extraction and model calls run on their own
// goroutines and post their completion back, so the loop never waits on I/O.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"qbank/internal/domain"
	"qbank/internal/export"
	"qbank/internal/locale"
	"qbank/internal/logger"
	"qbank/internal/parser"
	"qbank/internal/prompt"
	"qbank/internal/store"
)

// State of the turn lane. Document loading runs in its own lane and is
// reported separately.
type State string

const (
	StateIdle          State = "idle"
	StateReady         State = "ready"
	StateAwaitingModel State = "awaiting_model"
)

// TurnResult reports the outcome of an accepted turn. Err is set when the
// model call failed; the failure is already in the transcript.
type TurnResult struct {
	Reply     domain.Message
	Questions []domain.Question
	Dropped   int
	Err       error
}

// LoadResult reports the outcome of an accepted document load.
type LoadResult struct {
	SourceName string
	Characters int
	Err        error
}

// Deps are the collaborators of a session.
type Deps struct {
	Extractor domain.TextExtractor
	Model     domain.ModelClient
	IDs       domain.IDGenerator
	Locale    locale.Bundle
	// Builder defaults to a keyword-classified builder for Locale.
	Builder *prompt.Builder
}

type Session struct {
	id      string
	deps    Deps
	parser  *parser.Parser
	builder *prompt.Builder
	now     func() time.Time

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	doc          domain.DocumentContext
	messages     []domain.Message
	settings     domain.GenerationSettings
	questions    *store.QuestionStore
	credential   string
	draft        string
	awaiting     bool
	loading      bool
	lastActivity time.Time
}

// New starts a session. The caller must Close it.
func New(id string, deps Deps) *Session {
	builder := deps.Builder
	if builder == nil {
		builder = prompt.NewBuilder(deps.Locale)
	}
	s := &Session{
		id:        id,
		deps:      deps,
		parser:    parser.New(deps.Locale, deps.IDs),
		builder:   builder,
		now:       time.Now,
		cmds:      make(chan func()),
		done:      make(chan struct{}),
		settings:  domain.DefaultGenerationSettings(),
		questions: store.New(),
	}
	s.lastActivity = s.now()
	s.appendMessage(domain.RoleSystem, deps.Locale.Welcome)
	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) loop() {
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-s.done:
			return
		}
	}
}

// exec runs fn on the loop and waits for it.
func (s *Session) exec(fn func()) error {
	ran := make(chan struct{})
	select {
	case s.cmds <- func() { fn(); close(ran) }:
	case <-s.done:
		return domain.NewSessionClosedError()
	}
	<-ran
	return nil
}

// post hands a completion to the loop. It reports false when the session
// closed first and the completion was dropped.
func (s *Session) post(fn func()) bool {
	select {
	case s.cmds <- fn:
		return true
	case <-s.done:
		return false
	}
}

// Close stops the loop. Completions arriving afterwards are dropped.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		logger.Get().Debug("Session closed", zap.String("session_id", s.id))
	})
}

func (s *Session) appendMessage(role domain.Role, content string) domain.Message {
	m := domain.Message{Role: role, Content: content, CreatedAt: s.now()}
	s.messages = append(s.messages, m)
	return m
}

func (s *Session) touch() {
	s.lastActivity = s.now()
}

func (s *Session) state() State {
	switch {
	case s.awaiting:
		return StateAwaitingModel
	case s.doc.Loaded():
		return StateReady
	default:
		return StateIdle
	}
}

// LoadDocument starts extracting file. A second load while one is running is
// rejected. The returned channel yields exactly one result.
func (s *Session) LoadDocument(ctx context.Context, file domain.UploadedFile) (<-chan LoadResult, error) {
	var rejected error
	err := s.exec(func() {
		if s.loading {
			rejected = domain.NewLoadInFlightError()
			return
		}
		s.loading = true
		s.touch()
	})
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		return nil, rejected
	}

	results := make(chan LoadResult, 1)
	go s.runLoad(context.WithoutCancel(ctx), file, results)
	return results, nil
}

func (s *Session) runLoad(ctx context.Context, file domain.UploadedFile, results chan<- LoadResult) {
	log := logger.Get().With(zap.String("session_id", s.id), zap.String("file", file.Name))

	text, err := s.deps.Extractor.Extract(ctx, file)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.NewExtractionError("no text could be extracted from the document", nil)
	}
	if err != nil && domain.CodeOf(err) != domain.CodeExtractionFailed {
		err = domain.NewExtractionError("text extraction failed", err)
	}

	applied := s.post(func() {
		s.loading = false
		s.touch()
		if err != nil {
			log.Warn("Document extraction failed", zap.Error(err))
			s.appendMessage(domain.RoleSystem, s.deps.Locale.ExtractionFailed)
			results <- LoadResult{SourceName: file.Name, Err: err}
			return
		}
		s.doc = domain.DocumentContext{SourceName: file.Name, Text: text}
		s.appendMessage(domain.RoleSystem, s.deps.Locale.DocumentReady(file.Name))
		log.Info("Document loaded", zap.Int("characters", len([]rune(text))))
		results <- LoadResult{SourceName: file.Name, Characters: len([]rune(text))}
	})
	if !applied {
		results <- LoadResult{SourceName: file.Name, Err: domain.NewSessionClosedError()}
	}
}

// SendTurn submits a user utterance. Blank input, a missing document, a
// missing credential and a turn already in flight are rejected without
// touching the transcript. An accepted turn is appended immediately and the
// returned channel yields exactly one result.
func (s *Session) SendTurn(ctx context.Context, utterance string) (<-chan TurnResult, error) {
	var (
		rejected   error
		built      prompt.Prompt
		credential string
	)
	err := s.exec(func() {
		switch {
		case strings.TrimSpace(utterance) == "":
			rejected = domain.NewEmptyUtteranceError()
		case !s.doc.Loaded():
			rejected = domain.NewNoDocumentError()
		case s.credential == "" && s.deps.Model.RequiresCredential():
			rejected = domain.NewMissingCredentialError()
		case s.awaiting:
			rejected = domain.NewTurnInFlightError()
		}
		if rejected != nil {
			return
		}
		s.appendMessage(domain.RoleUser, utterance)
		s.draft = ""
		s.awaiting = true
		s.touch()
		built = s.builder.Build(s.doc.Text, utterance, s.settings)
		credential = s.credential
	})
	if err != nil {
		return nil, err
	}
	if rejected != nil {
		return nil, rejected
	}

	results := make(chan TurnResult, 1)
	go s.runTurn(context.WithoutCancel(ctx), credential, built, results)
	return results, nil
}

func (s *Session) runTurn(ctx context.Context, credential string, p prompt.Prompt, results chan<- TurnResult) {
	log := logger.Get().With(zap.String("session_id", s.id), zap.Bool("generation", p.Generation))

	reply, err := s.deps.Model.Generate(ctx, credential, p.Text)
	var parsed parser.Result
	if err == nil {
		parsed = s.parser.Parse(reply)
		if parsed.Dropped > 0 {
			log.Debug("Dropped malformed question blocks", zap.Int("dropped", parsed.Dropped))
		}
	}

	applied := s.post(func() {
		s.awaiting = false
		s.touch()
		if err != nil {
			notice := s.deps.Locale.ModelCallFailed
			if errors.Is(err, domain.ErrMalformedReply) {
				notice = s.deps.Locale.MalformedReply
			} else if domain.CodeOf(err) != domain.CodeModelCallFailed {
				err = domain.NewModelCallError(err)
			}
			log.Warn("Model call failed", zap.Error(err))
			msg := s.appendMessage(domain.RoleSystem, notice)
			results <- TurnResult{Reply: msg, Err: err}
			return
		}
		msg := s.appendMessage(domain.RoleModel, parsed.Display)
		s.questions.MergeNewBatch(parsed.Questions)
		log.Info("Turn completed", zap.Int("questions", len(parsed.Questions)), zap.Int("bank_size", s.questions.Len()))
		results <- TurnResult{Reply: msg, Questions: parsed.Questions, Dropped: parsed.Dropped}
	})
	if !applied {
		results <- TurnResult{Err: domain.NewSessionClosedError()}
	}
}

// SetCredential stores the model API key for this session only.
func (s *Session) SetCredential(credential string) error {
	return s.exec(func() {
		s.credential = strings.TrimSpace(credential)
		s.touch()
	})
}

// UpdateSettings affects prompts built from now on.
func (s *Session) UpdateSettings(settings domain.GenerationSettings) error {
	if err := settings.Validate(); err != nil {
		return domain.NewError(domain.CodeValidation, err.Error(), err)
	}
	return s.exec(func() {
		s.settings = settings
		s.touch()
	})
}

// SetDraft records the unsent input buffer. Accepting a turn clears it.
func (s *Session) SetDraft(text string) error {
	return s.exec(func() { s.draft = text })
}

// RemoveQuestion reports whether the question existed.
func (s *Session) RemoveQuestion(id string) (bool, error) {
	var removed bool
	err := s.exec(func() {
		removed = s.questions.Remove(id)
		s.touch()
	})
	return removed, err
}

func (s *Session) ClearQuestions() error {
	return s.exec(func() {
		s.questions.Clear()
		s.touch()
	})
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() (Snapshot, error) {
	var snap Snapshot
	err := s.exec(func() {
		snap = Snapshot{
			ID:              s.id,
			State:           s.state(),
			DocumentLoading: s.loading,
			SourceName:      s.doc.SourceName,
			HasDocument:     s.doc.Loaded(),
			Settings:        s.settings,
			Messages:        append([]domain.Message(nil), s.messages...),
			Questions:       s.questions.List(),
			Draft:           s.draft,
			HasCredential:   s.credential != "",
			LastActivity:    s.lastActivity,
		}
	})
	return snap, err
}

// Export returns the rendering payload for the current bank.
func (s *Session) Export() (export.Payload, error) {
	var p export.Payload
	err := s.exec(func() {
		p = export.Payload{
			SourceName: s.doc.SourceName,
			ExportedAt: s.now(),
			Questions:  s.questions.List(),
		}
	})
	return p, err
}

package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"

	// Collaborator failures, surfaced to users as transcript notices
	CodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	CodeModelCallFailed  ErrorCode = "MODEL_CALL_FAILED"
	CodeMalformedReply   ErrorCode = "MALFORMED_REPLY"

	// Rejected turns and loads
	CodeEmptyUtterance    ErrorCode = "EMPTY_UTTERANCE"
	CodeNoDocument        ErrorCode = "NO_DOCUMENT"
	CodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	CodeTurnInFlight      ErrorCode = "TURN_IN_FLIGHT"
	CodeLoadInFlight      ErrorCode = "LOAD_IN_FLIGHT"

	// Session registry
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionClosed   ErrorCode = "SESSION_CLOSED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any *DomainError carrying the same code, so sentinel values
// such as ErrMalformedReply work with errors.Is after wrapping.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithContext attaches a key/value pair that the HTTP layer exposes as details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrMalformedReply is returned by model clients when the reply envelope
// carries no text payload.
var ErrMalformedReply = NewError(CodeMalformedReply, "model reply carried no text payload", nil)

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewExtractionError(message string, cause error) *DomainError {
	return NewError(CodeExtractionFailed, message, cause)
}

func NewModelCallError(cause error) *DomainError {
	return NewError(CodeModelCallFailed, "Failed to call the generative model", cause)
}

func NewEmptyUtteranceError() *DomainError {
	return NewError(CodeEmptyUtterance, "Message must not be empty", nil)
}

func NewNoDocumentError() *DomainError {
	return NewError(CodeNoDocument, "Load a document before asking questions", nil)
}

func NewMissingCredentialError() *DomainError {
	return NewError(CodeMissingCredential, "A model API key is required for this session", nil)
}

func NewTurnInFlightError() *DomainError {
	return NewError(CodeTurnInFlight, "A reply is still being generated", nil)
}

func NewLoadInFlightError() *DomainError {
	return NewError(CodeLoadInFlight, "A document is already being loaded", nil)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("Session not found: %s", sessionID), nil)
}

func NewSessionClosedError() *DomainError {
	return NewError(CodeSessionClosed, "Session is closed", nil)
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects field errors for a single request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	msg := v[0].Error()
	if len(v) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(v)-1)
	}
	return msg
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationSettings_Validate(t *testing.T) {
	assert.NoError(t, DefaultGenerationSettings().Validate())

	err := GenerationSettings{Difficulty: "extreme", QuestionType: "essay"}.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "difficulty", verrs[0].Field)
	assert.Equal(t, "question_type", verrs[1].Field)
	assert.Contains(t, err.Error(), "and 1 more")
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("gemini: %w", ErrMalformedReply)
	assert.True(t, errors.Is(wrapped, ErrMalformedReply))
	assert.False(t, errors.Is(NewModelCallError(nil), ErrMalformedReply))
	assert.Equal(t, CodeMalformedReply, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}

func TestDomainError_UnwrapAndMessage(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExtractionError("extraction service unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "extraction service unreachable: connection refused", err.Error())

	data, jerr := err.WithContext("file", "a.pdf").MarshalJSON()
	require.NoError(t, jerr)
	assert.JSONEq(t, `{"code":"EXTRACTION_FAILED","message":"extraction service unreachable"}`, string(data))
	assert.Equal(t, "a.pdf", err.Context["file"])
}

func TestQuestion_CloneDoesNotShareOptions(t *testing.T) {
	q := Question{ID: "1", Prompt: "p", Options: []string{"a", "b"}, AnswerKey: "a"}
	c := q.Clone()
	c.Options[0] = "changed"
	assert.Equal(t, "a", q.Options[0])
}

func TestDocumentContext_Loaded(t *testing.T) {
	assert.False(t, DocumentContext{SourceName: "x.pdf"}.Loaded())
	assert.True(t, DocumentContext{Text: "body"}.Loaded())
}

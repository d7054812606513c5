package validation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsBody struct {
	Difficulty   string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	QuestionType string `json:"question_type" validate:"required,oneof=mixed multiple-choice true-false"`
	Note         string `json:"note" validate:"max=3"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.Struct(settingsBody{Difficulty: "easy", QuestionType: "mixed"}))

	errs := v.Struct(settingsBody{Difficulty: "extreme", Note: "toolong"})
	require.Len(t, errs, 3)
	assert.Equal(t, "difficulty", errs[0].Field)
	assert.Equal(t, "must be one of easy, medium, hard", errs[0].Message)
	assert.Equal(t, "question_type", errs[1].Field)
	assert.Equal(t, "is required", errs[1].Message)
	assert.Equal(t, "note", errs[2].Field)
	assert.Equal(t, "must be at most 3 characters", errs[2].Message)
}

func TestValidator_ValidateSessionID(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateSessionID(uuid.NewString()))
	assert.Len(t, v.ValidateSessionID(""), 1)
	assert.Equal(t, "must be a UUID", v.ValidateSessionID("123")[0].Message)
}

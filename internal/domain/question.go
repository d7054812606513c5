package domain

import (
	"fmt"
	"time"
)

// Question is one quiz item harvested from a model reply.
// AnswerKey is expected to be one of Options but is never checked.
type Question struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options"`
	AnswerKey string    `json:"answer_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}

// Difficulty of generated questions
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionType requested from the model
type QuestionType string

const (
	QuestionTypeMixed          QuestionType = "mixed"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeTrueFalse      QuestionType = "true-false"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMixed, QuestionTypeMultipleChoice, QuestionTypeTrueFalse:
		return true
	}
	return false
}

// GenerationSettings only influence prompts built after they change.
type GenerationSettings struct {
	Difficulty   Difficulty   `json:"difficulty"`
	QuestionType QuestionType `json:"question_type"`
}

// DefaultGenerationSettings returns medium / mixed.
func DefaultGenerationSettings() GenerationSettings {
	return GenerationSettings{
		Difficulty:   DifficultyMedium,
		QuestionType: QuestionTypeMixed,
	}
}

// Validate validates the settings
func (s GenerationSettings) Validate() error {
	var errs ValidationErrors
	if !s.Difficulty.Valid() {
		errs = append(errs, ValidationError{Field: "difficulty", Message: "must be one of easy, medium, hard", Value: s.Difficulty})
	}
	if !s.QuestionType.Valid() {
		errs = append(errs, ValidationError{Field: "question_type", Message: "must be one of mixed, multiple-choice, true-false", Value: s.QuestionType})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s GenerationSettings) String() string {
	return fmt.Sprintf("%s/%s", s.Difficulty, s.QuestionType)
}

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qbank/internal/domain"
)

func q(id string) domain.Question {
	return domain.Question{ID: id, Prompt: "prompt " + id, Options: []string{"x", "y"}, AnswerKey: "x"}
}

func ids(qs []domain.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func TestMergeNewBatch_PrependsNewestFirst(t *testing.T) {
	s := New()
	s.MergeNewBatch([]domain.Question{q("a"), q("b")})
	s.MergeNewBatch([]domain.Question{q("c")})

	assert.Equal(t, []string{"c", "a", "b"}, ids(s.List()))
	assert.Equal(t, 3, s.Len())
}

func TestMergeNewBatch_NoDedup(t *testing.T) {
	s := New()
	dup := domain.Question{ID: "1", Prompt: "same"}
	again := domain.Question{ID: "2", Prompt: "same"}
	s.MergeNewBatch([]domain.Question{dup})
	s.MergeNewBatch([]domain.Question{again})
	s.MergeNewBatch(nil)

	assert.Equal(t, []string{"2", "1"}, ids(s.List()))
}

func TestRemove(t *testing.T) {
	s := New()
	s.MergeNewBatch([]domain.Question{q("a"), q("b"), q("c")})

	assert.True(t, s.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, ids(s.List()))

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, []string{"a", "c"}, ids(s.List()))
}

func TestClear(t *testing.T) {
	s := New()
	s.MergeNewBatch([]domain.Question{q("a")})
	s.Clear()
	assert.Empty(t, s.List())
	assert.Zero(t, s.Len())
}

func TestList_ReturnsCopy(t *testing.T) {
	s := New()
	s.MergeNewBatch([]domain.Question{q("a")})

	got := s.List()
	got[0].Prompt = "mutated"
	got[0].Options[0] = "mutated"

	again := s.List()
	assert.Equal(t, "prompt a", again[0].Prompt)
	assert.Equal(t, "x", again[0].Options[0])
}

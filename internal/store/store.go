// Package store holds the question bank of one session.
package store

import "qbank/internal/domain"

// QuestionStore is an ordered question collection, newest batch first.
// It is not safe for concurrent use; the owning session serializes access.
type QuestionStore struct {
	items []domain.Question
}

func New() *QuestionStore {
	return &QuestionStore{}
}

// MergeNewBatch prepends batch, keeping its internal order. Nothing is
// validated or deduplicated.
func (s *QuestionStore) MergeNewBatch(batch []domain.Question) {
	if len(batch) == 0 {
		return
	}
	merged := make([]domain.Question, 0, len(batch)+len(s.items))
	for _, q := range batch {
		merged = append(merged, q.Clone())
	}
	s.items = append(merged, s.items...)
}

// Remove deletes the question with id. It reports whether one was found.
func (s *QuestionStore) Remove(id string) bool {
	for i, q := range s.items {
		if q.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func (s *QuestionStore) Clear() {
	s.items = nil
}

// List returns a copy; index 0 is the most recently merged question.
func (s *QuestionStore) List() []domain.Question {
	out := make([]domain.Question, len(s.items))
	for i, q := range s.items {
		out[i] = q.Clone()
	}
	return out
}

func (s *QuestionStore) Len() int {
	return len(s.items)
}

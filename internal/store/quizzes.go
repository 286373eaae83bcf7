package store

import (
	"github.com/talkincode/storefront/internal/domain"
)

func (s *Store) Quizzes() []domain.Quiz {
	var out []domain.Quiz
	s.read(func() {
		out = make([]domain.Quiz, len(s.quizzes))
		for i, q := range s.quizzes {
			out[i] = q.Clone()
		}
	})
	return out
}

func (s *Store) Quiz(id string) (domain.Quiz, bool) {
	var (
		out   domain.Quiz
		found bool
	)
	s.read(func() {
		if idx := s.quizIndex(id); idx >= 0 {
			out, found = s.quizzes[idx].Clone(), true
		}
	})
	return out, found
}

// ActiveQuiz returns the quiz currently offered to visitors.
func (s *Store) ActiveQuiz() (domain.Quiz, bool) {
	var (
		out   domain.Quiz
		found bool
	)
	s.read(func() {
		if s.activeQuizID == "" {
			return
		}
		if idx := s.quizIndex(s.activeQuizID); idx >= 0 {
			out, found = s.quizzes[idx].Clone(), true
		}
	})
	return out, found
}

func (s *Store) quizIndex(id string) int {
	return indexWhere(s.quizzes, func(q domain.Quiz) bool { return q.ID == id })
}

// assignQuestionIDs gives every question without an id a fresh one.
func (s *Store) assignQuestionIDs(questions []domain.QuizQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			q.ID = s.ids.NextID()
		}
		out[i] = q
	}
	return out
}

// setActiveLocked makes id the only active quiz. An empty id deactivates
// every quiz.
func (s *Store) setActiveLocked(next []domain.Quiz, id string) {
	for i := range next {
		next[i].IsActive = next[i].ID == id && id != ""
	}
	s.activeQuizID = id
}

// AddQuiz appends q with a fresh id and creation time. Adding an active
// quiz deactivates every other quiz in the same commit.
func (s *Store) AddQuiz(q domain.Quiz) domain.Quiz {
	q = q.Clone()
	s.write(func(tx *txn) {
		q.ID = s.ids.NextID()
		q.CreatedAt = s.now().UnixMilli()
		q.Questions = s.assignQuestionIDs(q.Questions)
		next := append(cloneSlice(s.quizzes), q)
		if q.IsActive {
			s.setActiveLocked(next, q.ID)
		}
		s.quizzes = next
		tx.save(domain.KeyQuizzes, next)
	})
	return q.Clone()
}

// UpdateQuiz merges patch into the quiz. Setting isActive through the
// patch follows the same exclusivity as ActivateQuiz and DeactivateQuiz.
func (s *Store) UpdateQuiz(id string, patch Patch) (domain.Quiz, bool) {
	var (
		out   domain.Quiz
		found bool
	)
	s.write(func(tx *txn) {
		idx := s.quizIndex(id)
		if idx < 0 {
			return
		}
		prev := s.quizzes[idx]
		merged, err := mergeEntity(prev, patch)
		if err != nil {
			out, found = prev.Clone(), true
			return
		}
		merged.ID = id
		merged.CreatedAt = prev.CreatedAt
		merged.Questions = s.assignQuestionIDs(merged.Questions)

		next := cloneSlice(s.quizzes)
		next[idx] = merged
		switch {
		case merged.IsActive:
			s.setActiveLocked(next, id)
		case s.activeQuizID == id:
			s.setActiveLocked(next, "")
		}
		s.quizzes = next
		tx.save(domain.KeyQuizzes, next)
		out, found = merged, true
	})
	return out.Clone(), found
}

// ActivateQuiz makes id the single active quiz.
func (s *Store) ActivateQuiz(id string) bool {
	found := false
	s.write(func(tx *txn) {
		if s.quizIndex(id) < 0 {
			return
		}
		next := cloneSlice(s.quizzes)
		s.setActiveLocked(next, id)
		s.quizzes = next
		tx.save(domain.KeyQuizzes, next)
		found = true
	})
	return found
}

// DeactivateQuiz clears the active flag of id. Other quizzes are left
// inactive.
func (s *Store) DeactivateQuiz(id string) bool {
	found := false
	s.write(func(tx *txn) {
		idx := s.quizIndex(id)
		if idx < 0 {
			return
		}
		found = true
		if !s.quizzes[idx].IsActive {
			return
		}
		next := cloneSlice(s.quizzes)
		s.setActiveLocked(next, "")
		s.quizzes = next
		tx.save(domain.KeyQuizzes, next)
	})
	return found
}

// RemoveQuiz drops the quiz. Removing the active quiz leaves no quiz
// active.
func (s *Store) RemoveQuiz(id string) bool {
	found := false
	s.write(func(tx *txn) {
		idx := s.quizIndex(id)
		if idx < 0 {
			return
		}
		s.quizzes = without(s.quizzes, idx)
		if s.activeQuizID == id {
			s.activeQuizID = ""
		}
		tx.save(domain.KeyQuizzes, s.quizzes)
		found = true
	})
	return found
}

package store

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/talkincode/storefront/internal/domain"
)

// QuizResults returns results in submission order.
func (s *Store) QuizResults() []domain.QuizResult {
	var out []domain.QuizResult
	s.read(func() { out = cloneSlice(s.quizResults) })
	return out
}

// AddQuizResult appends r and derives its notification in the same
// commit. Results are never edited afterwards.
func (s *Store) AddQuizResult(r domain.QuizResult) domain.QuizResult {
	s.write(func(tx *txn) {
		r.ID = s.ids.NextID()
		if r.Date == "" {
			r.Date = s.now().UTC().Format(time.RFC3339)
		}
		s.quizResults = append(cloneSlice(s.quizResults), r)
		tx.save(domain.KeyQuizResults, s.quizResults)
		s.reconcileLocked(tx)
	})
	return r
}

// ResultStats summarizes score percentages.
type ResultStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Best   float64 `json:"best"`
	Worst  float64 `json:"worst"`
}

// QuizResultStats summarizes every result whose quizId matches. An empty
// quizID selects all results.
func (s *Store) QuizResultStats(quizID string) ResultStats {
	var data stats.Float64Data
	s.read(func() {
		for _, r := range s.quizResults {
			if quizID != "" && r.QuizID != quizID {
				continue
			}
			data = append(data, r.Percentage())
		}
	})
	if len(data) == 0 {
		return ResultStats{}
	}
	out := ResultStats{Count: data.Len()}
	out.Mean, _ = data.Mean()
	out.Median, _ = data.Median()
	out.Best, _ = data.Max()
	out.Worst, _ = data.Min()
	for _, v := range []*float64{&out.Mean, &out.Median, &out.Best, &out.Worst} {
		*v, _ = stats.Round(*v, 2)
	}
	return out
}

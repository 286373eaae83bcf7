package domain

// WrongAnswerCount is the fixed number of distractors per question.
const WrongAnswerCount = 3

type QuizQuestion struct {
	ID            string                          `json:"id"`
	Image         string                          `json:"image,omitempty"`
	Question      LocalizedText                   `json:"question"`
	CorrectAnswer LocalizedText                   `json:"correctAnswer"`
	WrongAnswers  [WrongAnswerCount]LocalizedText `json:"wrongAnswers"`
}

// Quiz is an ordered list of questions. At most one quiz is active.
type Quiz struct {
	ID          string         `json:"id"`
	Title       LocalizedText  `json:"title"`
	Description LocalizedText  `json:"description"`
	Questions   []QuizQuestion `json:"questions"`
	IsActive    bool           `json:"isActive"`
	CreatedAt   int64          `json:"createdAt"` // unix millis
}

// Clone returns a copy that shares no slices with q.
func (q Quiz) Clone() Quiz {
	questions := make([]QuizQuestion, len(q.Questions))
	copy(questions, q.Questions)
	q.Questions = questions
	return q
}

// QuizResult is one completed attempt. Results are append-only.
type QuizResult struct {
	ID     string `json:"id" csv:"id"`
	QuizID string `json:"quizId,omitempty" csv:"quiz_id"`
	Score  int    `json:"score" csv:"score"`
	Total  int    `json:"total" csv:"total"`
	Date   string `json:"date" csv:"date"` // ISO-8601
}

// Percentage returns the score as a percentage of total, or 0 for an
// empty quiz.
func (r QuizResult) Percentage() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Score) * 100 / float64(r.Total)
}

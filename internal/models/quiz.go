package models

// QuizQuestion is immutable once fetched.
type QuizQuestion struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Category      string   `json:"category,omitempty"`
}

// Clone returns a deep copy of the question.
func (q QuizQuestion) Clone() QuizQuestion {
	q.Options = cloneStrings(q.Options)
	return q
}

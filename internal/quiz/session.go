// Package quiz runs one quiz attempt: fetch a question set, take answers, score.
package quiz

import (
	"context"
	"errors"
	"math"
	"sync"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/observability"
)

// QuestionSource fetches the question set for one attempt.
type QuestionSource interface {
	RandomQuiz(ctx context.Context) ([]models.QuizQuestion, error)
}

// State is the lifecycle of an attempt.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	default:
		return "not-started"
	}
}

// ErrNoQuestions is returned by Start when the server has no questions to offer.
var ErrNoQuestions = errors.New("quiz has no questions")

// Session is a single quiz attempt. It is safe for concurrent use.
type Session struct {
	source   QuestionSource
	notifier notify.Notifier
	logger   *observability.ClientLogger

	mu        sync.Mutex
	questions []models.QuizQuestion
	index     int
	score     int
}

// NewSession returns a NotStarted session.
func NewSession(source QuestionSource, notifier notify.Notifier, logger *observability.Logger) *Session {
	return &Session{
		source:   source,
		notifier: notifier,
		logger:   observability.NewClientLogger("quiz", logger),
	}
}

// Start fetches a fresh question set and resets progress. On failure the
// session keeps its previous state. An empty set counts as a failure.
func (s *Session) Start(ctx context.Context) error {
	questions, err := s.source.RandomQuiz(ctx)
	if err == nil && len(questions) == 0 {
		err = ErrNoQuestions
	}
	if err != nil {
		s.logger.LogError(ctx, err, "start_quiz")
		notify.Send(ctx, s.notifier, notify.Error("Failed to start quiz", "Could not load quiz questions. Please try again."))
		return err
	}

	s.mu.Lock()
	s.questions = make([]models.QuizQuestion, len(questions))
	for i, q := range questions {
		s.questions[i] = q.Clone()
	}
	s.index = 0
	s.score = 0
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "start_quiz", map[string]interface{}{"questions": len(questions)})
	return nil
}

// Current returns the question awaiting an answer.
func (s *Session) Current() (models.QuizQuestion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.questions) {
		return models.QuizQuestion{}, false
	}
	return s.questions[s.index].Clone(), true
}

// SubmitAnswer scores answer against the current question and moves on.
// It reports whether the answer was correct. Past the last question it does nothing.
func (s *Session) SubmitAnswer(answer string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.questions) {
		return false
	}
	correct := answer == s.questions[s.index].CorrectAnswer
	if correct {
		s.score++
	}
	s.index++
	return correct
}

// Reset discards the attempt.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.index = 0
	s.score = 0
}

// State reports where the attempt is.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case len(s.questions) == 0:
		return NotStarted
	case s.index >= len(s.questions):
		return Completed
	default:
		return InProgress
	}
}

// Completed reports whether every question has been answered.
func (s *Session) Completed() bool {
	return s.State() == Completed
}

// Index is the zero-based position of the current question.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Total is the number of questions in the attempt.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions)
}

// Score is the number of correct answers so far.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Percentage is the score as a rounded share of all questions.
func (s *Session) Percentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.score) / float64(len(s.questions)) * 100))
}

var feedbackTiers = []struct {
	min  int
	text string
}{
	{90, "Outstanding! You're a programming expert!"},
	{80, "Excellent work! You have extensive programming knowledge."},
	{70, "Great job! You have good programming knowledge."},
	{60, "Good work! You understand most programming concepts."},
	{50, "Not bad! You're learning the fundamentals."},
	{40, "You're making progress."},
}

// Feedback is the result message shown for a percentage.
func Feedback(pct int) string {
	for _, tier := range feedbackTiers {
		if pct >= tier.min {
			return tier.text
		}
	}
	return "Keep learning the basics."
}

package mockapi

import (
	"codego/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListQuizzes handles GET /api/quizzes
func (s *Server) ListQuizzes(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.JSON(cloneQuestions(s.quizzes))
}

// RandomQuiz handles GET /api/quizzes/random and serves at most QuizSize
// questions in random order.
func (s *Server) RandomQuiz(c *fiber.Ctx) error {
	s.mu.Lock()
	out := cloneQuestions(s.quizzes)
	s.faker.ShuffleAnySlice(out)
	s.mu.Unlock()

	if len(out) > s.cfg.QuizSize {
		out = out[:s.cfg.QuizSize]
	}
	return c.JSON(out)
}

func cloneQuestions(in []models.QuizQuestion) []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}

func defaultQuestions() []models.QuizQuestion {
	q := func(id, text, category, correct string, options ...string) models.QuizQuestion {
		return models.QuizQuestion{ID: id, QuestionText: text, Options: options, CorrectAnswer: correct, Category: category}
	}
	return []models.QuizQuestion{
		q("q1", "Which keyword starts a goroutine?", "go", "go", "go", "async", "spawn", "thread"),
		q("q2", "What is the zero value of a map?", "go", "nil", "nil", "an empty map", "0", "panic"),
		q("q3", "Which package provides WaitGroup?", "go", "sync", "sync", "context", "runtime", "errgroup"),
		q("q4", "What does HTTP status 409 mean?", "web", "Conflict", "Conflict", "Not Found", "Gone", "Forbidden"),
		q("q5", "Which data structure is LIFO?", "cs", "Stack", "Stack", "Queue", "Heap", "Tree"),
		q("q6", "What is the time complexity of binary search?", "cs", "O(log n)", "O(log n)", "O(n)", "O(1)", "O(n log n)"),
		q("q7", "Which verb is idempotent in HTTP?", "web", "PUT", "PUT", "POST", "PATCH", "CONNECT"),
		q("q8", "Which statement runs when the surrounding function returns?", "go", "defer", "defer", "finally", "ensure", "after"),
		q("q9", "What does SQL stand for?", "db", "Structured Query Language", "Structured Query Language", "Simple Query Language", "Sequential Query Logic", "Standard Question Language"),
		q("q10", "Which git command records staged changes?", "tools", "git commit", "git commit", "git add", "git push", "git stash"),
		q("q11", "How do you close a channel in Go?", "go", "close(ch)", "close(ch)", "ch.Close()", "ch <- nil", "delete(ch)"),
		q("q12", "Which port does HTTPS use by default?", "web", "443", "443", "80", "8080", "22"),
	}
}

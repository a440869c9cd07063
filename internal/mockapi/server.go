// Package mockapi is an in-memory reference implementation of the remote API
// used for local development and integration tests.
package mockapi

import (
	"context"
	"sync"

	"codego/internal/models"
	"codego/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultQuizSize is the number of questions served by GET /quizzes/random.
const DefaultQuizSize = 10

// Config controls server behaviour.
type Config struct {
	// QuizSize caps the random quiz length.
	QuizSize int
	// AllowVoteChange lets a user move their vote to another option instead of getting 409.
	AllowVoteChange bool
	// Seed fills the server with generated users and content.
	Seed bool
	// SeedValue makes generated content deterministic when non-zero.
	SeedValue    int64
	AllowOrigins string
	Logger       *observability.Logger
	// Registry receives the HTTP metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server holds all API state in memory.
type Server struct {
	cfg    Config
	logger *observability.Logger
	app    *fiber.App
	prom   *fiberprometheus.FiberPrometheus

	// faker drives seeding and quiz shuffles; guarded by mu.
	faker *gofakeit.Faker

	mu        sync.RWMutex
	users     map[string]*account
	byEmail   map[string]string
	posts     []models.Post
	polls     []models.Poll
	materials []models.LearningMaterial
	quizzes   []models.QuizQuestion
}

// New builds a server with its routes registered.
func New(cfg Config) *Server {
	if cfg.QuizSize <= 0 {
		cfg.QuizSize = DefaultQuizSize
	}
	if cfg.AllowOrigins == "" {
		cfg.AllowOrigins = "*"
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.GlobalLogger
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:     cfg,
		logger:  cfg.Logger,
		users:   make(map[string]*account),
		byEmail: make(map[string]string),
		quizzes: defaultQuestions(),
		faker:   gofakeit.New(cfg.SeedValue),
		prom:    fiberprometheus.NewWithRegistry(cfg.Registry, "codego-mockapi", "codego", "mockapi", nil),
	}
	if cfg.Seed {
		s.seed(cfg.SeedValue)
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "codego mock API",
		ErrorHandler: s.errorHandler,
	})
	s.setupMiddleware(s.app)
	s.setupRoutes(s.app)
	return s
}

// App returns the fiber application.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info("mock API listening", "addr", addr, "quiz_size", s.cfg.QuizSize, "allow_vote_change", s.cfg.AllowVoteChange)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) setupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Header: "X-Correlation-ID"}))
	app.Use(contextMiddleware())
	app.Use(s.prom.Middleware)
	app.Use(structuredLogger(s.logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
}

func (s *Server) setupRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.prom.RegisterAt(app, "/metrics")

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.Login)
	auth.Post("/register", s.Register)
	auth.Get("/me", s.Me)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", s.CreatePost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/comments", s.AddComment)

	polls := api.Group("/polls")
	polls.Get("/", s.ListPolls)
	polls.Post("/", s.CreatePoll)
	polls.Put("/:id", s.UpdatePoll)
	polls.Delete("/:id", s.DeletePoll)
	polls.Post("/:id/vote", s.VotePoll)

	materials := api.Group("/learning-materials")
	materials.Get("/", s.ListMaterials)
	materials.Post("/", s.CreateMaterial)
	materials.Put("/:id", s.UpdateMaterial)
	materials.Delete("/:id", s.DeleteMaterial)

	quizzes := api.Group("/quizzes")
	quizzes.Get("/", s.ListQuizzes)
	quizzes.Get("/random", s.RandomQuiz)
}

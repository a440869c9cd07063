// Package store is the in-memory cache of posts, polls, learning materials
// and quiz questions, kept in step with the remote API.
package store

import (
	"context"
	"math/rand"
	"sync"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/observability"

	"golang.org/x/sync/errgroup"
)

// DataAPI is the part of the remote API the cache calls.
type DataAPI interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, in models.NewPost, author models.Author) (models.Post, error)
	UpdatePost(ctx context.Context, postID string, in models.PostUpdate) (models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	LikePost(ctx context.Context, postID, userID string) (models.Post, error)
	UnlikePost(ctx context.Context, postID, userID string) (models.Post, error)
	AddComment(ctx context.Context, postID string, author models.Author, content string) ([]models.Comment, error)

	ListPolls(ctx context.Context) ([]models.Poll, error)
	CreatePoll(ctx context.Context, question string, options []models.PollOption, author models.Author) (models.Poll, error)
	UpdatePoll(ctx context.Context, pollID string, in models.PollUpdate) (models.Poll, error)
	DeletePoll(ctx context.Context, pollID string) error
	VotePoll(ctx context.Context, pollID, optionID, userID string) (models.Poll, error)

	ListLearningMaterials(ctx context.Context) ([]models.LearningMaterial, error)
	CreateLearningMaterial(ctx context.Context, in models.NewLearningMaterial, author models.Author) (models.LearningMaterial, error)
	UpdateLearningMaterial(ctx context.Context, materialID string, in models.LearningMaterialUpdate) (models.LearningMaterial, error)
	DeleteLearningMaterial(ctx context.Context, materialID string) error

	ListQuizzes(ctx context.Context) ([]models.QuizQuestion, error)
}

// Identity supplies the signed-in user, or nil.
type Identity interface {
	CurrentUser() *models.User
}

// Kind names the entity family an Event touched.
type Kind string

const (
	KindAll      Kind = "all"
	KindPost     Kind = "post"
	KindPoll     Kind = "poll"
	KindMaterial Kind = "material"
)

// Op is the state transition behind an Event.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is delivered to subscribers after a transition has been applied.
type Event struct {
	Kind Kind
	Op   Op
	ID   string
}

// Store caches the remote collections. All methods are safe for concurrent use.
type Store struct {
	api      DataAPI
	identity Identity
	notifier notify.Notifier
	logger   *observability.ClientLogger

	mu        sync.RWMutex
	posts     []models.Post
	polls     []models.Poll
	materials []models.LearningMaterial
	quizzes   []models.QuizQuestion

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// New returns an empty cache. Call Load to populate it.
func New(api DataAPI, identity Identity, notifier notify.Notifier, logger *observability.Logger) *Store {
	return &Store{
		api:      api,
		identity: identity,
		notifier: notifier,
		logger:   observability.NewClientLogger("store", logger),
		subs:     make(map[int]func(Event)),
	}
}

// Load fetches all four collections concurrently. If any fetch fails the
// cache is left as it was and one aggregate notification is sent.
func (s *Store) Load(ctx context.Context) error {
	var (
		posts     []models.Post
		polls     []models.Poll
		materials []models.LearningMaterial
		quizzes   []models.QuizQuestion
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = s.api.ListPosts(gctx)
		return err
	})
	g.Go(func() (err error) {
		polls, err = s.api.ListPolls(gctx)
		return err
	})
	g.Go(func() (err error) {
		materials, err = s.api.ListLearningMaterials(gctx)
		return err
	})
	g.Go(func() (err error) {
		quizzes, err = s.api.ListQuizzes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.LogError(ctx, err, "load")
		notify.Send(ctx, s.notifier, notify.Error("Loading error", "Failed to fetch initial data from server"))
		return err
	}

	s.mu.Lock()
	s.posts = nonNil(posts)
	s.polls = nonNil(polls)
	s.materials = nonNil(materials)
	s.quizzes = nonNil(quizzes)
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "load", map[string]interface{}{
		"posts": len(posts), "polls": len(polls), "materials": len(materials), "quizzes": len(quizzes),
	})
	s.emit(Event{Kind: KindAll, Op: OpLoad})
	return nil
}

// Subscribe registers fn for every applied transition. Call the returned
// function to unsubscribe. fn runs on the goroutine that changed the cache.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) emit(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// user returns the signed-in user or ErrUnauthenticated.
func (s *Store) user() (*models.User, error) {
	if s.identity == nil {
		return nil, models.ErrUnauthenticated
	}
	u := s.identity.CurrentUser()
	if u == nil {
		return nil, models.ErrUnauthenticated
	}
	return u, nil
}

func (s *Store) fail(ctx context.Context, err error, op string, n notify.Notification) error {
	s.logger.LogError(ctx, err, op)
	notify.Send(ctx, s.notifier, n)
	return err
}

// Posts returns a copy of the cached posts, newest first.
func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.posts, models.Post.Clone)
}

// Polls returns a copy of the cached polls.
func (s *Store) Polls() []models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.polls, models.Poll.Clone)
}

// LearningMaterials returns a copy of the cached materials.
func (s *Store) LearningMaterials() []models.LearningMaterial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.materials, models.LearningMaterial.Clone)
}

// QuizQuestions returns a copy of the cached quiz questions.
func (s *Store) QuizQuestions() []models.QuizQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.quizzes, models.QuizQuestion.Clone)
}

// Post returns a copy of one cached post.
func (s *Store) Post(id string) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.posts, id, postID); i >= 0 {
		return s.posts[i].Clone(), true
	}
	return models.Post{}, false
}

// Poll returns a copy of one cached poll.
func (s *Store) Poll(id string) (models.Poll, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.polls, id, pollID); i >= 0 {
		return s.polls[i].Clone(), true
	}
	return models.Poll{}, false
}

// UserPosts lists the cached posts authored by userID.
func (s *Store) UserPosts(userID string) []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterClone(s.posts, func(p models.Post) bool { return p.UserID == userID }, models.Post.Clone)
}

// UserPolls lists the cached polls authored by userID.
func (s *Store) UserPolls(userID string) []models.Poll {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterClone(s.polls, func(p models.Poll) bool { return p.UserID == userID }, models.Poll.Clone)
}

// UserLearningMaterials lists the cached materials shared by userID.
func (s *Store) UserLearningMaterials(userID string) []models.LearningMaterial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterClone(s.materials, func(m models.LearningMaterial) bool { return m.UserID == userID }, models.LearningMaterial.Clone)
}

// RandomQuizQuestions returns up to count cached questions in random order.
func (s *Store) RandomQuizQuestions(count int) []models.QuizQuestion {
	all := s.QuizQuestions()
	if count <= 0 {
		return []models.QuizQuestion{}
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if count < len(all) {
		all = all[:count]
	}
	return all
}

func postID(p models.Post) string                 { return p.ID }
func pollID(p models.Poll) string                 { return p.ID }
func materialID(m models.LearningMaterial) string { return m.ID }

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = clone(v)
	}
	return out
}

func filterClone[T any](in []T, keep func(T) bool, clone func(T) T) []T {
	out := []T{}
	for _, v := range in {
		if keep(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func indexOf[T any](in []T, id string, idOf func(T) string) int {
	for i, v := range in {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

// replaceByID swaps the element with the given id for v. It reports whether one was found.
func replaceByID[T any](in []T, id string, v T, idOf func(T) string) bool {
	if i := indexOf(in, id, idOf); i >= 0 {
		in[i] = v
		return true
	}
	return false
}

func removeByID[T any](in []T, id string, idOf func(T) string) []T {
	out := in[:0]
	for _, v := range in {
		if idOf(v) != id {
			out = append(out, v)
		}
	}
	return out
}

func prepend[T any](in []T, v T) []T {
	return append([]T{v}, in...)
}

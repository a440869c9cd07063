package store

import (
	"context"
	"errors"
	"sync"

	"codego/internal/models"
)

var errUnexpected = errors.New("unexpected call")

type stubAPI struct {
	listPostsFn     func(ctx context.Context) ([]models.Post, error)
	createPostFn    func(ctx context.Context, in models.NewPost, author models.Author) (models.Post, error)
	updatePostFn    func(ctx context.Context, id string, in models.PostUpdate) (models.Post, error)
	deletePostFn    func(ctx context.Context, id string) error
	likePostFn      func(ctx context.Context, id, userID string) (models.Post, error)
	unlikePostFn    func(ctx context.Context, id, userID string) (models.Post, error)
	addCommentFn    func(ctx context.Context, id string, author models.Author, content string) ([]models.Comment, error)
	listPollsFn     func(ctx context.Context) ([]models.Poll, error)
	createPollFn    func(ctx context.Context, question string, options []models.PollOption, author models.Author) (models.Poll, error)
	updatePollFn    func(ctx context.Context, id string, in models.PollUpdate) (models.Poll, error)
	deletePollFn    func(ctx context.Context, id string) error
	votePollFn      func(ctx context.Context, id, optionID, userID string) (models.Poll, error)
	listMaterialsFn func(ctx context.Context) ([]models.LearningMaterial, error)
	createMatFn     func(ctx context.Context, in models.NewLearningMaterial, author models.Author) (models.LearningMaterial, error)
	updateMatFn     func(ctx context.Context, id string, in models.LearningMaterialUpdate) (models.LearningMaterial, error)
	deleteMatFn     func(ctx context.Context, id string) error
	listQuizzesFn   func(ctx context.Context) ([]models.QuizQuestion, error)

	mu    sync.Mutex
	calls []string
}

func (s *stubAPI) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *stubAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubAPI) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.record("ListPosts")
	if s.listPostsFn == nil {
		return []models.Post{}, nil
	}
	return s.listPostsFn(ctx)
}

func (s *stubAPI) CreatePost(ctx context.Context, in models.NewPost, author models.Author) (models.Post, error) {
	s.record("CreatePost")
	if s.createPostFn == nil {
		return models.Post{}, errUnexpected
	}
	return s.createPostFn(ctx, in, author)
}

func (s *stubAPI) UpdatePost(ctx context.Context, id string, in models.PostUpdate) (models.Post, error) {
	s.record("UpdatePost")
	if s.updatePostFn == nil {
		return models.Post{}, errUnexpected
	}
	return s.updatePostFn(ctx, id, in)
}

func (s *stubAPI) DeletePost(ctx context.Context, id string) error {
	s.record("DeletePost")
	if s.deletePostFn == nil {
		return errUnexpected
	}
	return s.deletePostFn(ctx, id)
}

func (s *stubAPI) LikePost(ctx context.Context, id, userID string) (models.Post, error) {
	s.record("LikePost")
	if s.likePostFn == nil {
		return models.Post{}, errUnexpected
	}
	return s.likePostFn(ctx, id, userID)
}

func (s *stubAPI) UnlikePost(ctx context.Context, id, userID string) (models.Post, error) {
	s.record("UnlikePost")
	if s.unlikePostFn == nil {
		return models.Post{}, errUnexpected
	}
	return s.unlikePostFn(ctx, id, userID)
}

func (s *stubAPI) AddComment(ctx context.Context, id string, author models.Author, content string) ([]models.Comment, error) {
	s.record("AddComment")
	if s.addCommentFn == nil {
		return nil, errUnexpected
	}
	return s.addCommentFn(ctx, id, author, content)
}

func (s *stubAPI) ListPolls(ctx context.Context) ([]models.Poll, error) {
	s.record("ListPolls")
	if s.listPollsFn == nil {
		return []models.Poll{}, nil
	}
	return s.listPollsFn(ctx)
}

func (s *stubAPI) CreatePoll(ctx context.Context, question string, options []models.PollOption, author models.Author) (models.Poll, error) {
	s.record("CreatePoll")
	if s.createPollFn == nil {
		return models.Poll{}, errUnexpected
	}
	return s.createPollFn(ctx, question, options, author)
}

func (s *stubAPI) UpdatePoll(ctx context.Context, id string, in models.PollUpdate) (models.Poll, error) {
	s.record("UpdatePoll")
	if s.updatePollFn == nil {
		return models.Poll{}, errUnexpected
	}
	return s.updatePollFn(ctx, id, in)
}

func (s *stubAPI) DeletePoll(ctx context.Context, id string) error {
	s.record("DeletePoll")
	if s.deletePollFn == nil {
		return errUnexpected
	}
	return s.deletePollFn(ctx, id)
}

func (s *stubAPI) VotePoll(ctx context.Context, id, optionID, userID string) (models.Poll, error) {
	s.record("VotePoll")
	if s.votePollFn == nil {
		return models.Poll{}, errUnexpected
	}
	return s.votePollFn(ctx, id, optionID, userID)
}

func (s *stubAPI) ListLearningMaterials(ctx context.Context) ([]models.LearningMaterial, error) {
	s.record("ListLearningMaterials")
	if s.listMaterialsFn == nil {
		return []models.LearningMaterial{}, nil
	}
	return s.listMaterialsFn(ctx)
}

func (s *stubAPI) CreateLearningMaterial(ctx context.Context, in models.NewLearningMaterial, author models.Author) (models.LearningMaterial, error) {
	s.record("CreateLearningMaterial")
	if s.createMatFn == nil {
		return models.LearningMaterial{}, errUnexpected
	}
	return s.createMatFn(ctx, in, author)
}

func (s *stubAPI) UpdateLearningMaterial(ctx context.Context, id string, in models.LearningMaterialUpdate) (models.LearningMaterial, error) {
	s.record("UpdateLearningMaterial")
	if s.updateMatFn == nil {
		return models.LearningMaterial{}, errUnexpected
	}
	return s.updateMatFn(ctx, id, in)
}

func (s *stubAPI) DeleteLearningMaterial(ctx context.Context, id string) error {
	s.record("DeleteLearningMaterial")
	if s.deleteMatFn == nil {
		return errUnexpected
	}
	return s.deleteMatFn(ctx, id)
}

func (s *stubAPI) ListQuizzes(ctx context.Context) ([]models.QuizQuestion, error) {
	s.record("ListQuizzes")
	if s.listQuizzesFn == nil {
		return []models.QuizQuestion{}, nil
	}
	return s.listQuizzesFn(ctx)
}

// fixedIdentity is an Identity with a swappable user.
type fixedIdentity struct {
	mu   sync.Mutex
	user *models.User
}

func (f *fixedIdentity) CurrentUser() *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user.Clone()
}

func (f *fixedIdentity) set(u *models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
}

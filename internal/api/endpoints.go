package api

import (
	"context"
	"net/http"
	"net/url"

	"codego/internal/models"
)

type credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

type createPostRequest struct {
	models.NewPost
	models.Author
}

type createPollRequest struct {
	Question string              `json:"question"`
	Options  []models.PollOption `json:"options"`
	models.Author
}

type createMaterialRequest struct {
	models.NewLearningMaterial
	models.Author
}

type commentRequest struct {
	models.Author
	Content string `json:"content"`
}

type commentsEnvelope struct {
	Comments []models.Comment `json:"comments"`
}

type userRef struct {
	UserID string `json:"userId"`
}

type voteRequest struct {
	UserID   string `json:"userId"`
	OptionID string `json:"optionId"`
}

func id(v string) string { return "/" + url.PathEscape(v) }

func envelopeUser(env userEnvelope) (*models.User, error) {
	if env.User == nil || env.User.ID == "" {
		return nil, models.NewAPIError(http.StatusBadGateway, "response did not include a user")
	}
	env.User.Normalize()
	return env.User, nil
}

// Login posts credentials and returns the user from {"user": {...}}.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var env userEnvelope
	err := c.do(ctx, request{op: "login", method: http.MethodPost, base: c.authURL, path: "/login",
		body: credentials{Email: email, Password: password}, out: &env})
	if err != nil {
		return nil, err
	}
	return envelopeUser(env)
}

// Register creates an account and returns the new user.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	var env userEnvelope
	err := c.do(ctx, request{op: "register", method: http.MethodPost, base: c.authURL, path: "/register",
		body: credentials{Username: username, Email: email, Password: password}, out: &env})
	if err != nil {
		return nil, err
	}
	return envelopeUser(env)
}

// Me revalidates a stored identity. The bearer value is the user id.
func (c *Client) Me(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{op: "me", method: http.MethodGet, base: c.authURL, path: "/me",
		bearer: userID, out: &u})
	if err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, models.NewAPIError(http.StatusBadGateway, "response did not include a user")
	}
	u.Normalize()
	return &u, nil
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	err := c.do(ctx, request{op: "list_posts", method: http.MethodGet, base: c.dataURL, path: "/posts", out: &out})
	return out, err
}

// CreatePost sends the post with the author's denormalized identity.
func (c *Client) CreatePost(ctx context.Context, in models.NewPost, author models.Author) (models.Post, error) {
	var out models.Post
	err := c.do(ctx, request{op: "create_post", method: http.MethodPost, base: c.dataURL, path: "/posts",
		body: createPostRequest{NewPost: in, Author: author}, out: &out})
	return out, err
}

func (c *Client) UpdatePost(ctx context.Context, postID string, in models.PostUpdate) (models.Post, error) {
	var out models.Post
	err := c.do(ctx, request{op: "update_post", method: http.MethodPut, base: c.dataURL, path: "/posts" + id(postID),
		body: in, out: &out})
	return out, err
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, request{op: "delete_post", method: http.MethodDelete, base: c.dataURL, path: "/posts" + id(postID)})
}

// LikePost returns the post with its updated like set.
func (c *Client) LikePost(ctx context.Context, postID, userID string) (models.Post, error) {
	var out models.Post
	err := c.do(ctx, request{op: "like_post", method: http.MethodPost, base: c.dataURL, path: "/posts" + id(postID) + "/like",
		body: userRef{UserID: userID}, out: &out})
	return out, err
}

// UnlikePost is a DELETE carrying the user id in its body.
func (c *Client) UnlikePost(ctx context.Context, postID, userID string) (models.Post, error) {
	var out models.Post
	err := c.do(ctx, request{op: "unlike_post", method: http.MethodDelete, base: c.dataURL, path: "/posts" + id(postID) + "/like",
		body: userRef{UserID: userID}, out: &out})
	return out, err
}

// AddComment returns the post's full comment list after the insert.
func (c *Client) AddComment(ctx context.Context, postID string, author models.Author, content string) ([]models.Comment, error) {
	var out commentsEnvelope
	err := c.do(ctx, request{op: "add_comment", method: http.MethodPost, base: c.dataURL, path: "/posts" + id(postID) + "/comments",
		body: commentRequest{Author: author, Content: content}, out: &out})
	return out.Comments, err
}

func (c *Client) ListPolls(ctx context.Context) ([]models.Poll, error) {
	var out []models.Poll
	err := c.do(ctx, request{op: "list_polls", method: http.MethodGet, base: c.dataURL, path: "/polls", out: &out})
	return out, err
}

// CreatePoll sends options with client-assigned ids and empty voter sets.
func (c *Client) CreatePoll(ctx context.Context, question string, options []models.PollOption, author models.Author) (models.Poll, error) {
	var out models.Poll
	err := c.do(ctx, request{op: "create_poll", method: http.MethodPost, base: c.dataURL, path: "/polls",
		body: createPollRequest{Question: question, Options: options, Author: author}, out: &out})
	return out, err
}

func (c *Client) UpdatePoll(ctx context.Context, pollID string, in models.PollUpdate) (models.Poll, error) {
	var out models.Poll
	err := c.do(ctx, request{op: "update_poll", method: http.MethodPut, base: c.dataURL, path: "/polls" + id(pollID),
		body: in, out: &out})
	return out, err
}

func (c *Client) DeletePoll(ctx context.Context, pollID string) error {
	return c.do(ctx, request{op: "delete_poll", method: http.MethodDelete, base: c.dataURL, path: "/polls" + id(pollID)})
}

// VotePoll returns the server's view of the poll after the vote. A duplicate
// vote fails with a CONFLICT error.
func (c *Client) VotePoll(ctx context.Context, pollID, optionID, userID string) (models.Poll, error) {
	var out models.Poll
	err := c.do(ctx, request{op: "vote_poll", method: http.MethodPost, base: c.dataURL, path: "/polls" + id(pollID) + "/vote",
		body: voteRequest{UserID: userID, OptionID: optionID}, out: &out})
	return out, err
}

func (c *Client) ListLearningMaterials(ctx context.Context) ([]models.LearningMaterial, error) {
	var out []models.LearningMaterial
	err := c.do(ctx, request{op: "list_materials", method: http.MethodGet, base: c.dataURL, path: "/learning-materials", out: &out})
	return out, err
}

func (c *Client) CreateLearningMaterial(ctx context.Context, in models.NewLearningMaterial, author models.Author) (models.LearningMaterial, error) {
	var out models.LearningMaterial
	err := c.do(ctx, request{op: "create_material", method: http.MethodPost, base: c.dataURL, path: "/learning-materials",
		body: createMaterialRequest{NewLearningMaterial: in, Author: author}, out: &out})
	return out, err
}

func (c *Client) UpdateLearningMaterial(ctx context.Context, materialID string, in models.LearningMaterialUpdate) (models.LearningMaterial, error) {
	var out models.LearningMaterial
	err := c.do(ctx, request{op: "update_material", method: http.MethodPut, base: c.dataURL, path: "/learning-materials" + id(materialID),
		body: in, out: &out})
	return out, err
}

func (c *Client) DeleteLearningMaterial(ctx context.Context, materialID string) error {
	return c.do(ctx, request{op: "delete_material", method: http.MethodDelete, base: c.dataURL, path: "/learning-materials" + id(materialID)})
}

func (c *Client) ListQuizzes(ctx context.Context) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	err := c.do(ctx, request{op: "list_quizzes", method: http.MethodGet, base: c.dataURL, path: "/quizzes", out: &out})
	return out, err
}

// RandomQuiz returns the server-chosen question set for one quiz run.
func (c *Client) RandomQuiz(ctx context.Context) ([]models.QuizQuestion, error) {
	var out []models.QuizQuestion
	err := c.do(ctx, request{op: "random_quiz", method: http.MethodGet, base: c.dataURL, path: "/quizzes/random", out: &out})
	return out, err
}

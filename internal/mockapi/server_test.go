package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"codego/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.SeedValue = 42
	return New(cfg)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := s.App().Test(req, 5000)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func register(t *testing.T, s *Server, username, email string) models.User {
	t.Helper()
	resp := doJSON(t, s, http.MethodPost, "/api/auth/register",
		map[string]string{"username": username, "email": email, "password": "secret123"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	env := decode[struct {
		User models.User `json:"user"`
	}](t, resp)
	return env.User
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t, Config{})
	u := register(t, s, "ada", "ada@example.com")
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "ada", u.Username)

	resp := doJSON(t, s, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "ADA@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, s, http.MethodGet, "/api/auth/me", nil, "Authorization", "Bearer "+u.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[models.User](t, resp)
	assert.Equal(t, u.ID, me.ID)
}

func TestAuth_Failures(t *testing.T) {
	s := newTestServer(t, Config{})
	register(t, s, "ada", "ada@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		auth   string
		status int
		errMsg string
	}{
		{"wrong password", http.MethodPost, "/api/auth/login",
			map[string]string{"email": "ada@example.com", "password": "nope"}, "", http.StatusUnauthorized, "Invalid credentials"},
		{"missing fields", http.MethodPost, "/api/auth/login",
			map[string]string{"email": ""}, "", http.StatusBadRequest, "Email and password are required"},
		{"duplicate email", http.MethodPost, "/api/auth/register",
			map[string]string{"username": "ada2", "email": "ada@example.com", "password": "secret123"}, "", http.StatusConflict, "Email already registered"},
		{"bad username", http.MethodPost, "/api/auth/register",
			map[string]string{"username": "a", "email": "x@example.com", "password": "secret123"}, "", http.StatusBadRequest, ""},
		{"bad email", http.MethodPost, "/api/auth/register",
			map[string]string{"username": "grace", "email": "nope", "password": "secret123"}, "", http.StatusBadRequest, "invalid email format"},
		{"short password", http.MethodPost, "/api/auth/register",
			map[string]string{"username": "grace", "email": "g@example.com", "password": "123"}, "", http.StatusBadRequest, "Password must be at least 6 characters"},
		{"unknown bearer", http.MethodGet, "/api/auth/me", nil, "Bearer ghost", http.StatusUnauthorized, "Invalid session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.auth != "" {
				headers = []string{"Authorization", tt.auth}
			}
			resp := doJSON(t, s, tt.method, tt.path, tt.body, headers...)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[models.ErrorResponse](t, resp)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body.Error)
			} else {
				assert.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestPosts_Lifecycle(t *testing.T) {
	s := newTestServer(t, Config{})

	resp := doJSON(t, s, http.MethodPost, "/api/posts", map[string]string{
		"title": "Hello", "description": "First post", "userId": "u1", "username": "ada",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decode[models.Post](t, resp)
	assert.Equal(t, "ada", post.Username)
	assert.Empty(t, post.Likes)

	resp = doJSON(t, s, http.MethodPost, "/api/posts/"+post.ID+"/like", map[string]string{"userId": "u2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"u2"}, decode[models.Post](t, resp).Likes)

	// Liking twice keeps one entry.
	resp = doJSON(t, s, http.MethodPost, "/api/posts/"+post.ID+"/like", map[string]string{"userId": "u2"})
	assert.Equal(t, []string{"u2"}, decode[models.Post](t, resp).Likes)

	resp = doJSON(t, s, http.MethodDelete, "/api/posts/"+post.ID+"/like", map[string]string{"userId": "u2"})
	assert.Empty(t, decode[models.Post](t, resp).Likes)

	resp = doJSON(t, s, http.MethodPost, "/api/posts/"+post.ID+"/comments", map[string]string{
		"userId": "u2", "username": "grace", "content": "nice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	thread := decode[struct {
		Comments []models.Comment `json:"comments"`
	}](t, resp)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, "nice", thread.Comments[0].Content)

	title := "Edited"
	resp = doJSON(t, s, http.MethodPut, "/api/posts/"+post.ID, models.PostUpdate{Title: &title})
	assert.Equal(t, "Edited", decode[models.Post](t, resp).Title)

	resp = doJSON(t, s, http.MethodDelete, "/api/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, s, http.MethodDelete, "/api/posts/"+post.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPosts_Validation(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doJSON(t, s, http.MethodPost, "/api/posts", map[string]string{"title": "", "userId": "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPost, "/api/posts/missing/comments", map[string]string{"content": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func createPoll(t *testing.T, s *Server) models.Poll {
	t.Helper()
	resp := doJSON(t, s, http.MethodPost, "/api/polls", map[string]interface{}{
		"question": "Best language?",
		"options": []models.PollOption{
			{ID: "go", Text: "Go", Votes: []string{"forged"}},
			{Text: "Rust"},
		},
		"userId": "u1", "username": "ada",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Poll](t, resp)
}

func TestPolls_CreateKeepsClientIDsAndClearsVotes(t *testing.T) {
	s := newTestServer(t, Config{})
	poll := createPoll(t, s)

	require.Len(t, poll.Options, 2)
	assert.Equal(t, "go", poll.Options[0].ID)
	assert.NotEmpty(t, poll.Options[1].ID)
	assert.Equal(t, 0, poll.TotalVotes())
}

func TestPolls_DuplicateVoteConflicts(t *testing.T) {
	s := newTestServer(t, Config{})
	poll := createPoll(t, s)
	path := "/api/polls/" + poll.ID + "/vote"

	resp := doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": "go"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"u2"}, decode[models.Poll](t, resp).Options[0].Votes)

	resp = doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": poll.Options[1].ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "User already voted", decode[models.ErrorResponse](t, resp).Error)

	resp = doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPolls_AllowVoteChangeMovesVote(t *testing.T) {
	s := newTestServer(t, Config{AllowVoteChange: true})
	poll := createPoll(t, s)
	path := "/api/polls/" + poll.ID + "/vote"

	doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": "go"})
	resp := doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": poll.Options[1].ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[models.Poll](t, resp)
	assert.Empty(t, out.Options[0].Votes)
	assert.Equal(t, []string{"u2"}, out.Options[1].Votes)

	resp = doJSON(t, s, http.MethodPost, path, map[string]string{"userId": "u2", "optionId": poll.Options[1].ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPolls_UpdateRejectsBlankAndUnknownOptions(t *testing.T) {
	s := newTestServer(t, Config{})
	poll := createPoll(t, s)
	path := "/api/polls/" + poll.ID

	resp := doJSON(t, s, http.MethodPut, path, map[string]string{"question": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Question cannot be empty", decode[models.ErrorResponse](t, resp).Error)

	resp = doJSON(t, s, http.MethodPut, path, map[string]interface{}{
		"options": []map[string]string{{"id": "zig", "text": "Zig"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodPut, path, map[string]interface{}{
		"question": "Favourite language?",
		"options":  []map[string]string{{"id": "go", "text": "Golang"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[models.Poll](t, resp)
	assert.Equal(t, "Favourite language?", out.Question)
	assert.Equal(t, "Golang", out.Options[0].Text)
	assert.Len(t, out.Options, 2)
}

func TestMaterials_ValidatesURL(t *testing.T) {
	s := newTestServer(t, Config{})

	resp := doJSON(t, s, http.MethodPost, "/api/learning-materials", map[string]string{
		"title": "Spec", "description": "d", "fileUrl": "https://example.com/page", "fileType": "pdf", "userId": "u1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please enter a valid PDF URL.", decode[models.ErrorResponse](t, resp).Error)

	resp = doJSON(t, s, http.MethodPost, "/api/learning-materials", map[string]string{
		"title": "Tour", "description": "d", "fileUrl": "https://go.dev/tour", "userId": "u1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	m := decode[models.LearningMaterial](t, resp)
	assert.Equal(t, models.FileTypeLink, m.FileType)

	bad := "notaurl"
	resp = doJSON(t, s, http.MethodPut, "/api/learning-materials/"+m.ID, models.LearningMaterialUpdate{FileURL: &bad})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, s, http.MethodDelete, "/api/learning-materials/"+m.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestQuizzes_RandomHonoursQuizSize(t *testing.T) {
	s := newTestServer(t, Config{QuizSize: 3})

	resp := doJSON(t, s, http.MethodGet, "/api/quizzes/random", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	questions := decode[[]models.QuizQuestion](t, resp)
	assert.Len(t, questions, 3)

	resp = doJSON(t, s, http.MethodGet, "/api/quizzes", nil)
	assert.Len(t, decode[[]models.QuizQuestion](t, resp), len(defaultQuestions()))
}

func TestSeed_PopulatesContent(t *testing.T) {
	s := newTestServer(t, Config{Seed: true})

	assert.Len(t, decode[[]models.Post](t, doJSON(t, s, http.MethodGet, "/api/posts", nil)), seedPosts)
	polls := decode[[]models.Poll](t, doJSON(t, s, http.MethodGet, "/api/polls", nil))
	require.Len(t, polls, seedPolls)
	for _, p := range polls {
		assert.GreaterOrEqual(t, len(p.Options), models.MinPollOptions)
	}

	resp := doJSON(t, s, http.MethodPost, "/api/auth/login",
		map[string]string{"email": DemoEmail, "password": DemoPassword})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_CorrelationIDAndMetrics(t *testing.T) {
	s := newTestServer(t, Config{})

	resp := doJSON(t, s, http.MethodGet, "/health", nil, "X-Correlation-ID", "corr-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "corr-1", resp.Header.Get("X-Correlation-ID"))

	resp = doJSON(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_CORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{AllowOrigins: "http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newTestServer(t, Config{})
	resp := doJSON(t, s, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, decode[models.ErrorResponse](t, resp).Error)
}

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codego/internal/models"
	"codego/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{APIBaseURL: srv.URL + "/api", AuthBaseURL: srv.URL + "/api/auth", Timeout: 2 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, DefaultAPIBaseURL, c.dataURL)
	assert.Equal(t, DefaultAuthBaseURL, c.authURL)
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = New(Options{APIBaseURL: "http://x/api/", AuthBaseURL: "http://y/auth/"})
	assert.Equal(t, "http://x/api", c.dataURL)
	assert.Equal(t, "http://y/auth", c.authURL)
}

func TestLogin_DecodesUserEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "pw", body["password"])
		_, hasUsername := body["username"]
		assert.False(t, hasUsername)

		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
			"id": "u1", "username": "ada", "followers": []string{"u1", "u2"},
		}})
	})

	u, err := c.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, []string{"u2"}, u.Followers, "self id is stripped")
}

func TestLogin_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Wrong password"})
	})

	_, err := c.Login(context.Background(), "ada@example.com", "bad")
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))
	assert.Equal(t, "Wrong password", models.ServerMessage(err))
}

func TestDecodeError_MessageFieldAndPlainText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/posts" {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Message: "title required"})
			return
		}
		http.Error(w, "<html>boom</html>", http.StatusInternalServerError)
	})

	_, err := c.CreatePost(context.Background(), models.NewPost{}, models.Author{})
	assert.True(t, models.IsValidation(err))
	assert.Equal(t, "title required", models.ServerMessage(err))

	_, err = c.ListPolls(context.Background())
	assert.Equal(t, models.CodeAPI, models.CodeOf(err))
	assert.Empty(t, models.ServerMessage(err))
}

func TestMe_SendsBearerUserID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer u1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.User{ID: "u1", Username: "ada"})
	})

	u, err := c.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestUnlikePost_DeleteWithBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/p%201/like", r.URL.EscapedPath())
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"userId":"u1"}`, string(raw))
		writeJSON(w, http.StatusOK, models.Post{ID: "p 1", Likes: []string{}})
	})

	p, err := c.UnlikePost(context.Background(), "p 1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "p 1", p.ID)
}

func TestAddComment_ReturnsCommentList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["userId"])
		assert.Equal(t, "ada", body["username"])
		assert.Equal(t, "nice", body["content"])
		writeJSON(w, http.StatusCreated, map[string]any{"comments": []models.Comment{{ID: "c1", Content: "nice"}}})
	})

	comments, err := c.AddComment(context.Background(), "p1", models.Author{UserID: "u1", Username: "ada"}, "nice")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c1", comments[0].ID)
}

func TestVotePoll_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body voteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, voteRequest{UserID: "u1", OptionID: "o1"}, body)
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "User already voted"})
	})

	_, err := c.VotePoll(context.Background(), "poll1", "o1", "u1")
	assert.True(t, models.IsConflict(err))
}

func TestCreatePoll_Payload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"question":"Best language?",
			"options":[{"id":"a","text":"Go","votes":[]},{"id":"b","text":"Rust","votes":[]}],
			"userId":"u1","username":"ada"
		}`, string(raw))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(raw)
	})

	opts := []models.PollOption{{ID: "a", Text: "Go", Votes: []string{}}, {ID: "b", Text: "Rust", Votes: []string{}}}
	p, err := c.CreatePoll(context.Background(), "Best language?", opts, models.Author{UserID: "u1", Username: "ada"})
	require.NoError(t, err)
	assert.Len(t, p.Options, 2)
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Options{APIBaseURL: srv.URL, Timeout: time.Second})

	_, err := c.ListPosts(context.Background())
	assert.Equal(t, models.CodeNetwork, models.CodeOf(err))
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{APIBaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.ListQuizzes(context.Background())
	assert.Equal(t, models.CodeNetwork, models.CodeOf(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := c.ListLearningMaterials(context.Background())
	assert.Equal(t, models.CodeInternal, models.CodeOf(err))
}

func TestDo_EmptyBodyWhenEntityExpected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	p, err := c.VotePoll(context.Background(), "q1", "o1", "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, models.CodeInternal, models.CodeOf(err))
	assert.Empty(t, p.ID)

	_, err = c.LikePost(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestDo_ForwardsCorrelationID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "corr-1", r.Header.Get("X-Correlation-ID"))
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := observability.WithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, c.DeletePoll(ctx, "p1"))
}

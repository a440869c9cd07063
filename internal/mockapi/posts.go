package mockapi

import (
	"strings"
	"time"

	"codego/internal/models"
	"codego/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createPostRequest struct {
	models.NewPost
	models.Author
}

type userRefRequest struct {
	UserID string `json:"userId"`
}

type commentRequest struct {
	models.Author
	Content string `json:"content"`
}

// ListPosts handles GET /api/posts
func (s *Server) ListPosts(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.Clone()
	}
	return c.JSON(out)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := validation.ValidatePost(req.NewPost); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, err)
	}
	if req.UserID == "" {
		return badRequest(c, "userId is required")
	}

	post := models.Post{
		ID:          uuid.NewString(),
		Author:      req.Author,
		Title:       strings.TrimSpace(req.Title),
		Image:       strings.TrimSpace(req.Image),
		Description: strings.TrimSpace(req.Description),
		Likes:       []string{},
		Comments:    []models.Comment{},
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.posts = append([]models.Post{post}, s.posts...)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req models.PostUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.posts, c.Params("id"), func(p models.Post) string { return p.ID })
	if i < 0 {
		return notFound(c, "post", c.Params("id"))
	}
	p := &s.posts[i]
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	return c.JSON(p.Clone())
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.posts, c.Params("id"), func(p models.Post) string { return p.ID })
	if i < 0 {
		return notFound(c, "post", c.Params("id"))
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.toggleLike(c, true)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return s.toggleLike(c, false)
}

func (s *Server) toggleLike(c *fiber.Ctx, like bool) error {
	var req userRefRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" {
		return badRequest(c, "userId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.posts, c.Params("id"), func(p models.Post) string { return p.ID })
	if i < 0 {
		return notFound(c, "post", c.Params("id"))
	}
	p := &s.posts[i]
	liked := p.LikedBy(req.UserID)
	switch {
	case like && !liked:
		p.Likes = append(p.Likes, req.UserID)
	case !like && liked:
		p.Likes = remove(p.Likes, req.UserID)
	}
	return c.JSON(p.Clone())
}

// AddComment handles POST /api/posts/:id/comments and returns the full thread.
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return badRequest(c, "Comment content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.posts, c.Params("id"), func(p models.Post) string { return p.ID })
	if i < 0 {
		return notFound(c, "post", c.Params("id"))
	}
	p := &s.posts[i]
	p.Comments = append(p.Comments, models.Comment{
		ID:        uuid.NewString(),
		Author:    req.Author,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"comments": p.Clone().Comments})
}

func findByID[T any](items []T, id string, idOf func(T) string) int {
	for i, v := range items {
		if idOf(v) == id {
			return i
		}
	}
	return -1
}

func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

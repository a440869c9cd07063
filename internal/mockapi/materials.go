package mockapi

import (
	"strings"
	"time"

	"codego/internal/models"
	"codego/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type createMaterialRequest struct {
	models.NewLearningMaterial
	models.Author
}

func materialID(m models.LearningMaterial) string { return m.ID }

// ListMaterials handles GET /api/learning-materials
func (s *Server) ListMaterials(c *fiber.Ctx) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.JSON(append([]models.LearningMaterial{}, s.materials...))
}

// CreateMaterial handles POST /api/learning-materials
func (s *Server) CreateMaterial(c *fiber.Ctx) error {
	var req createMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.FileType == "" {
		req.FileType = models.FileTypeLink
	}
	if err := validation.ValidateMaterial(req.NewLearningMaterial); err != nil {
		return respondWithError(c, fiber.StatusBadRequest, err)
	}
	if req.UserID == "" {
		return badRequest(c, "userId is required")
	}

	m := models.LearningMaterial{
		ID:          uuid.NewString(),
		Author:      req.Author,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		FileURL:     strings.TrimSpace(req.FileURL),
		FileType:    req.FileType,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.materials = append([]models.LearningMaterial{m}, s.materials...)
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(m)
}

// UpdateMaterial handles PUT /api/learning-materials/:id
func (s *Server) UpdateMaterial(c *fiber.Ctx) error {
	var req models.LearningMaterialUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.materials, c.Params("id"), materialID)
	if i < 0 {
		return notFound(c, "learning material", c.Params("id"))
	}
	next := s.materials[i]
	if req.Title != nil {
		next.Title = *req.Title
	}
	if req.Description != nil {
		next.Description = *req.Description
	}
	if req.FileType != nil {
		next.FileType = *req.FileType
	}
	if req.FileURL != nil {
		next.FileURL = *req.FileURL
	}
	if req.FileURL != nil || req.FileType != nil {
		if !next.FileType.Valid() {
			return badRequest(c, "File type must be pdf or link.")
		}
		if err := validation.ValidateMaterialURL(next.FileURL, next.FileType); err != nil {
			return respondWithError(c, fiber.StatusBadRequest, err)
		}
	}
	s.materials[i] = next
	return c.JSON(next)
}

// DeleteMaterial handles DELETE /api/learning-materials/:id
func (s *Server) DeleteMaterial(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := findByID(s.materials, c.Params("id"), materialID)
	if i < 0 {
		return notFound(c, "learning material", c.Params("id"))
	}
	s.materials = append(s.materials[:i], s.materials[i+1:]...)
	return c.SendStatus(fiber.StatusNoContent)
}

package store

import (
	"context"
	"errors"
	"strings"

	"codego/internal/models"
	"codego/internal/notify"
	"codego/internal/validation"
)

// AddLearningMaterial shares a PDF or link after validating its URL.
func (s *Store) AddLearningMaterial(ctx context.Context, in models.NewLearningMaterial) (models.LearningMaterial, error) {
	u, err := s.user()
	if err != nil {
		return models.LearningMaterial{}, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.FileURL = strings.TrimSpace(in.FileURL)
	if in.FileType == "" {
		in.FileType = models.FileTypeLink
	}
	if err := validation.ValidateMaterial(in); err != nil {
		title := "Error"
		if errors.Is(err, validation.ErrInvalidURL) {
			title = "Invalid URL"
		}
		var appErr *models.AppError
		msg := err.Error()
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		notify.Send(ctx, s.notifier, notify.Error(title, msg))
		return models.LearningMaterial{}, err
	}

	material, err := s.api.CreateLearningMaterial(ctx, in, models.AuthorOf(u))
	if err != nil {
		return models.LearningMaterial{}, s.fail(ctx, err, "add_material",
			notify.Error("Failed to share material", "Could not share material. Please try again."))
	}

	s.mu.Lock()
	s.materials = prepend(s.materials, material)
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "add_material", map[string]interface{}{"material_id": material.ID})
	s.emit(Event{Kind: KindMaterial, Op: OpCreate, ID: material.ID})
	notify.Send(ctx, s.notifier, notify.Info("Material shared", "Your learning material has been shared successfully."))
	return material, nil
}

// UpdateLearningMaterial sends a partial edit and replaces the cached material.
func (s *Store) UpdateLearningMaterial(ctx context.Context, id string, in models.LearningMaterialUpdate) (models.LearningMaterial, error) {
	if _, err := s.user(); err != nil {
		return models.LearningMaterial{}, err
	}
	material, err := s.api.UpdateLearningMaterial(ctx, id, in)
	if err != nil {
		return models.LearningMaterial{}, s.fail(ctx, err, "update_material",
			notify.Error("Failed to update material", "Could not update material. Please try again."))
	}

	s.mu.Lock()
	replaceByID(s.materials, id, material, materialID)
	s.mu.Unlock()

	s.emit(Event{Kind: KindMaterial, Op: OpUpdate, ID: id})
	return material, nil
}

// DeleteLearningMaterial removes a material on the server and then from the cache.
func (s *Store) DeleteLearningMaterial(ctx context.Context, id string) error {
	if _, err := s.user(); err != nil {
		return err
	}
	if err := s.api.DeleteLearningMaterial(ctx, id); err != nil {
		return s.fail(ctx, err, "delete_material",
			notify.Error("Failed to delete material", "Could not delete material. Please try again."))
	}

	s.mu.Lock()
	s.materials = removeByID(s.materials, id, materialID)
	s.mu.Unlock()

	s.logger.LogOperation(ctx, "delete_material", map[string]interface{}{"material_id": id})
	s.emit(Event{Kind: KindMaterial, Op: OpDelete, ID: id})
	notify.Send(ctx, s.notifier, notify.Info("Material deleted", "Your learning material has been removed."))
	return nil
}

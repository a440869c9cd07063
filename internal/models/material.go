package models

import "time"

// FileType is the kind of resource a learning material points at.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeLink FileType = "link"
)

// Valid reports whether t is a known file type.
func (t FileType) Valid() bool {
	return t == FileTypePDF || t == FileTypeLink
}

// LearningMaterial is a shared PDF or link.
type LearningMaterial struct {
	ID string `json:"id"`
	Author
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	FileType    FileType  `json:"fileType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a copy of the material.
func (m LearningMaterial) Clone() LearningMaterial {
	return m
}

// NewLearningMaterial is the user-supplied part of a material.
type NewLearningMaterial struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FileURL     string   `json:"fileUrl"`
	FileType    FileType `json:"fileType"`
}

// LearningMaterialUpdate is a partial material payload.
type LearningMaterialUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	FileURL     *string   `json:"fileUrl,omitempty"`
	FileType    *FileType `json:"fileType,omitempty"`
}

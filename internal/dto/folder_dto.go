package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required"`
}

type UpdateFolderRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required"`
}

type FolderResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

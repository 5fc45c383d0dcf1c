package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	FolderId *uuid.UUID `json:"folderId"`
}

// UpdateNoteRequest is a partial update: only fields that are present in
// the body are touched.
type UpdateNoteRequest struct {
	Id       uuid.UUID  `json:"-"`
	Title    *string    `json:"title"`
	Content  *string    `json:"content"`
	FolderId *uuid.UUID `json:"folderId"`
}

type ListNotesRequest struct {
	FolderId *uuid.UUID
	Search   string
}

type NoteResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	FolderId  uuid.UUID  `json:"folderId"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

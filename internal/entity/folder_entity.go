package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultFolderName is the folder a note lands in when no folder is given.
// It is created lazily on first use, once per user.
const DefaultFolderName = "Unfiled"

type Folder struct {
	Id        uuid.UUID
	Name      string
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

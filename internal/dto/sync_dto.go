package dto

import (
	"time"

	"github.com/google/uuid"
)

// Sync event types pushed to a user's other open clients.
const (
	SyncNoteCreated   = "NOTE_CREATED"
	SyncNoteUpdated   = "NOTE_UPDATED"
	SyncNoteDeleted   = "NOTE_DELETED"
	SyncFolderCreated = "FOLDER_CREATED"
	SyncFolderUpdated = "FOLDER_UPDATED"
	SyncFolderDeleted = "FOLDER_DELETED"
)

// SyncMessage travels over the in-process bus from the mutating service to
// the websocket hub.
type SyncMessage struct {
	Type     string     `json:"type"`
	UserId   uuid.UUID  `json:"user_id"`
	NoteId   *uuid.UUID `json:"note_id,omitempty"`
	FolderId *uuid.UUID `json:"folder_id,omitempty"`
	At       time.Time  `json:"at"`
}

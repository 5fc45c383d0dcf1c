package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatExchange is the audit record of a single assistant call: the question,
// how much context was attached, and what came back.
type ChatExchange struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Message      string
	ContextChars int
	Reply        string
	History      []HistoryTurn
	CreatedAt    time.Time
}

type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

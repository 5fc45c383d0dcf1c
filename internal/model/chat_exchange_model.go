package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatExchange struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Message      string         `gorm:"type:text;not null"`
	ContextChars int            `gorm:"default:0"`
	Reply        string         `gorm:"type:text"`
	History      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (ChatExchange) TableName() string {
	return "chat_exchanges"
}

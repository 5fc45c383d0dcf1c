package mapper

import (
	"encoding/json"

	"second-brain-be/internal/entity"
	"second-brain-be/internal/model"

	"gorm.io/datatypes"
)

type ChatExchangeMapper struct{}

func NewChatExchangeMapper() *ChatExchangeMapper {
	return &ChatExchangeMapper{}
}

func (m *ChatExchangeMapper) ToModel(e *entity.ChatExchange) *model.ChatExchange {
	if e == nil {
		return nil
	}

	var history datatypes.JSON
	if len(e.History) > 0 {
		if raw, err := json.Marshal(e.History); err == nil {
			history = raw
		}
	}

	return &model.ChatExchange{
		Id:           e.Id,
		UserId:       e.UserId,
		Message:      e.Message,
		ContextChars: e.ContextChars,
		Reply:        e.Reply,
		History:      history,
		CreatedAt:    e.CreatedAt,
	}
}

func (m *ChatExchangeMapper) ToEntity(c *model.ChatExchange) *entity.ChatExchange {
	if c == nil {
		return nil
	}

	var history []entity.HistoryTurn
	if len(c.History) > 0 {
		// Corrupt audit rows are tolerated, the history just comes back empty.
		_ = json.Unmarshal(c.History, &history)
	}

	return &entity.ChatExchange{
		Id:           c.Id,
		UserId:       c.UserId,
		Message:      c.Message,
		ContextChars: c.ContextChars,
		Reply:        c.Reply,
		History:      history,
		CreatedAt:    c.CreatedAt,
	}
}

func (m *ChatExchangeMapper) ToEntities(exchanges []*model.ChatExchange) []*entity.ChatExchange {
	entities := make([]*entity.ChatExchange, len(exchanges))
	for i, c := range exchanges {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

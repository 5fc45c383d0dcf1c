package contract

import (
	"context"

	"second-brain-be/internal/entity"
	"second-brain-be/internal/repository/specification"
)

type ChatExchangeRepository interface {
	Create(ctx context.Context, exchange *entity.ChatExchange) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatExchange, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

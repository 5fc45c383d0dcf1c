package implementation

import (
	"context"

	"second-brain-be/internal/entity"
	"second-brain-be/internal/mapper"
	"second-brain-be/internal/model"
	"second-brain-be/internal/repository/contract"
	"second-brain-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ChatExchangeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatExchangeMapper
}

func NewChatExchangeRepository(db *gorm.DB) contract.ChatExchangeRepository {
	return &ChatExchangeRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatExchangeMapper(),
	}
}

func (r *ChatExchangeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatExchangeRepositoryImpl) Create(ctx context.Context, exchange *entity.ChatExchange) error {
	m := r.mapper.ToModel(exchange)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*exchange = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatExchangeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatExchange, error) {
	var models []*model.ChatExchange
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ChatExchangeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatExchange{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

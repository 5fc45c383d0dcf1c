package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/entity"
	"second-brain-be/internal/pkg/logger"
	"second-brain-be/internal/repository/specification"
	"second-brain-be/internal/repository/unitofwork"

	"second-brain-be/pkg/events"
	pktNats "second-brain-be/pkg/nats"

	"github.com/google/uuid"
)

// ErrEmptyFolderName is returned when a rename collapses to nothing after
// trimming whitespace.
var ErrEmptyFolderName = errors.New("folder name cannot be empty")

type IFolderService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.FolderResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error)
}

type folderService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewFolderService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IFolderService {
	return &folderService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *folderService) publishSync(ctx context.Context, msg dto.SyncMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("folder", "failed to publish sync message", map[string]interface{}{"type": msg.Type, "error": err.Error()})
	}
}

func toFolderResponse(folder *entity.Folder) *dto.FolderResponse {
	return &dto.FolderResponse{
		Id:        folder.Id,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}
}

func (s *folderService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateFolderRequest) (*dto.FolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folder := entity.Folder{
		Id:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.FolderRepository().Create(ctx, &folder); err != nil {
		return nil, err
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:     dto.SyncFolderCreated,
		UserId:   userId,
		FolderId: &folder.Id,
		At:       time.Now(),
	})

	return toFolderResponse(&folder), nil
}

func (s *folderService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.FolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folders, err := uow.FolderRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.FolderResponse, 0, len(folders))
	for _, folder := range folders {
		response = append(response, toFolderResponse(folder))
	}
	return response, nil
}

func (s *folderService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateFolderRequest) (*dto.FolderResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, nil
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyFolderName
	}
	folder.Name = name

	now := time.Now()
	folder.UpdatedAt = &now

	if err := uow.FolderRepository().Update(ctx, folder); err != nil {
		return nil, err
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:     dto.SyncFolderUpdated,
		UserId:   userId,
		FolderId: &folder.Id,
		At:       now,
	})

	return toFolderResponse(folder), nil
}

// Delete removes the folder and every note in it. The second return value
// is false when the folder does not exist or belongs to someone else.
func (s *folderService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return false, err
	}
	if folder == nil {
		return false, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if err := uow.NoteRepository().DeleteByFolderId(ctx, id); err != nil {
		return false, err
	}

	if err := uow.FolderRepository().Delete(ctx, id); err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeFolderDeleted,
			Data: map[string]interface{}{
				"folder_id": id,
				"user_id":   userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("folder", "failed to publish FOLDER_DELETED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:     dto.SyncFolderDeleted,
		UserId:   userId,
		FolderId: &id,
		At:       time.Now(),
	})

	return true, nil
}

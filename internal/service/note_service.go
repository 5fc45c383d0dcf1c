package service

import (
	"context"
	"encoding/json"
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

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *noteService) publishSync(ctx context.Context, msg dto.SyncMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("note", "failed to publish sync message", map[string]interface{}{"type": msg.Type, "error": err.Error()})
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:        note.Id,
		Title:     note.Title,
		Content:   note.Content,
		FolderId:  note.FolderId,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// resolveDefaultFolder returns the user's "Unfiled" folder, creating it on
// first use. Callers must run it inside a transaction so two concurrent
// saves cannot both create one.
func (s *noteService) resolveDefaultFolder(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (uuid.UUID, error) {
	folder, err := uow.FolderRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByName{Name: entity.DefaultFolderName},
	)
	if err != nil {
		return uuid.Nil, err
	}
	if folder != nil {
		return folder.Id, nil
	}

	created := entity.Folder{
		Id:        uuid.New(),
		Name:      entity.DefaultFolderName,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	if err := uow.FolderRepository().Create(ctx, &created); err != nil {
		return uuid.Nil, err
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:     dto.SyncFolderCreated,
		UserId:   userId,
		FolderId: &created.Id,
		At:       time.Now(),
	})

	return created.Id, nil
}

func (s *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	var folderId uuid.UUID

	if req.FolderId != nil {
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil // target folder missing or not theirs
		}
		folderId = folder.Id
	} else {
		resolved, err := s.resolveDefaultFolder(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
		folderId = resolved
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled"
	}

	note := entity.Note{
		Id:        uuid.New(),
		Title:     title,
		Content:   req.Content,
		FolderId:  folderId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeNoteCreated,
			Data: map[string]interface{}{
				"note_id": note.Id,
				"title":   note.Title,
				"user_id": userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("note", "failed to publish NOTE_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:   dto.SyncNoteCreated,
		UserId: userId,
		NoteId: &note.Id,
		At:     time.Now(),
	})

	return toNoteResponse(&note), nil
}

func (s *noteService) GetAll(ctx context.Context, userId uuid.UUID, req *dto.ListNotesRequest) ([]*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	}

	if req.FolderId != nil {
		specs = append(specs, specification.ByFolderID{FolderID: *req.FolderId})
	}
	if req.Search != "" {
		specs = append(specs, specification.SearchTitleOrContent{Query: req.Search})
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		response = append(response, toNoteResponse(note))
	}
	return response, nil
}

func (s *noteService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	return toNoteResponse(note), nil
}

func (s *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			title = "Untitled"
		}
		note.Title = title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if req.FolderId != nil {
		// Moving a note re-checks ownership of the destination.
		folder, err := uow.FolderRepository().FindOne(ctx,
			specification.ByID{ID: *req.FolderId},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, nil
		}
		note.FolderId = folder.Id
	}

	now := time.Now()
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, err
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:   dto.SyncNoteUpdated,
		UserId: userId,
		NoteId: &note.Id,
		At:     now,
	})

	return toNoteResponse(note), nil
}

func (s *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return false, err
	}
	if note == nil {
		return false, nil
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		return false, err
	}

	s.publishSync(ctx, dto.SyncMessage{
		Type:   dto.SyncNoteDeleted,
		UserId: userId,
		NoteId: &id,
		At:     time.Now(),
	})

	return true, nil
}

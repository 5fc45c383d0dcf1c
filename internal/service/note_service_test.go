package service

import (
	"context"
	"testing"
	"time"

	"second-brain-be/internal/dto"
	"second-brain-be/internal/entity"
	"second-brain-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNoteServiceForTest() (INoteService, *fakeUowFactory, *capturingPublisher) {
	factory := newFakeUowFactory()
	publisher := &capturingPublisher{}
	svc := NewNoteService(factory, publisher, nil, noopLogger{})
	return svc, factory, publisher
}

func TestNoteCreateWithoutFolderLandsInUnfiled(t *testing.T) {
	svc, factory, _ := newNoteServiceForTest()
	userId := uuid.New()

	res, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Title:   "Groceries",
		Content: "milk, eggs",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	folder, err := factory.uow.FolderRepository().FindOne(context.Background(),
		specification.OwnedBy{UserID: userId},
		specification.ByName{Name: entity.DefaultFolderName},
	)
	require.NoError(t, err)
	require.NotNil(t, folder, "default folder should have been created")
	assert.Equal(t, folder.Id, res.FolderId)
}

func TestNoteCreateReusesExistingUnfiled(t *testing.T) {
	svc, factory, _ := newNoteServiceForTest()
	userId := uuid.New()

	first, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "one"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "two"})
	require.NoError(t, err)

	assert.Equal(t, first.FolderId, second.FolderId)

	count, err := factory.uow.FolderRepository().Count(context.Background(),
		specification.OwnedBy{UserID: userId},
		specification.ByName{Name: entity.DefaultFolderName},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "only one Unfiled folder per user")
}

func TestNoteCreateEmptyTitleDefaultsToUntitled(t *testing.T) {
	svc, _, _ := newNoteServiceForTest()

	res, err := svc.Create(context.Background(), uuid.New(), &dto.CreateNoteRequest{
		Title:   "   ",
		Content: "body",
	})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Untitled", res.Title)
}

func TestNoteCreateIntoForeignFolderIsNotFound(t *testing.T) {
	svc, factory, _ := newNoteServiceForTest()
	owner := uuid.New()
	intruder := uuid.New()

	folder := &entity.Folder{Id: uuid.New(), Name: "Private", UserId: owner, CreatedAt: time.Now()}
	require.NoError(t, factory.uow.FolderRepository().Create(context.Background(), folder))

	res, err := svc.Create(context.Background(), intruder, &dto.CreateNoteRequest{
		Title:    "sneaky",
		FolderId: &folder.Id,
	})
	require.NoError(t, err)
	assert.Nil(t, res, "foreign folder must look like it does not exist")
}

func TestNoteShowHidesOtherUsersNotes(t *testing.T) {
	svc, factory, _ := newNoteServiceForTest()
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &dto.CreateNoteRequest{Title: "mine"})
	require.NoError(t, err)
	_ = factory

	res, err := svc.Show(context.Background(), uuid.New(), created.Id)
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = svc.Show(context.Background(), owner, created.Id)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "mine", res.Title)
}

func TestNoteUpdatePartial(t *testing.T) {
	svc, _, _ := newNoteServiceForTest()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Title:   "draft",
		Content: "original",
	})
	require.NoError(t, err)

	newTitle := "final"
	res, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{
		Id:    created.Id,
		Title: &newTitle,
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "final", res.Title)
	assert.Equal(t, "original", res.Content, "untouched fields keep their value")
	assert.NotNil(t, res.UpdatedAt)
}

func TestNoteUpdateMoveChecksTargetOwnership(t *testing.T) {
	svc, factory, _ := newNoteServiceForTest()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "n"})
	require.NoError(t, err)

	foreign := &entity.Folder{Id: uuid.New(), Name: "Theirs", UserId: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, factory.uow.FolderRepository().Create(context.Background(), foreign))

	res, err := svc.Update(context.Background(), userId, &dto.UpdateNoteRequest{
		Id:       created.Id,
		FolderId: &foreign.Id,
	})
	require.NoError(t, err)
	assert.Nil(t, res)

	// note stayed where it was
	unchanged, err := svc.Show(context.Background(), userId, created.Id)
	require.NoError(t, err)
	require.NotNil(t, unchanged)
	assert.Equal(t, created.FolderId, unchanged.FolderId)
}

func TestNoteGetAllFiltersByFolderAndSearch(t *testing.T) {
	svc, _, _ := newNoteServiceForTest()
	userId := uuid.New()

	a, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "Go patterns", Content: "interfaces"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "Shopping", Content: "bread"})
	require.NoError(t, err)

	res, err := svc.GetAll(context.Background(), userId, &dto.ListNotesRequest{Search: "patterns"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, a.Id, res[0].Id)

	res, err = svc.GetAll(context.Background(), userId, &dto.ListNotesRequest{FolderId: &a.FolderId})
	require.NoError(t, err)
	assert.Len(t, res, 2, "both notes landed in Unfiled")

	res, err = svc.GetAll(context.Background(), uuid.New(), &dto.ListNotesRequest{})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestNoteDeleteIsScopedToOwner(t *testing.T) {
	svc, _, _ := newNoteServiceForTest()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateNoteRequest{Title: "doomed"})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), uuid.New(), created.Id)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = svc.Delete(context.Background(), userId, created.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	res, err := svc.Show(context.Background(), userId, created.Id)
	require.NoError(t, err)
	assert.Nil(t, res)
}

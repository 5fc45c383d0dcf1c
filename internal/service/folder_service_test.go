package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"second-brain-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFolderServiceForTest() (IFolderService, *fakeUowFactory, *capturingPublisher) {
	factory := newFakeUowFactory()
	publisher := &capturingPublisher{}
	svc := NewFolderService(factory, publisher, nil, noopLogger{})
	return svc, factory, publisher
}

func TestFolderCreateAndList(t *testing.T) {
	svc, _, publisher := newFolderServiceForTest()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "  Work  "})
	require.NoError(t, err)
	assert.Equal(t, "Work", created.Name, "name is trimmed")

	folders, err := svc.GetAll(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, created.Id, folders[0].Id)

	// other users see nothing
	folders, err = svc.GetAll(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, folders)

	require.Len(t, publisher.published(), 1)
	var msg dto.SyncMessage
	require.NoError(t, json.Unmarshal(publisher.published()[0], &msg))
	assert.Equal(t, dto.SyncFolderCreated, msg.Type)
	assert.Equal(t, userId, msg.UserId)
}

func TestFolderListNewestFirst(t *testing.T) {
	svc, _, _ := newFolderServiceForTest()
	userId := uuid.New()

	older, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "Older"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	newer, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "Newer"})
	require.NoError(t, err)

	folders, err := svc.GetAll(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, newer.Id, folders[0].Id)
	assert.Equal(t, older.Id, folders[1].Id)
}

func TestFolderUpdateRejectsBlankName(t *testing.T) {
	svc, _, _ := newFolderServiceForTest()
	userId := uuid.New()

	created, err := svc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "Inbox"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), userId, &dto.UpdateFolderRequest{Id: created.Id, Name: "   "})
	require.ErrorIs(t, err, ErrEmptyFolderName)

	res, err := svc.Update(context.Background(), userId, &dto.UpdateFolderRequest{Id: created.Id, Name: "Archive"})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Archive", res.Name)
}

func TestFolderUpdateForeignFolderIsNotFound(t *testing.T) {
	svc, _, _ := newFolderServiceForTest()

	created, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{Name: "Private"})
	require.NoError(t, err)

	res, err := svc.Update(context.Background(), uuid.New(), &dto.UpdateFolderRequest{Id: created.Id, Name: "Hijacked"})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestFolderDeleteCascadesToNotes(t *testing.T) {
	folderSvc, factory, publisher := newFolderServiceForTest()
	noteSvc := NewNoteService(factory, publisher, nil, noopLogger{})
	userId := uuid.New()

	folder, err := folderSvc.Create(context.Background(), userId, &dto.CreateFolderRequest{Name: "Project"})
	require.NoError(t, err)

	note, err := noteSvc.Create(context.Background(), userId, &dto.CreateNoteRequest{
		Title:    "task list",
		FolderId: &folder.Id,
	})
	require.NoError(t, err)

	deleted, err := folderSvc.Delete(context.Background(), userId, folder.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	folders, err := folderSvc.GetAll(context.Background(), userId)
	require.NoError(t, err)
	assert.Empty(t, folders)

	gone, err := noteSvc.Show(context.Background(), userId, note.Id)
	require.NoError(t, err)
	assert.Nil(t, gone, "notes inside a deleted folder go with it")
}

func TestFolderDeleteForeignFolderIsNotFound(t *testing.T) {
	svc, _, _ := newFolderServiceForTest()

	created, err := svc.Create(context.Background(), uuid.New(), &dto.CreateFolderRequest{Name: "Private"})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), uuid.New(), created.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

package unitofwork

import (
	"context"

	"second-brain-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	FolderRepository() contract.FolderRepository
	NoteRepository() contract.NoteRepository
	ChatExchangeRepository() contract.ChatExchangeRepository
}

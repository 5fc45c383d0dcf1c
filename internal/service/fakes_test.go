package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"second-brain-be/internal/repository/contract"
	"second-brain-be/internal/entity"
	"second-brain-be/internal/repository/specification"
	"second-brain-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// The fakes below hold entities in memory and interpret the same
// specifications the GORM implementations translate to SQL, so services can
// be exercised without a database.

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(_ context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

type filters struct {
	id       *uuid.UUID
	userId   *uuid.UUID
	name     *string
	email    *string
	folderId *uuid.UUID
	search   *string
	orderBy  *specification.OrderBy
}

func parseSpecs(specs []specification.Specification) filters {
	var f filters
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			id := spec.ID
			f.id = &id
		case specification.OwnedBy:
			uid := spec.UserID
			f.userId = &uid
		case specification.ByName:
			name := spec.Name
			f.name = &name
		case specification.ByEmail:
			email := spec.Email
			f.email = &email
		case specification.ByFolderID:
			fid := spec.FolderID
			f.folderId = &fid
		case specification.SearchTitleOrContent:
			q := spec.Query
			f.search = &q
		case specification.OrderBy:
			ob := spec
			f.orderBy = &ob
		}
	}
	return f
}

// --- Folder repository ---

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[uuid.UUID]*entity.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[uuid.UUID]*entity.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *entity.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *folder
	r.folders[folder.Id] = &clone
	return nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *entity.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *folder
	r.folders[folder.Id] = &clone
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) matches(folder *entity.Folder, f filters) bool {
	if f.id != nil && folder.Id != *f.id {
		return false
	}
	if f.userId != nil && folder.UserId != *f.userId {
		return false
	}
	if f.name != nil && folder.Name != *f.name {
		return false
	}
	return true
}

func (r *fakeFolderRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, folder := range r.folders {
		if r.matches(folder, f) {
			clone := *folder
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeFolderRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.Folder
	for _, folder := range r.folders {
		if r.matches(folder, f) {
			clone := *folder
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if f.orderBy != nil && f.orderBy.Desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeFolderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- Note repository ---

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*entity.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]*entity.Note)}
}

func (r *fakeNoteRepo) Create(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *note
	r.notes[note.Id] = &clone
	return nil
}

func (r *fakeNoteRepo) Update(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *note
	r.notes[note.Id] = &clone
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) DeleteByFolderId(_ context.Context, folderId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, note := range r.notes {
		if note.FolderId == folderId {
			delete(r.notes, id)
		}
	}
	return nil
}

func (r *fakeNoteRepo) matches(note *entity.Note, f filters) bool {
	if f.id != nil && note.Id != *f.id {
		return false
	}
	if f.userId != nil && note.UserId != *f.userId {
		return false
	}
	if f.folderId != nil && note.FolderId != *f.folderId {
		return false
	}
	if f.search != nil {
		q := strings.ToLower(*f.search)
		if !strings.Contains(strings.ToLower(note.Title), q) &&
			!strings.Contains(strings.ToLower(note.Content), q) {
			return false
		}
	}
	return true
}

func (r *fakeNoteRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, note := range r.notes {
		if r.matches(note, f) {
			clone := *note
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeNoteRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	var out []*entity.Note
	for _, note := range r.notes {
		if r.matches(note, f) {
			clone := *note
			out = append(out, &clone)
		}
	}
	if f.orderBy != nil && f.orderBy.Field == "updated_at" && f.orderBy.Desc {
		sort.Slice(out, func(i, j int) bool {
			ti := out[i].CreatedAt
			if out[i].UpdatedAt != nil {
				ti = *out[i].UpdatedAt
			}
			tj := out[j].CreatedAt
			if out[j].UpdatedAt != nil {
				tj = *out[j].UpdatedAt
			}
			return ti.After(tj)
		})
	}
	return out, nil
}

func (r *fakeNoteRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

// --- User repository ---

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*entity.User
	tokens map[uuid.UUID]*entity.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uuid.UUID]*entity.User),
		tokens: make(map[uuid.UUID]*entity.RefreshToken),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.Id] = &clone
	return nil
}

func (r *fakeUserRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := parseSpecs(specs)
	for _, user := range r.users {
		if f.id != nil && user.Id != *f.id {
			continue
		}
		if f.email != nil && user.Email != *f.email {
			continue
		}
		clone := *user
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *token
	r.tokens[token.Id] = &clone
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(_ context.Context, specs ...specification.Specification) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var hash *string
	for _, s := range specs {
		if spec, ok := s.(specification.ByTokenHash); ok {
			h := spec.Hash
			hash = &h
		}
	}
	for _, token := range r.tokens {
		if hash != nil && token.TokenHash != *hash {
			continue
		}
		clone := *token
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			token.Revoked = true
		}
	}
	return nil
}

func (r *fakeUserRepo) DeleteExpiredRefreshTokens(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, token := range r.tokens {
		if token.UserId == userId && token.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
		}
	}
	return nil
}

// --- Chat exchange repository ---

type fakeChatExchangeRepo struct {
	mu        sync.Mutex
	exchanges []*entity.ChatExchange
}

func (r *fakeChatExchangeRepo) Create(_ context.Context, exchange *entity.ChatExchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *exchange
	r.exchanges = append(r.exchanges, &clone)
	return nil
}

func (r *fakeChatExchangeRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatExchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*entity.ChatExchange(nil), r.exchanges...), nil
}

func (r *fakeChatExchangeRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.exchanges)), nil
}

// --- Unit of work ---

type fakeUnitOfWork struct {
	users     *fakeUserRepo
	folders   *fakeFolderRepo
	notes     *fakeNoteRepo
	exchanges *fakeChatExchangeRepo
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error               { return nil }
func (u *fakeUnitOfWork) Rollback() error             { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository                 { return u.users }
func (u *fakeUnitOfWork) FolderRepository() contract.FolderRepository             { return u.folders }
func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository                 { return u.notes }
func (u *fakeUnitOfWork) ChatExchangeRepository() contract.ChatExchangeRepository { return u.exchanges }

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func newFakeUowFactory() *fakeUowFactory {
	return &fakeUowFactory{
		uow: &fakeUnitOfWork{
			users:     newFakeUserRepo(),
			folders:   newFakeFolderRepo(),
			notes:     newFakeNoteRepo(),
			exchanges: &fakeChatExchangeRepo{},
		},
	}
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return f.uow
}

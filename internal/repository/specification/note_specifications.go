package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByFolderID struct {
	FolderID uuid.UUID
}

func (s ByFolderID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("folder_id = ?", s.FolderID)
}

// SearchTitleOrContent matches a case-insensitive substring against the
// note title OR its content blob. The query is treated as a literal, so
// `%` and `_` in user input do not act as wildcards.
type SearchTitleOrContent struct {
	Query string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s SearchTitleOrContent) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(s.Query) + "%"
	return db.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
}

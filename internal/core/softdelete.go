// AngelaMos | 2026
// softdelete.go

package core

import (
	"time"
)

type SoftDeletable interface {
	IsDeleted() bool
	MarkDeleted(at time.Time)
	ClearDeleted()
}

// SoftDelete is embedded by entities whose rows are hidden rather than
// removed. sqlx flattens it into the deleted_at column.
type SoftDelete struct {
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

func (s *SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.DeletedAt = &at
}

func (s *SoftDelete) ClearDeleted() {
	s.DeletedAt = nil
}

// Scope tells a repository whether soft-deleted rows are visible.
type Scope struct {
	IncludeDeleted bool
}

var (
	ActiveOnly  = Scope{}
	WithDeleted = Scope{IncludeDeleted: true}
)

func ScopeFor(includeDeleted bool) Scope {
	return Scope{IncludeDeleted: includeDeleted}
}

// Predicate returns the SQL condition for the given table alias, or "TRUE"
// when deleted rows are included.
func (s Scope) Predicate(alias string) string {
	if s.IncludeDeleted {
		return "TRUE"
	}
	if alias == "" {
		return "deleted_at IS NULL"
	}
	return alias + ".deleted_at IS NULL"
}

// Visible reports whether an entity passes the scope.
func (s Scope) Visible(e SoftDeletable) bool {
	return s.IncludeDeleted || !e.IsDeleted()
}

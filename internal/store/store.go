// Package store implements the generic persistence engine. It is the
// single choke point for entity reads and writes: services, handlers and
// the audit recorder all go through a Store rather than touching gorm.DB
// directly. Each mutation runs in its own transaction and either fully
// commits or fully rolls back.
package store

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/automeet/automeet/backend/internal/metrics"
)

// Entity is the contract a model must satisfy to be managed by a Store.
// The metadata is declared statically per type instead of introspecting
// the live schema, so the engine can build filter and search clauses
// without a catalog round trip.
type Entity interface {
	// PrimaryKeyColumn is the column name of the primary key ("uuid" or "id").
	PrimaryKeyColumn() string
	// PrimaryKey returns the current primary-key value.
	PrimaryKey() any
	// SearchableColumns lists the text columns substring search runs over.
	SearchableColumns() []string
	// Preloads lists the relation names eager loading resolves.
	Preloads() []string
	// SoftDelete reports whether Remove deactivates instead of deleting.
	SoftDelete() bool
}

// ListOptions controls pagination, filtering and search for List.
type ListOptions struct {
	Skip              int
	Limit             int            // defaults to 100 when <= 0
	Filters           map[string]any // column name -> required value, ANDed
	Search            string         // case-insensitive substring, ORed over searchable columns
	WithRelationships bool
}

// Store performs create/read/update/delete for a single entity type.
type Store[T Entity] struct {
	db *gorm.DB
}

// New returns a Store bound to the given database handle.
func New[T Entity](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func entityName[T Entity]() string {
	var zero T
	return reflect.TypeOf(zero).Name()
}

// Get fetches one row by primary key. Relationships declared by the
// entity are eager-loaded unless withRelationships is false.
func (s *Store[T]) Get(id any, withRelationships bool) (*T, error) {
	var zero T
	q := s.db
	if withRelationships {
		for _, rel := range zero.Preloads() {
			q = q.Preload(rel)
		}
	}

	var out T
	err := q.First(&out, fmt.Sprintf("%s = ?", zero.PrimaryKeyColumn()), id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	return &out, nil
}

// List returns a page of rows ordered by primary key. Filters are ANDed
// equality matches; Search is a case-insensitive substring match ORed
// across the entity's searchable columns.
func (s *Store[T]) List(opts ListOptions) ([]T, error) {
	var zero T
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	q := s.db.Model(&zero)
	if len(opts.Filters) > 0 {
		q = q.Where(opts.Filters)
	}
	if opts.Search != "" {
		if clause, args := searchClause(zero.SearchableColumns(), opts.Search); clause != "" {
			q = q.Where(clause, args...)
		}
	}
	if opts.WithRelationships {
		for _, rel := range zero.Preloads() {
			q = q.Preload(rel)
		}
	}

	var out []T
	err := q.Order(zero.PrimaryKeyColumn()).Offset(opts.Skip).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return out, nil
}

// Count returns the number of rows matching the filters.
func (s *Store[T]) Count(filters map[string]any) (int64, error) {
	var zero T
	q := s.db.Model(&zero)
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

// Create persists obj and returns the materialized row, including
// generated keys, defaults and timestamps.
func (s *Store[T]) Create(obj *T) (*T, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(obj).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "create", Err: err}
	}
	metrics.IncStoreMutation(entityName[T](), "create")
	return s.Get((*obj).PrimaryKey(), true)
}

// Update applies the given column values onto existing and returns the
// refreshed row. Keys absent from fields are left untouched; keys mapped
// to nil are stored as NULL.
func (s *Store[T]) Update(existing *T, fields map[string]any) (*T, error) {
	if len(fields) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(existing).Updates(fields).Error
		})
		if err != nil {
			return nil, &StorageError{Op: "update", Err: err}
		}
		metrics.IncStoreMutation(entityName[T](), "update")
	}
	return s.Get((*existing).PrimaryKey(), true)
}

// Remove deactivates soft-delete entities and permanently deletes the
// rest. The returned value is the row's final in-memory state.
func (s *Store[T]) Remove(existing *T) (*T, error) {
	var zero T
	if zero.SoftDelete() {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Model(existing).Update("is_active", false).Error
		})
		if err != nil {
			return nil, &StorageError{Op: "remove", Err: err}
		}
		metrics.IncStoreMutation(entityName[T](), "soft_delete")
		return s.Get((*existing).PrimaryKey(), true)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(existing).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "remove", Err: err}
	}
	metrics.IncStoreMutation(entityName[T](), "delete")
	return existing, nil
}

// IncrementField adds amount to the named column, treating NULL as zero,
// and returns the refreshed row. Used for counters such as view counts.
func (s *Store[T]) IncrementField(existing *T, field string, amount int) (*T, error) {
	if !identPattern.MatchString(field) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		expr := gorm.Expr(fmt.Sprintf("COALESCE(%s, 0) + ?", field), amount)
		return tx.Model(existing).UpdateColumn(field, expr).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "increment", Err: err}
	}
	metrics.IncStoreMutation(entityName[T](), "increment")
	return s.Get((*existing).PrimaryKey(), true)
}

func searchClause(columns []string, search string) (string, []any) {
	if len(columns) == 0 {
		return "", nil
	}
	needle := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
		args[i] = needle
	}
	return strings.Join(conds, " OR "), args
}

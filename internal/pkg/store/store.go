// Package store defines the persistence contract every aggregate service
// depends on, with an in-memory and a gorm-backed implementation.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by GetByID when no record exists under the id.
// Services translate it before it crosses a service boundary.
var ErrNotFound = errors.New("store: record not found")

// Store persists records of one aggregate type keyed by ID.
//
// GetAll never returns a nil slice. Upsert replaces the record stored under
// the record's identity, or assigns a fresh identity when the scalar identity
// is zero. DeleteByID of a missing id succeeds without effect.
type Store[ID comparable, T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id ID) (T, error)
	Upsert(ctx context.Context, record T) (T, error)
	DeleteByID(ctx context.Context, id ID) error
	Find(ctx context.Context, filter Filter[T]) ([]T, error)
}

// Filter selects records. Match is evaluated by the memory store and Scope
// by the gorm store; a filter must provide both with the same meaning.
type Filter[T any] struct {
	Match func(T) bool
	Scope func(*gorm.DB) *gorm.DB
}

// Where builds a filter from its two renditions.
func Where[T any](match func(T) bool, scope func(*gorm.DB) *gorm.DB) Filter[T] {
	return Filter[T]{Match: match, Scope: scope}
}

// Column builds a filter on a single column equality, read from the record
// with get.
func Column[T any, V comparable](column string, value V, get func(T) V) Filter[T] {
	return Filter[T]{
		Match: func(r T) bool { return get(r) == value },
		Scope: func(db *gorm.DB) *gorm.DB { return db.Where(map[string]any{column: value}) },
	}
}

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists an aggregate and its owned associations through gorm.
// Associations are preloaded on every read and saved with the root on
// Upsert; the prune hook removes owned rows the new record no longer holds.
type GormStore[ID comparable, T any] struct {
	db    *gorm.DB
	where func(ID) map[string]any
	prune func(tx *gorm.DB, record *T) error
}

var _ Store[int, struct{}] = (*GormStore[int, struct{}])(nil)

// NewGormStore builds a store over db. where maps an identity to the
// column values selecting it, so composite keys work like scalar ones.
func NewGormStore[ID comparable, T any](db *gorm.DB, where func(ID) map[string]any) *GormStore[ID, T] {
	return &GormStore[ID, T]{db: db, where: where}
}

// WithPrune sets the hook run inside the Upsert transaction after the save.
func (s *GormStore[ID, T]) WithPrune(fn func(tx *gorm.DB, record *T) error) *GormStore[ID, T] {
	s.prune = fn
	return s
}

func (s *GormStore[ID, T]) GetAll(ctx context.Context) ([]T, error) {
	out := make([]T, 0)
	if err := s.db.WithContext(ctx).Preload(clause.Associations).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: get all: %w", err)
	}
	return out, nil
}

func (s *GormStore[ID, T]) GetByID(ctx context.Context, id ID) (T, error) {
	var rec T
	err := s.db.WithContext(ctx).Preload(clause.Associations).Where(s.where(id)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("store: get %v: %w", id, err)
	}
	return rec, nil
}

func (s *GormStore[ID, T]) Upsert(ctx context.Context, record T) (T, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&record).Error; err != nil {
			return err
		}
		if s.prune != nil {
			return s.prune(tx, &record)
		}
		return nil
	})
	if err != nil {
		var zero T
		return zero, fmt.Errorf("store: upsert: %w", err)
	}
	return record, nil
}

func (s *GormStore[ID, T]) DeleteByID(ctx context.Context, id ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec T
		err := tx.Where(s.where(id)).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("store: delete %v: %w", id, err)
		}
		if err := tx.Select(clause.Associations).Delete(&rec).Error; err != nil {
			return fmt.Errorf("store: delete %v: %w", id, err)
		}
		return nil
	})
}

func (s *GormStore[ID, T]) Find(ctx context.Context, filter Filter[T]) ([]T, error) {
	q := s.db.WithContext(ctx).Preload(clause.Associations)
	if filter.Scope != nil {
		q = filter.Scope(q)
	}
	out := make([]T, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: find: %w", err)
	}
	return out, nil
}

// IntKey selects a record by a single integer column.
func IntKey(column string) func(int) map[string]any {
	return func(id int) map[string]any { return map[string]any{column: id} }
}

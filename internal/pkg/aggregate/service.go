// Package aggregate implements the operations every aggregate service
// shares: read, save, full-replace update and delete over a store, with
// mapping to transfer objects and an optional composition step that
// attaches references to aggregates owned elsewhere.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/apperr"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/identity"
	"github.com/jcmexdev/ecommerce-aggregates/internal/pkg/store"
)

// Mapper converts between the stored record and its transfer object.
type Mapper[D, DTO any] struct {
	ToDTO   func(D) DTO
	FromDTO func(DTO) D
}

// Identity describes how an aggregate is addressed.
type Identity[ID comparable, DTO any] struct {
	Of  func(DTO) ID
	Set func(*DTO, ID)
	// Valid reports whether id is fully populated.
	Valid func(ID) bool
	// Assigned is true when the store picks identities for new records.
	// Aggregates without it must arrive with a valid identity on Save.
	Assigned bool
}

// ComposeFunc attaches foreign references to dto. It must not write.
type ComposeFunc[DTO any] func(ctx context.Context, dto *DTO) error

// WriteHook runs after a successful write or delete of id.
type WriteHook[ID any] func(ctx context.Context, id ID)

// CheckFunc rejects a transfer object before it reaches the store.
type CheckFunc[DTO any] func(dto DTO) error

type Option[ID comparable, D, DTO any] func(*Service[ID, D, DTO])

func WithCompose[ID comparable, D, DTO any](fn ComposeFunc[DTO]) Option[ID, D, DTO] {
	return func(s *Service[ID, D, DTO]) { s.compose = fn }
}

func WithWriteHook[ID comparable, D, DTO any](fn WriteHook[ID]) Option[ID, D, DTO] {
	return func(s *Service[ID, D, DTO]) { s.afterWrite = fn }
}

// WithCheck runs fn on every Save, Update and UpdateByID.
func WithCheck[ID comparable, D, DTO any](fn CheckFunc[DTO]) Option[ID, D, DTO] {
	return func(s *Service[ID, D, DTO]) { s.check = fn }
}

type Service[ID comparable, D, DTO any] struct {
	kind       identity.Kind
	store      store.Store[ID, D]
	mapper     Mapper[D, DTO]
	id         Identity[ID, DTO]
	compose    ComposeFunc[DTO]
	afterWrite WriteHook[ID]
	check      CheckFunc[DTO]
}

func New[ID comparable, D, DTO any](
	kind identity.Kind,
	s store.Store[ID, D],
	mapper Mapper[D, DTO],
	id Identity[ID, DTO],
	opts ...Option[ID, D, DTO],
) *Service[ID, D, DTO] {
	svc := &Service[ID, D, DTO]{kind: kind, store: s, mapper: mapper, id: id}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *Service[ID, D, DTO]) Kind() identity.Kind { return s.kind }

func (s *Service[ID, D, DTO]) FindAll(ctx context.Context) ([]DTO, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: find all: %w", s.kind, err)
	}
	return s.composeAll(ctx, records)
}

// Find returns the records matching filter, composed like FindAll.
func (s *Service[ID, D, DTO]) Find(ctx context.Context, filter store.Filter[D]) ([]DTO, error) {
	records, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", s.kind, err)
	}
	return s.composeAll(ctx, records)
}

// LookupWhere is Find without composition.
func (s *Service[ID, D, DTO]) LookupWhere(ctx context.Context, filter store.Filter[D]) ([]DTO, error) {
	records, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", s.kind, err)
	}
	out := make([]DTO, 0, len(records))
	for _, rec := range records {
		out = append(out, s.mapper.ToDTO(rec))
	}
	return out, nil
}

func (s *Service[ID, D, DTO]) FindByID(ctx context.Context, id ID) (DTO, error) {
	dto, err := s.Lookup(ctx, id)
	if err != nil {
		return dto, err
	}
	if s.compose != nil {
		if err := s.compose(ctx, &dto); err != nil {
			var zero DTO
			return zero, err
		}
	}
	return dto, nil
}

// Lookup returns the transfer object without composing references. Other
// services resolve references through it, which keeps composition acyclic.
func (s *Service[ID, D, DTO]) Lookup(ctx context.Context, id ID) (DTO, error) {
	var zero DTO
	if err := s.checkID(id); err != nil {
		return zero, err
	}
	rec, err := s.store.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return zero, s.kind.NotFound(id)
	}
	if err != nil {
		return zero, fmt.Errorf("%s: get %v: %w", s.kind, id, err)
	}
	return s.mapper.ToDTO(rec), nil
}

// Save stores dto as given. Values are not validated beyond identity shape
// and the WithCheck function.
func (s *Service[ID, D, DTO]) Save(ctx context.Context, dto DTO) (DTO, error) {
	if !s.id.Assigned {
		if err := s.checkID(s.id.Of(dto)); err != nil {
			var zero DTO
			return zero, err
		}
	}
	return s.write(ctx, dto)
}

// Update fully replaces the aggregate identified by dto.
func (s *Service[ID, D, DTO]) Update(ctx context.Context, dto DTO) (DTO, error) {
	if !s.id.Valid(s.id.Of(dto)) {
		var zero DTO
		return zero, apperr.Invalid("%s update requires an identity", s.kind)
	}
	return s.write(ctx, dto)
}

// UpdateByID is Update with the identity taken from id, overriding any
// identity carried in dto.
func (s *Service[ID, D, DTO]) UpdateByID(ctx context.Context, id ID, dto DTO) (DTO, error) {
	if err := s.checkID(id); err != nil {
		var zero DTO
		return zero, err
	}
	s.id.Set(&dto, id)
	return s.write(ctx, dto)
}

// DeleteByID removes the aggregate. Deleting a missing identity succeeds.
func (s *Service[ID, D, DTO]) DeleteByID(ctx context.Context, id ID) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%s: delete %v: %w", s.kind, id, err)
	}
	slog.InfoContext(ctx, "aggregate deleted", "kind", s.kind, "id", id)
	if s.afterWrite != nil {
		s.afterWrite(ctx, id)
	}
	return nil
}

func (s *Service[ID, D, DTO]) write(ctx context.Context, dto DTO) (DTO, error) {
	if s.check != nil {
		if err := s.check(dto); err != nil {
			var zero DTO
			return zero, err
		}
	}
	saved, err := s.store.Upsert(ctx, s.mapper.FromDTO(dto))
	if err != nil {
		var zero DTO
		return zero, fmt.Errorf("%s: save: %w", s.kind, err)
	}
	out := s.mapper.ToDTO(saved)
	id := s.id.Of(out)
	slog.InfoContext(ctx, "aggregate saved", "kind", s.kind, "id", id)
	if s.afterWrite != nil {
		s.afterWrite(ctx, id)
	}
	return out, nil
}

func (s *Service[ID, D, DTO]) composeAll(ctx context.Context, records []D) ([]DTO, error) {
	out := make([]DTO, 0, len(records))
	for _, rec := range records {
		dto := s.mapper.ToDTO(rec)
		if s.compose != nil {
			if err := s.compose(ctx, &dto); err != nil {
				return nil, err
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *Service[ID, D, DTO]) checkID(id ID) error {
	if !s.id.Valid(id) {
		return s.kind.Invalid(id)
	}
	return nil
}

// ScalarIdentity is the Identity of aggregates keyed by a store-assigned int.
func ScalarIdentity[DTO any](of func(DTO) int, set func(*DTO, int)) Identity[int, DTO] {
	return Identity[int, DTO]{Of: of, Set: set, Valid: identity.ValidID, Assigned: true}
}

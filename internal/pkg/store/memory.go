package store

import (
	"context"
	"sync"
)

// Sequence hands out increasing identities per name. Assign hooks run under
// the store lock, so Sequence needs no locking of its own.
type Sequence struct {
	last map[string]int
}

// Next returns the next unused value for name.
func (s *Sequence) Next(name string) int {
	if s.last == nil {
		s.last = make(map[string]int)
	}
	s.last[name]++
	return s.last[name]
}

// Observe records an externally chosen value so Next never reissues it.
func (s *Sequence) Observe(name string, v int) {
	if s.last == nil {
		s.last = make(map[string]int)
	}
	if v > s.last[name] {
		s.last[name] = v
	}
}

type MemoryOption[T any] func(*memoryConfig[T])

type memoryConfig[T any] struct {
	assign func(*T, *Sequence)
	clone  func(T) T
}

// WithAssign installs the hook that fills in missing identities on Upsert.
func WithAssign[T any](fn func(record *T, seq *Sequence)) MemoryOption[T] {
	return func(c *memoryConfig[T]) { c.assign = fn }
}

// WithClone installs a deep copy for records holding slices or pointers.
func WithClone[T any](fn func(T) T) MemoryOption[T] {
	return func(c *memoryConfig[T]) { c.clone = fn }
}

// MemoryStore keeps records in a map guarded by a RWMutex. GetAll returns
// records in insertion order.
type MemoryStore[ID comparable, T any] struct {
	mu      sync.RWMutex
	records map[ID]T
	order   []ID
	key     func(T) ID
	seq     Sequence
	cfg     memoryConfig[T]
}

var _ Store[int, struct{}] = (*MemoryStore[int, struct{}])(nil)

func NewMemoryStore[ID comparable, T any](key func(T) ID, opts ...MemoryOption[T]) *MemoryStore[ID, T] {
	s := &MemoryStore[ID, T]{
		records: make(map[ID]T),
		key:     key,
	}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

func (s *MemoryStore[ID, T]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.copy(s.records[id]))
	}
	return out, nil
}

func (s *MemoryStore[ID, T]) GetByID(ctx context.Context, id ID) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return zero, ErrNotFound
	}
	return s.copy(rec), nil
}

func (s *MemoryStore[ID, T]) Upsert(ctx context.Context, record T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record = s.copy(record)
	if s.cfg.assign != nil {
		s.cfg.assign(&record, &s.seq)
	}
	id := s.key(record)
	if _, exists := s.records[id]; !exists {
		s.order = append(s.order, id)
	}
	s.records[id] = record
	return s.copy(record), nil
}

func (s *MemoryStore[ID, T]) DeleteByID(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore[ID, T]) Find(ctx context.Context, filter Filter[T]) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0)
	for _, id := range s.order {
		rec := s.records[id]
		if filter.Match == nil || filter.Match(rec) {
			out = append(out, s.copy(rec))
		}
	}
	return out, nil
}

func (s *MemoryStore[ID, T]) copy(rec T) T {
	if s.cfg.clone == nil {
		return rec
	}
	return s.cfg.clone(rec)
}

// AssignInt fills *id from the named sequence when it is zero, or records
// it otherwise.
func AssignInt(seq *Sequence, name string, id *int) {
	if *id == 0 {
		*id = seq.Next(name)
		return
	}
	seq.Observe(name, *id)
}

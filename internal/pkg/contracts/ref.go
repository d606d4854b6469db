package contracts

// RefState tells whether a foreign aggregate was found when the reference
// was resolved.
type RefState string

const (
	RefResolved RefState = "resolved"
	RefAbsent   RefState = "absent"
)

// Ref is a reference by identity to an aggregate owned by another service.
// A nil *Ref means no resolution was attempted. An absent Ref means the
// owning service answered that the aggregate does not exist.
type Ref[T any] struct {
	State RefState `json:"state"`
	Value *T       `json:"value,omitempty"`
}

func Resolved[T any](v T) *Ref[T] {
	return &Ref[T]{State: RefResolved, Value: &v}
}

func Absent[T any]() *Ref[T] {
	return &Ref[T]{State: RefAbsent}
}

func (r *Ref[T]) IsResolved() bool { return r != nil && r.State == RefResolved && r.Value != nil }

func (r *Ref[T]) IsAbsent() bool { return r != nil && r.State == RefAbsent }

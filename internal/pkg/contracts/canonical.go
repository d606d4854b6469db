package contracts

// Collection applies the single absent-value rule for owned collections:
// an absent collection is an empty, non-nil slice on both sides of the
// mapping layer. Absent single values stay nil pointers.
func Collection[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

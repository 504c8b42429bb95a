package flver

// arena holds a pool of decoded records waiting to be claimed by the meshes
// or materials that own them. Each entry may be claimed exactly once.
type arena[T any] struct {
	kind    string
	slots   []T
	claimed []bool
}

func newArena[T any](kind string, slots []T) *arena[T] {
	return &arena[T]{
		kind:    kind,
		slots:   slots,
		claimed: make([]bool, len(slots)),
	}
}

// claim hands the entry at index to its owner, removing it from the pool.
func (a *arena[T]) claim(index int) (T, error) {
	if index < 0 || index >= len(a.slots) || a.claimed[index] {
		var zero T
		return zero, MissingReferenceError{Pool: a.kind, Index: index}
	}
	a.claimed[index] = true
	return a.slots[index], nil
}

// leftover returns the indices of entries nothing claimed, in pool order.
func (a *arena[T]) leftover() []int {
	var left []int
	for i, c := range a.claimed {
		if !c {
			left = append(left, i)
		}
	}
	return left
}

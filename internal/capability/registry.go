package capability

import "fmt"

// Func is a level-specific implementation of an operation.
type Func[A, R any] func(args A) (R, error)

// Registry maps (capability, level) pairs to implementations of a single
// logical operation.
//
// Several pairs may share one implementation (see RegisterShared). The
// shared identity is what makes overlapping capability names compatible
// during resolution.
//
// Registries are populated once at load time and read-only afterwards.
// Register is not synchronised; callers must not register concurrently with
// lookups.
type Registry[A, R any] struct {
	operation string
	entries   map[Key]int // key -> index into impls
	impls     []Func[A, R]
}

// NewRegistry creates an empty registry for the named operation.
func NewRegistry[A, R any](operation string) *Registry[A, R] {
	return &Registry[A, R]{
		operation: operation,
		entries:   make(map[Key]int),
	}
}

// Operation returns the logical operation name.
func (r *Registry[A, R]) Operation() string {
	return r.operation
}

// Register adds an implementation for one (capability, level) pair.
// Returns ErrDuplicateRegistration if the pair already has an entry.
func (r *Registry[A, R]) Register(capability, level string, fn Func[A, R]) error {
	return r.RegisterShared([]Key{K(capability, level)}, fn)
}

// RegisterShared adds one implementation under every given pair.
//
// All pairs are checked before anything is inserted, so a duplicate leaves
// the registry unchanged.
func (r *Registry[A, R]) RegisterShared(keys []Key, fn Func[A, R]) error {
	if fn == nil {
		return fmt.Errorf("%w: operation %q", ErrNilImplementation, r.operation)
	}

	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := r.entries[k]; ok {
			return fmt.Errorf("%w: operation %q already has %s", ErrDuplicateRegistration, r.operation, k)
		}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: operation %q lists %s twice", ErrDuplicateRegistration, r.operation, k)
		}
		seen[k] = struct{}{}
	}

	idx := len(r.impls)
	r.impls = append(r.impls, fn)
	for _, k := range keys {
		r.entries[k] = idx
	}
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for package-level tables so defects fail at start-up.
func (r *Registry[A, R]) MustRegister(capability, level string, fn Func[A, R]) *Registry[A, R] {
	if err := r.Register(capability, level, fn); err != nil {
		panic(err)
	}
	return r
}

// MustRegisterShared is like RegisterShared but panics on error.
func (r *Registry[A, R]) MustRegisterShared(keys []Key, fn Func[A, R]) *Registry[A, R] {
	if err := r.RegisterShared(keys, fn); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the implementation registered for the pair, if any.
func (r *Registry[A, R]) Lookup(capability, level string) (Func[A, R], bool) {
	idx, ok := r.entries[K(capability, level)]
	if !ok {
		return nil, false
	}
	return r.impls[idx], true
}

// Keys returns every registered pair, sorted.
func (r *Registry[A, R]) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Len returns the number of registered pairs.
func (r *Registry[A, R]) Len() int {
	return len(r.entries)
}

// implID returns the implementation identity for a registered key.
func (r *Registry[A, R]) implID(k Key) (int, bool) {
	idx, ok := r.entries[k]
	return idx, ok
}

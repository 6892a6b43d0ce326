package capability

import "fmt"

// Handle is the result of resolving one operation for one robot.
//
// It can be queried for support without invoking anything. Handles hold no
// mutable state; resolving again with the same inputs yields an equivalent
// handle.
type Handle[A, R any] struct {
	operation string
	declared  Declaration
	available []Key
	selected  Key
	fn        Func[A, R]
	err       error
}

// Resolve intersects the robot's declared pairs with the pairs registered
// for the operation and binds the matching implementation.
//
// Zero matches is not an error: the handle reports Supported() == false and
// Invoke fails with ErrUnsupportedOperation. When several matches exist the
// lexicographically smallest key is selected. If the matches span more than
// one capability name and point at different implementations, the handle
// carries an ErrAmbiguousCapability diagnostic and refuses to invoke.
func Resolve[A, R any](decl Declaration, reg *Registry[A, R]) *Handle[A, R] {
	h := &Handle[A, R]{
		operation: reg.Operation(),
		declared:  decl,
	}

	for _, k := range decl.Keys() {
		if _, ok := reg.implID(k); ok {
			h.available = append(h.available, k)
		}
	}
	if len(h.available) == 0 {
		return h
	}

	// decl.Keys() is sorted, so available is too; the first entry is the smallest.
	h.selected = h.available[0]
	selectedID, _ := reg.implID(h.selected)
	h.fn = reg.impls[selectedID]

	for _, k := range h.available[1:] {
		id, _ := reg.implID(k)
		if id != selectedID && k.Capability != h.selected.Capability {
			h.err = fmt.Errorf("%w: operation %q matches %s with different implementations",
				ErrAmbiguousCapability, h.operation, formatKeys(h.available))
			break
		}
	}

	return h
}

// Operation returns the logical operation name.
func (h *Handle[A, R]) Operation() string {
	return h.operation
}

// Supported reports whether the robot shares at least one pair with the operation.
func (h *Handle[A, R]) Supported() bool {
	return len(h.available) > 0
}

// Available returns the joint (capability, level) pairs, sorted.
func (h *Handle[A, R]) Available() []Key {
	return append([]Key(nil), h.available...)
}

// Selected returns the pair whose implementation is bound.
func (h *Handle[A, R]) Selected() (Key, bool) {
	return h.selected, h.Supported()
}

// Err returns the resolution diagnostic, or nil for a well-formed match.
// Unsupported handles return nil here; the error surfaces on Invoke.
func (h *Handle[A, R]) Err() error {
	return h.err
}

// Invoke calls the bound implementation with args.
//
// Nothing is invoked when the handle is unsupported or ambiguous.
func (h *Handle[A, R]) Invoke(args A) (R, error) {
	var zero R
	if !h.Supported() {
		return zero, fmt.Errorf("%w: %q not available for capabilities %s",
			ErrUnsupportedOperation, h.operation, h.declared)
	}
	if h.err != nil {
		return zero, h.err
	}
	return h.fn(args)
}

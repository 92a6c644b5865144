package kernel

// Shared is a handle to immutable data shared between a Space and its
// clones, such as the support tables of extensional propagators. Cloning
// with share=true aliases the handle; cloning with share=false deep-copies
// the payload exactly once per clone, memoized through the forwarding slot
// that clone stage two clears.
type Shared[T any] struct {
	// Data is the shared payload. Treat as immutable once posted.
	Data T

	// fwd forwards to the copy while a clone is in stage one.
	fwd *Shared[T]
}

// NewShared wraps data in a shared handle.
func NewShared[T any](data T) *Shared[T] {
	return &Shared[T]{Data: data}
}

// Update resolves the handle for an actor copied into dst. With share=true
// the handle is aliased. Otherwise the first caller copies the payload via
// cp and registers the forwarding for stage two to clear; later callers in
// the same clone get the memoized copy.
func (x *Shared[T]) Update(dst *Space, share bool, cp func(T) T) *Shared[T] {
	if share {
		return x
	}
	if x.fwd != nil {
		return x.fwd
	}
	y := &Shared[T]{Data: cp(x.Data)}
	x.fwd = y
	dst.shared = append(dst.shared, x)
	return y
}

// clearFwd resets the forwarding slot after clone stage two.
func (x *Shared[T]) clearFwd() { x.fwd = nil }

// sharedObject lets the Space clear forwarding slots without knowing the
// payload type.
type sharedObject interface {
	clearFwd()
}

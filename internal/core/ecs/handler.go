package ecs

// ComponentHandler refers to "the T of entity id" rather than to memory. The
// dense array behind a pool moves when it grows, so a *T taken before an Add
// may dangle; a handler looks the component up again on each Get.
type ComponentHandler[T any] struct {
	pool *ComponentPool[T]
	id   int32
}

// Get returns the current address of the component. Panics if the entity no
// longer has it. Do not keep the pointer across adds or removes on the pool.
func (h ComponentHandler[T]) Get() *T {
	if h.pool == nil {
		failf(ErrMissingComponent, "empty handler")
	}
	v, ok := h.pool.set.TryGet(h.id)
	if !ok {
		failf(ErrMissingComponent, "%s on entity id %d", h.pool.typ, h.id)
	}
	return v
}

// IsValid reports whether the component is still present.
func (h ComponentHandler[T]) IsValid() bool {
	return h.pool != nil && h.pool.set.Has(h.id)
}

// ID returns the entity id the handler points at.
func (h ComponentHandler[T]) ID() int32 { return h.id }

package ecs

import "github.com/l1jgo/scenecore/internal/core/event"

// Pool is the type-erased view of a ComponentPool. The World only needs
// these operations when it does not know the component type, e.g. to cascade
// a destruction into every pool.
type Pool interface {
	Has(e Entity) bool
	Remove(e Entity) bool
	Len() int
	Type() TypeID
}

// ComponentEvent is emitted when a component is attached to or detached from
// an entity. On removal Component holds the value that was removed.
type ComponentEvent[T any] struct {
	Entity    Entity
	Component T
}

// ComponentPool stores the T component of every entity that has one, keyed by
// entity id.
type ComponentPool[T any] struct {
	typ       TypeID
	set       SparseSet[T]
	onAdded   event.Signal[ComponentEvent[T]]
	onRemoved event.Signal[ComponentEvent[T]]
}

func NewComponentPool[T any]() *ComponentPool[T] {
	return &ComponentPool[T]{typ: TypeOf[T]()}
}

func (p *ComponentPool[T]) Type() TypeID { return p.typ }
func (p *ComponentPool[T]) Len() int     { return p.set.Len() }

func (p *ComponentPool[T]) Has(e Entity) bool { return p.set.Has(e.ID) }

// Get returns the component of e. Panics if e has none.
func (p *ComponentPool[T]) Get(e Entity) *T {
	v, ok := p.set.TryGet(e.ID)
	if !ok {
		failf(ErrMissingComponent, "%s on entity %s", p.typ, e)
	}
	return v
}

func (p *ComponentPool[T]) TryGet(e Entity) (*T, bool) { return p.set.TryGet(e.ID) }

// Add attaches v to e. If e already has a T the value is replaced in place
// and no notification is sent.
func (p *ComponentPool[T]) Add(e Entity, v T) {
	if p.set.Set(e.ID, v) {
		p.onAdded.Emit(ComponentEvent[T]{Entity: e, Component: v})
	}
}

// Remove detaches the component of e and reports whether there was one.
// OnRemoved fires after the entry is gone.
func (p *ComponentPool[T]) Remove(e Entity) bool {
	old, ok := p.set.Remove(e.ID)
	if ok {
		p.onRemoved.Emit(ComponentEvent[T]{Entity: e, Component: old})
	}
	return ok
}

// Handler returns an indirection to the component of e that re-resolves the
// storage on every access.
func (p *ComponentPool[T]) Handler(e Entity) ComponentHandler[T] {
	return ComponentHandler[T]{pool: p, id: e.ID}
}

// Each calls fn for every stored component in dense order. fn must not add or
// remove T components.
func (p *ComponentPool[T]) Each(fn func(id int32, v *T)) {
	keys := p.set.Keys()
	values := p.set.Values()
	for i := range keys {
		fn(keys[i], &values[i])
	}
}

func (p *ComponentPool[T]) OnAdded() *event.Signal[ComponentEvent[T]]   { return &p.onAdded }
func (p *ComponentPool[T]) OnRemoved() *event.Signal[ComponentEvent[T]] { return &p.onRemoved }

// Package hierarchy overlays parent/child links on a World. Links are stored
// as an ordinary component and kept consistent by listening to removals, so
// no caller has to unlink by hand.
package hierarchy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/l1jgo/scenecore/internal/core/ecs"
	"github.com/l1jgo/scenecore/internal/core/event"
)

var (
	ErrMissingAnchor = errors.New("hierarchy: entity lacks anchor component")
	ErrSelfParent    = errors.New("hierarchy: entity cannot parent itself")
	ErrCycle         = errors.New("hierarchy: parent is a descendant of child")
)

// Relations is attached to an entity the first time it takes part in a link.
// T is the anchor type, so overlays with different anchors never share links.
type Relations[T any] struct {
	Parent   ecs.Entity
	Children []ecs.Entity
}

// Relationeer maintains a forest over the entities that own a T.
//
// Removing T from an entity breaks all of its links. Removing its Relations,
// directly or through World.Validate, turns its children into roots and
// drops it from its parent's child list.
type Relationeer[T any] struct {
	world     *ecs.World
	anchor    *ecs.ComponentPool[T]
	relations *ecs.ComponentPool[Relations[T]]

	anchorConn    event.Connection
	relationsConn event.Connection
}

// New attaches a Relationeer to w. Call Close to detach it.
func New[T any](w *ecs.World) *Relationeer[T] {
	r := &Relationeer[T]{
		world:     w,
		anchor:    ecs.PoolOf[T](w),
		relations: ecs.PoolOf[Relations[T]](w),
	}
	r.anchorConn = r.anchor.OnRemoved().Connect(func(ev ecs.ComponentEvent[T]) {
		r.relations.Remove(ev.Entity)
	})
	r.relationsConn = r.relations.OnRemoved().Connect(r.unlink)
	return r
}

// Close stops listening to the World. Existing Relations stay attached.
func (r *Relationeer[T]) Close() {
	r.anchor.OnRemoved().Disconnect(r.anchorConn)
	r.relations.OnRemoved().Disconnect(r.relationsConn)
}

func (r *Relationeer[T]) HasRelations(e ecs.Entity) bool {
	r.world.MustBeValid(e)
	return r.relations.Has(e)
}

// SetParent makes parent the parent of child, detaching child from any
// previous parent. Both must own T; child must not be parent or one of its
// ancestors.
func (r *Relationeer[T]) SetParent(child, parent ecs.Entity) {
	if !ecs.Has[T](r.world, child) {
		panic(fmt.Errorf("%w: child %s", ErrMissingAnchor, child))
	}
	if !ecs.Has[T](r.world, parent) {
		panic(fmt.Errorf("%w: parent %s", ErrMissingAnchor, parent))
	}
	if child == parent {
		panic(fmt.Errorf("%w: %s", ErrSelfParent, child))
	}
	if r.IsChildrenOf(parent, child) {
		panic(fmt.Errorf("%w: %s under %s", ErrCycle, child, parent))
	}

	r.MakeRoot(child)
	r.ensure(child)
	r.ensure(parent)
	// Both entries exist now, so these pointers stay put until we return.
	r.relations.Get(child).Parent = parent
	pr := r.relations.Get(parent)
	pr.Children = append(pr.Children, child)
}

// MakeRoot detaches child from its parent. Roots are left alone.
func (r *Relationeer[T]) MakeRoot(child ecs.Entity) {
	r.world.MustBeValid(child)
	rel, ok := r.relations.TryGet(child)
	if !ok || rel.Parent.IsNull() {
		return
	}
	parent := rel.Parent
	rel.Parent = ecs.Null
	if pr, ok := r.relations.TryGet(parent); ok {
		pr.Children = without(pr.Children, child)
	}
}

// BreakRelations removes the Relations of e, unlinking it from its parent
// and children.
func (r *Relationeer[T]) BreakRelations(e ecs.Entity) {
	ecs.Remove[Relations[T]](r.world, e)
}

// GetParent returns the parent of e, or ecs.Null for roots.
func (r *Relationeer[T]) GetParent(e ecs.Entity) ecs.Entity {
	r.world.MustBeValid(e)
	if rel, ok := r.relations.TryGet(e); ok {
		return rel.Parent
	}
	return ecs.Null
}

// GetChildren returns the children of e in link order. The slice belongs to
// the Relationeer: do not modify it or keep it across hierarchy changes.
func (r *Relationeer[T]) GetChildren(e ecs.Entity) []ecs.Entity {
	r.world.MustBeValid(e)
	if rel, ok := r.relations.TryGet(e); ok {
		return rel.Children
	}
	return nil
}

func (r *Relationeer[T]) IsRoot(e ecs.Entity) bool {
	return r.GetParent(e).IsNull()
}

// IsChildrenOf reports whether ancestor is found walking up from child.
func (r *Relationeer[T]) IsChildrenOf(child, ancestor ecs.Entity) bool {
	for p := r.GetParent(child); !p.IsNull(); p = r.GetParent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of e, or e itself.
func (r *Relationeer[T]) Root(e ecs.Entity) ecs.Entity {
	for p := r.GetParent(e); !p.IsNull(); p = r.GetParent(p) {
		e = p
	}
	return e
}

// Walk visits the descendants of e depth-first, parents before children.
// Returning false from fn skips the subtree below that entity. fn must not
// change the hierarchy.
func (r *Relationeer[T]) Walk(e ecs.Entity, fn func(e ecs.Entity, depth int) bool) {
	r.walk(e, 1, fn)
}

func (r *Relationeer[T]) walk(e ecs.Entity, depth int, fn func(ecs.Entity, int) bool) {
	for _, c := range r.GetChildren(e) {
		if fn(c, depth) {
			r.walk(c, depth+1, fn)
		}
	}
}

func (r *Relationeer[T]) ensure(e ecs.Entity) {
	if !r.relations.Has(e) {
		r.relations.Add(e, Relations[T]{Parent: ecs.Null})
	}
}

// unlink runs after e lost its Relations; ev carries the links it had.
func (r *Relationeer[T]) unlink(ev ecs.ComponentEvent[Relations[T]]) {
	for _, c := range ev.Component.Children {
		if cr, ok := r.relations.TryGet(c); ok && cr.Parent == ev.Entity {
			cr.Parent = ecs.Null
		}
	}
	if p := ev.Component.Parent; !p.IsNull() {
		if pr, ok := r.relations.TryGet(p); ok {
			pr.Children = without(pr.Children, ev.Entity)
		}
	}
}

func without(list []ecs.Entity, e ecs.Entity) []ecs.Entity {
	if i := slices.Index(list, e); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}

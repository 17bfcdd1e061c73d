package ecs

import (
	"go.uber.org/zap"

	"github.com/l1jgo/scenecore/internal/core/event"
)

// World is the top-level ECS container. It owns the entity pool, one
// component pool per type, and a deferred destruction queue flushed by
// Validate (CleanupSystem calls it at the end of each tick).
type World struct {
	entities     *EntityPool
	destroyQueue []Entity
	pools        []Pool // indexed by TypeID, nil until the type is first used
	flushing     bool
	log          *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for pool and flush diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// WithEntityCapacity preallocates room for n entities.
func WithEntityCapacity(n int) Option {
	return func(w *World) { w.entities = NewEntityPool(n) }
}

func NewWorld(opts ...Option) *World {
	w := &World{
		entities:     NewEntityPool(256),
		destroyQueue: make([]Entity, 0, 64),
		log:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *World) Create() Entity {
	return w.entities.Create()
}

func (w *World) IsValid(e Entity) bool {
	return w.entities.Alive(e)
}

// Destroy queues e for destruction at the next Validate. e stays alive, and
// its components stay readable, until then. Stale entities are ignored and
// queuing the same entity twice is harmless.
func (w *World) Destroy(e Entity) {
	if !w.entities.Alive(e) {
		return
	}
	w.destroyQueue = append(w.destroyQueue, e)
}

// Validate destroys every queued entity that is still alive: its components
// are removed from every pool while it is still valid, so removal listeners
// can inspect it, then its slot is recycled with a new version. Entities
// queued by those listeners are destroyed in the same call. Listeners must
// not attach components to an entity that is being destroyed; a nested
// Validate call is a no-op.
func (w *World) Validate() {
	if w.flushing {
		return
	}
	w.flushing = true
	defer func() { w.flushing = false }()

	destroyed := 0
	for i := 0; i < len(w.destroyQueue); i++ {
		e := w.destroyQueue[i]
		if !w.entities.Alive(e) {
			continue
		}
		for j := 0; j < len(w.pools); j++ {
			if p := w.pools[j]; p != nil {
				p.Remove(e)
			}
		}
		w.entities.Recycle(e)
		destroyed++
	}
	if len(w.destroyQueue) > 0 {
		w.log.Debug("destroy queue flushed",
			zap.Int("queued", len(w.destroyQueue)),
			zap.Int("destroyed", destroyed),
			zap.Int("alive", w.entities.Len()))
	}
	clear(w.destroyQueue)
	w.destroyQueue = w.destroyQueue[:0]
}

// Len returns the number of alive entities.
func (w *World) Len() int { return w.entities.Len() }

// Pending returns the number of destroy requests waiting for Validate.
func (w *World) Pending() int { return len(w.destroyQueue) }

// Entities returns the alive entities in dense order. The slice aliases the
// allocator: read it before the next Create or Validate.
func (w *World) Entities() []Entity { return w.entities.Entities() }

// Each calls fn for every alive entity. fn may Create and Destroy.
func (w *World) Each(fn func(Entity)) {
	for _, e := range w.entities.Entities() {
		fn(e)
	}
}

// Pool returns the erased pool registered for id, or nil.
func (w *World) Pool(id TypeID) Pool {
	if int(id) >= len(w.pools) {
		return nil
	}
	return w.pools[id]
}

// ComponentTypes returns the ids of every pool created so far.
func (w *World) ComponentTypes() []TypeID {
	out := make([]TypeID, 0, len(w.pools))
	for id, p := range w.pools {
		if p != nil {
			out = append(out, TypeID(id))
		}
	}
	return out
}

// MustBeValid panics with ErrInvalidEntity if e is not alive.
func (w *World) MustBeValid(e Entity) {
	if !w.entities.Alive(e) {
		failf(ErrInvalidEntity, "%s", e)
	}
}

func (w *World) register(p Pool) {
	id := int(p.Type())
	for id >= len(w.pools) {
		w.pools = append(w.pools, nil)
	}
	w.pools[id] = p
	w.log.Debug("component pool created", zap.Stringer("type", p.Type()))
}

// LookupPool returns the pool for T if one was created.
func LookupPool[T any](w *World) (*ComponentPool[T], bool) {
	p := w.Pool(TypeOf[T]())
	if p == nil {
		return nil, false
	}
	return p.(*ComponentPool[T]), true
}

// PoolOf returns the pool for T, creating it on first use.
func PoolOf[T any](w *World) *ComponentPool[T] {
	if p, ok := LookupPool[T](w); ok {
		return p
	}
	p := NewComponentPool[T]()
	w.register(p)
	return p
}

// Has reports whether e has a T. Panics if e is not alive.
func Has[T any](w *World, e Entity) bool {
	w.MustBeValid(e)
	p, ok := LookupPool[T](w)
	return ok && p.Has(e)
}

// Add attaches v to e, replacing any T it already has.
func Add[T any](w *World, e Entity, v T) ComponentHandler[T] {
	w.MustBeValid(e)
	p := PoolOf[T](w)
	p.Add(e, v)
	return p.Handler(e)
}

// Get returns a handler to the T of e. Panics if e is not alive or has no T.
func Get[T any](w *World, e Entity) ComponentHandler[T] {
	h, ok := TryGet[T](w, e)
	if !ok {
		failf(ErrMissingComponent, "%s on entity %s", TypeOf[T](), e)
	}
	return h
}

// TryGet is Get without the missing-component failure.
func TryGet[T any](w *World, e Entity) (ComponentHandler[T], bool) {
	w.MustBeValid(e)
	p, ok := LookupPool[T](w)
	if !ok || !p.Has(e) {
		return ComponentHandler[T]{}, false
	}
	return p.Handler(e), true
}

// Remove detaches the T of e. Missing pools and components are ignored.
func Remove[T any](w *World, e Entity) bool {
	w.MustBeValid(e)
	p, ok := LookupPool[T](w)
	if !ok {
		return false
	}
	return p.Remove(e)
}

// OnAdded returns the signal raised when a T is attached to an entity.
func OnAdded[T any](w *World) *event.Signal[ComponentEvent[T]] {
	return PoolOf[T](w).OnAdded()
}

// OnRemoved returns the signal raised when a T is detached from an entity,
// including removals cascaded from Validate.
func OnRemoved[T any](w *World) *event.Signal[ComponentEvent[T]] {
	return PoolOf[T](w).OnRemoved()
}

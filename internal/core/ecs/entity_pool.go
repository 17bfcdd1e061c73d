package ecs

// EntityPool allocates entities from a slot table. dense[:bound] holds the
// alive entities and dense[bound:] the free slots, each already carrying the
// version it will be handed out with. sparse maps an id to its dense index.
type EntityPool struct {
	sparse []int32
	dense  []Entity
	bound  int
}

func NewEntityPool(capacity int) *EntityPool {
	if capacity < 0 {
		capacity = 0
	}
	return &EntityPool{
		sparse: make([]int32, 0, capacity),
		dense:  make([]Entity, 0, capacity),
	}
}

// Create returns the first free slot, or a new slot when none is free.
func (p *EntityPool) Create() Entity {
	if p.bound < len(p.dense) {
		e := p.dense[p.bound]
		p.bound++
		return e
	}
	e := Entity{ID: int32(len(p.dense))}
	p.dense = append(p.dense, e)
	p.sparse = append(p.sparse, int32(p.bound))
	p.bound++
	return e
}

// Alive reports whether e still owns its slot.
func (p *EntityPool) Alive(e Entity) bool {
	if e.ID < 0 || int(e.ID) >= len(p.sparse) {
		return false
	}
	idx := p.sparse[e.ID]
	return int(idx) < p.bound && p.dense[idx].Version == e.Version
}

// Recycle frees the slot of an alive entity. The last alive entity is moved
// into the hole so dense[:bound] stays contiguous, and the freed slot's
// version is bumped so e and every copy of it turn stale.
func (p *EntityPool) Recycle(e Entity) {
	idx := p.sparse[e.ID]
	last := int32(p.bound - 1)
	moved := p.dense[last]

	p.dense[idx] = moved
	p.sparse[moved.ID] = idx

	p.dense[last] = Entity{ID: e.ID, Version: e.Version + 1}
	p.sparse[e.ID] = last
	p.bound--
}

// Len returns the number of alive entities.
func (p *EntityPool) Len() int { return p.bound }

// Cap returns the number of slots ever allocated, alive or free.
func (p *EntityPool) Cap() int { return len(p.dense) }

// Entities returns the alive entities. The slice aliases the pool and is only
// valid until the next Create or Recycle.
func (p *EntityPool) Entities() []Entity { return p.dense[:p.bound] }

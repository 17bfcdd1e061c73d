package ecs

import "strconv"

// NullID is the reserved id of the Null entity. Allocated ids are never negative.
const NullID int32 = -1

// Null is the entity that refers to nothing. It compares unequal to every
// allocated entity.
var Null = Entity{ID: NullID}

// Entity is a generational handle: ID names a slot in the allocator and
// Version tells whether the slot still belongs to this handle.
type Entity struct {
	ID      int32
	Version uint32
}

func (e Entity) IsNull() bool { return e.ID == NullID }

func (e Entity) String() string {
	if e.IsNull() {
		return "null"
	}
	return strconv.FormatInt(int64(e.ID), 10) + "v" + strconv.FormatUint(uint64(e.Version), 10)
}

package ecs

import (
	"reflect"
	"sync"
)

// TypeID is a process-lifetime identity for a Go type, handed out on first
// use. It is an index into per-World tables and must never be persisted.
type TypeID uint32

var typeIDs struct {
	mu    sync.Mutex
	ids   sync.Map // reflect.Type -> TypeID
	names []string
}

// TypeOf returns the TypeID of T, assigning one if T was never seen before.
func TypeOf[T any]() TypeID {
	return typeIDOf(reflect.TypeOf((*T)(nil)).Elem())
}

func typeIDOf(t reflect.Type) TypeID {
	if id, ok := typeIDs.ids.Load(t); ok {
		return id.(TypeID)
	}
	typeIDs.mu.Lock()
	defer typeIDs.mu.Unlock()
	if id, ok := typeIDs.ids.Load(t); ok {
		return id.(TypeID)
	}
	id := TypeID(len(typeIDs.names))
	typeIDs.names = append(typeIDs.names, t.String())
	typeIDs.ids.Store(t, id)
	return id
}

// String returns the Go type name behind id.
func (id TypeID) String() string {
	typeIDs.mu.Lock()
	defer typeIDs.mu.Unlock()
	if int(id) >= len(typeIDs.names) {
		return "unknown"
	}
	return typeIDs.names[id]
}

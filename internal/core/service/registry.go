// Package service holds the per-scene objects that systems share (the World,
// hierarchy overlays, scripting engine). A Registry is filled once at scene
// setup and handed down explicitly; there is no package-level instance.
package service

import (
	"fmt"

	"github.com/l1jgo/scenecore/internal/core/ecs"
)

// Registry maps a type to the single instance provided for it.
type Registry struct {
	items map[ecs.TypeID]any
}

func NewRegistry() *Registry {
	return &Registry{items: make(map[ecs.TypeID]any, 8)}
}

// Provide registers v as the T of r. Panics if a T is already registered.
func Provide[T any](r *Registry, v T) {
	id := ecs.TypeOf[T]()
	if _, ok := r.items[id]; ok {
		panic(fmt.Sprintf("service: %s already provided", id))
	}
	r.items[id] = v
}

// Get returns the registered T.
func Get[T any](r *Registry) (T, bool) {
	v, ok := r.items[ecs.TypeOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// MustGet returns the registered T or panics.
func MustGet[T any](r *Registry) T {
	v, ok := Get[T](r)
	if !ok {
		panic(fmt.Sprintf("service: %s not provided", ecs.TypeOf[T]()))
	}
	return v
}

// Remove unregisters T and reports whether it was present.
func Remove[T any](r *Registry) bool {
	id := ecs.TypeOf[T]()
	if _, ok := r.items[id]; !ok {
		return false
	}
	delete(r.items, id)
	return true
}

// Len returns the number of registered services.
func (r *Registry) Len() int { return len(r.items) }

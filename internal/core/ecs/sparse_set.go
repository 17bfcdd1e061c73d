package ecs

const undefined int32 = -1

// SparseSet maps small non-negative keys to values with O(1) add, remove and
// lookup. Values are packed in dense order; removal swaps the last entry into
// the hole, so iteration order is not stable across removals.
type SparseSet[T any] struct {
	sparse []int32
	keys   []int32
	values []T
}

// Has returns true if key is present.
func (s *SparseSet[T]) Has(key int32) bool {
	return s.index(key) != undefined
}

// Get returns a pointer to the value stored at key. The pointer is only valid
// until the next Add, Set or Remove on s. Panics if key is missing.
func (s *SparseSet[T]) Get(key int32) *T {
	idx := s.index(key)
	if idx == undefined {
		failf(ErrMissingKey, "key %d", key)
	}
	return &s.values[idx]
}

// TryGet returns the value stored at key, or nil and false.
func (s *SparseSet[T]) TryGet(key int32) (*T, bool) {
	idx := s.index(key)
	if idx == undefined {
		return nil, false
	}
	return &s.values[idx], true
}

// Add inserts a value for a key that must not be present yet.
func (s *SparseSet[T]) Add(key int32, v T) {
	if s.Has(key) {
		failf(ErrDuplicateKey, "key %d", key)
	}
	s.insert(key, v)
}

// Set inserts or overwrites the value for key and reports whether it was an
// insertion.
func (s *SparseSet[T]) Set(key int32, v T) bool {
	if idx := s.index(key); idx != undefined {
		s.values[idx] = v
		return false
	}
	s.insert(key, v)
	return true
}

// Remove deletes key and returns its value. Missing keys are ignored.
func (s *SparseSet[T]) Remove(key int32) (T, bool) {
	var zero T
	idx := s.index(key)
	if idx == undefined {
		return zero, false
	}
	removed := s.values[idx]

	last := int32(len(s.keys) - 1)
	lastKey := s.keys[last]
	s.keys[idx] = lastKey
	s.values[idx] = s.values[last]
	s.sparse[lastKey] = idx

	s.values[last] = zero
	s.keys = s.keys[:last]
	s.values = s.values[:last]
	s.sparse[key] = undefined
	return removed, true
}

// Len returns the number of stored keys.
func (s *SparseSet[T]) Len() int { return len(s.keys) }

// Keys returns the dense key list. Read only.
func (s *SparseSet[T]) Keys() []int32 { return s.keys }

// Values returns the dense value list, parallel to Keys.
func (s *SparseSet[T]) Values() []T { return s.values }

// Clear removes every key but keeps the allocated capacity.
func (s *SparseSet[T]) Clear() {
	for _, k := range s.keys {
		s.sparse[k] = undefined
	}
	clear(s.values)
	s.keys = s.keys[:0]
	s.values = s.values[:0]
}

func (s *SparseSet[T]) index(key int32) int32 {
	if key < 0 || int(key) >= len(s.sparse) {
		return undefined
	}
	return s.sparse[key]
}

func (s *SparseSet[T]) insert(key int32, v T) {
	if key < 0 {
		failf(ErrNegativeKey, "key %d", key)
	}
	for int(key) >= len(s.sparse) {
		s.sparse = append(s.sparse, undefined)
	}
	s.sparse[key] = int32(len(s.keys))
	s.keys = append(s.keys, key)
	s.values = append(s.values, v)
}

package ecs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseSetBasics(t *testing.T) {
	var s SparseSet[string]
	assert.False(t, s.Has(0))
	assert.False(t, s.Has(-1))

	s.Add(3, "c")
	s.Add(0, "a")
	assert.True(t, s.Has(3))
	assert.Equal(t, "c", *s.Get(3))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int32{3, 0}, s.Keys())

	_, ok := s.TryGet(1)
	assert.False(t, ok)

	v, ok := s.Remove(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)
	assert.False(t, s.Has(3))
	assert.Equal(t, []int32{0}, s.Keys())

	_, ok = s.Remove(3)
	assert.False(t, ok, "second remove is a no-op")
	assert.Equal(t, 1, s.Len())
}

func TestSparseSetFailFast(t *testing.T) {
	var s SparseSet[int]
	s.Add(1, 10)

	requirePanicIs(t, ErrDuplicateKey, func() { s.Add(1, 11) })
	requirePanicIs(t, ErrMissingKey, func() { s.Get(2) })
	requirePanicIs(t, ErrNegativeKey, func() { s.Add(-4, 0) })
	assert.Equal(t, 10, *s.Get(1), "failed add must not overwrite")
}

func TestSparseSetSetReportsInsert(t *testing.T) {
	var s SparseSet[int]
	assert.True(t, s.Set(5, 1))
	assert.False(t, s.Set(5, 2))
	assert.Equal(t, 2, *s.Get(5))
	assert.Equal(t, 1, s.Len())
}

func TestSparseSetClear(t *testing.T) {
	var s SparseSet[int]
	for i := int32(0); i < 10; i++ {
		s.Add(i, int(i))
	}
	s.Clear()
	assert.Equal(t, 0, s.Len())
	for i := int32(0); i < 10; i++ {
		assert.False(t, s.Has(i))
	}
	s.Add(4, 40)
	assert.Equal(t, 40, *s.Get(4))
}

func TestSparseSetMatchesMapModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var s SparseSet[int]
	model := map[int32]int{}

	for step := 0; step < 20000; step++ {
		key := int32(rng.Intn(256))
		switch rng.Intn(3) {
		case 0:
			if _, ok := model[key]; ok {
				continue
			}
			s.Add(key, step)
			model[key] = step
		case 1:
			want, wantOK := model[key]
			got, ok := s.Remove(key)
			require.Equal(t, wantOK, ok)
			if ok {
				require.Equal(t, want, got)
			}
			delete(model, key)
		case 2:
			s.Set(key, -step)
			model[key] = -step
		}
	}

	require.Equal(t, len(model), s.Len())
	for k, v := range model {
		require.True(t, s.Has(k))
		require.Equal(t, v, *s.Get(k))
	}
	for i, k := range s.Keys() {
		require.Equal(t, model[k], s.Values()[i])
	}
}

package bimap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator_Keys(t *testing.T) {
	m := MustNewBiMapOf[string, int]()
	for i, k := range testData {
		m.Put(k, i)
	}
	seen := make(map[string]bool)
	it := m.KeySet().Iterator()
	for it.Next() {
		require.False(t, seen[it.Value()], "duplicate key %q", it.Value())
		seen[it.Value()] = true
	}
	require.NoError(t, it.Err())
	assert.Len(t, seen, len(testData))
	assert.False(t, it.Next(), "exhausted iterator should stay exhausted")
}

func TestIterator_Empty(t *testing.T) {
	var m BiMapOf[int, int]
	it := m.EntrySet().Iterator()
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Remove(), ErrIllegalState)
}

func TestIterator_Remove(t *testing.T) {
	m := MustNewBiMapOf[int, string]()
	for i := 0; i < 1000; i++ {
		m.Put(i, strconv.Itoa(i))
	}
	it := m.EntrySet().Iterator()
	require.ErrorIs(t, it.Remove(), ErrIllegalState, "remove before Next")

	visited := 0
	for it.Next() {
		visited++
		e := it.Value()
		if e.Key%2 == 0 {
			require.NoError(t, it.Remove())
			require.ErrorIs(t, it.Remove(), ErrIllegalState, "second remove")
		}
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 1000, visited, "removal disturbed traversal")
	assert.Equal(t, 500, m.Size())
	for i := 0; i < 1000; i++ {
		require.Equal(t, i%2 == 1, m.HasValue(strconv.Itoa(i)), "presence of value %d", i)
	}
	mustVerify(t, m)
}

func TestIterator_RemoveInTreeBin(t *testing.T) {
	m, err := NewBiMapOfWithHasher[int, int](
		func(int) uintptr { return 1 },
		nil,
		WithInitialCapacity(MinTreeifyCapacity),
	)
	require.NoError(t, err)
	const n = 32
	for i := 0; i < n; i++ {
		m.Put(i, i)
	}
	require.Equal(t, 1, m.Stats().Forward.TreeBins)

	visited := 0
	it := m.KeySet().Iterator()
	for it.Next() {
		visited++
		require.NoError(t, it.Remove())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, n, visited)
	assert.True(t, m.IsZero(), "%d left", m.Size())
	mustVerify(t, m)
}

func TestIterator_ConcurrentModification(t *testing.T) {
	m := MustNewBiMapOf[string, int]()
	for i, k := range testDataSmall {
		m.Put(k, i)
	}
	it := m.ValueSet().Iterator()
	require.True(t, it.Next())
	m.Put("new", 100)
	assert.False(t, it.Next(), "iterator should stop after modification")
	assert.ErrorIs(t, it.Err(), ErrConcurrentModification)
	assert.False(t, it.Next(), "failed iterator should stay unusable")
	assert.ErrorIs(t, it.Remove(), ErrConcurrentModification)
}

func TestIterator_ValueReplacementFails(t *testing.T) {
	m := MustNewBiMapOf[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	it := m.KeySet().Iterator()
	require.True(t, it.Next())
	m.Put("a", 3)
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), ErrConcurrentModification)
}

func TestIterator_InverseEntrySet(t *testing.T) {
	m := MustNewBiMapOf[string, int]()
	for i, k := range testDataSmall {
		m.Put(k, i)
	}
	it := m.InverseEntrySet().Iterator()
	n := 0
	for it.Next() {
		e := it.Value()
		require.Equal(t, testDataSmall[e.Key], e.Value)
		if e.Key == 3 {
			require.NoError(t, it.Remove())
		}
		n++
	}
	require.NoError(t, it.Err())
	assert.Equal(t, len(testDataSmall), n)
	assert.False(t, m.HasKey(testDataSmall[3]), "inverse iterator removal not mirrored")
	mustVerify(t, m)
}

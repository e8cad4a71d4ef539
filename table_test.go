package bimap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable[K comparable](hash HashFunc[K], capacity int) *hashTable[K, int] {
	cfg := defaultConfig()
	cfg.InitialCapacity = capacity
	return newHashTable[K, int](&cfg, hash, "test")
}

func binKeys[K comparable, V comparable](first *node[K, V]) []K {
	var keys []K
	for e := first; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

func TestHashTable_ListOrder(t *testing.T) {
	tab := newTestTable(func(int) uintptr { return 1 }, 16)
	for i := 0; i < 5; i++ {
		tab.put(i, i, false)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, binKeys(tab.bins[1]), "list bin out of insertion order")

	old, loaded := tab.put(2, 20, true)
	assert.True(t, loaded)
	assert.Equal(t, 2, old)
	v, _ := tab.get(2)
	assert.Equal(t, 2, v, "onlyIfAbsent put replaced value")

	assert.Nil(t, tab.remove(3, 99, true, true), "remove with mismatched value should fail")
	e := tab.remove(3, 3, true, true)
	require.NotNil(t, e, "remove with matching value should succeed")
	assert.Equal(t, 3, e.key)
	require.NoError(t, tab.verify())
}

func TestHashTable_ModCount(t *testing.T) {
	tab := newTestTable[int](defaultHashFunc[int](0), 16)
	tab.put(1, 1, false)
	mc := tab.modCount
	tab.put(1, 2, false)
	require.Equal(t, mc, tab.modCount, "value replacement should not be structural")

	tab.put(2, 2, false)
	tab.remove(1, 0, false, true)
	tab.remove(100, 0, false, true)
	require.Equal(t, mc+2, tab.modCount)

	tab.clear()
	assert.Equal(t, mc+3, tab.modCount, "clear should be structural")
	assert.Zero(t, tab.size)
}

func TestHashTable_ImmovableTreeRemoval(t *testing.T) {
	tab := newTestTable(func(int) uintptr { return 9 }, MinTreeifyCapacity)
	const n = 20
	for i := 0; i < n; i++ {
		tab.put(i, i, false)
	}
	require.True(t, tab.bins[9].isTree(), "expected a tree bin")

	before := binKeys(tab.bins[9])
	for i := 0; i < n-2; i += 2 {
		tab.remove(i, 0, false, false)
		require.NoError(t, tab.verify(), "after removing %d", i)
	}
	after := binKeys(tab.bins[9])
	j := 0
	for _, k := range before {
		if j < len(after) && after[j] == k {
			j++
		}
	}
	assert.Equal(t, len(after), j, "immovable removal reordered the bin: %v -> %v", before, after)
	assert.True(t, tab.bins[9].isTree(), "immovable removal should not untreeify")
}

func TestHashTable_Untreeify(t *testing.T) {
	tab := newTestTable(func(int) uintptr { return 2 }, MinTreeifyCapacity)
	for i := 0; i < 12; i++ {
		tab.put(i, i, false)
	}
	for i := 0; i < 12 && tab.bins[2] != nil && tab.bins[2].isTree(); i++ {
		tab.remove(i, 0, false, true)
	}
	assert.False(t, tab.bins[2].isTree(), "tree should have reverted to a list")
	assert.Equal(t, uint32(1), tab.untreeifies)
	require.NoError(t, tab.verify())
}

func TestHashTable_VerifyDetectsCorruption(t *testing.T) {
	tab := newTestTable[int](defaultHashFunc[int](0), 16)
	for i := 0; i < 10; i++ {
		tab.put(i, i, false)
	}
	tab.size++
	require.ErrorIs(t, tab.verify(), ErrCorrupted, "size mismatch")
	tab.size--

	e := tab.bins[3]
	tab.bins[3] = nil
	tab.bins[4].next = e
	require.ErrorIs(t, tab.verify(), ErrCorrupted, "misplaced node")
}

func TestCheckTree_DetectsRedRed(t *testing.T) {
	tab := newTestTable(func(int) uintptr { return 0 }, MinTreeifyCapacity)
	for i := 0; i < 16; i++ {
		tab.put(i, i, false)
	}
	root := tab.bins[0].root()
	_, err := checkTree(root)
	require.NoError(t, err)

	root.t.red = true
	root.t.left.t.red = true
	_, err = checkTree(root)
	require.ErrorIs(t, err, ErrCorrupted)
}

func TestTieBreakOrder(t *testing.T) {
	p := &node[any, int]{key: "b", seq: 5}
	assert.Negative(t, tieBreakOrder[any, int](1, 9, p), "int should order before string")
	assert.Positive(t, tieBreakOrder[any, int]("a", 9, p), "later insertion of the same type should order after")
	assert.Negative(t, tieBreakOrder[any, int]("a", 2, p), "earlier insertion of the same type should order before")
	assert.Zero(t, compareComparables[any](1, "x"), "keys of different types should not compare")
	assert.Negative(t, compareComparables[any](1, 2), "ints should compare by value")
}

type version struct{ major, minor int }

func (v version) Compare(o version) int {
	if v.major != o.major {
		return v.major - o.major
	}
	return v.minor - o.minor
}

func TestComparerKeys(t *testing.T) {
	assert.Negative(t, compareComparables(version{1, 2}, version{1, 3}), "Comparer should be used")

	tab := newTestTable(func(version) uintptr { return 4 }, MinTreeifyCapacity)
	for i := 0; i < 30; i++ {
		tab.put(version{i % 3, i}, i, false)
	}
	for i := 0; i < 30; i++ {
		v, ok := tab.get(version{i % 3, i})
		require.True(t, ok, "get %d", i)
		require.Equal(t, i, v)
	}
	require.NoError(t, tab.verify())
}

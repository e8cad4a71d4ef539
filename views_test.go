package bimap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewTestMap(t *testing.T) *BiMapOf[string, int] {
	t.Helper()
	m := MustNewBiMapOf[string, int]()
	require.NoError(t, m.PutAll(map[string]int{"a": 1, "b": 2, "c": 3}))
	return m
}

func TestKeySet(t *testing.T) {
	m := newViewTestMap(t)
	ks := m.KeySet()
	require.Same(t, ks, m.KeySet())

	assert.Equal(t, 3, ks.Size())
	assert.True(t, ks.Contains("a"))
	assert.False(t, ks.Contains("z"))

	keys := ks.ToSlice()
	slices.Sort(keys)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	assert.ErrorIs(t, ks.Add("d"), ErrUnsupportedOperation)
	assert.ErrorIs(t, ks.Clear(), ErrUnsupportedOperation)
	assert.Equal(t, 3, m.Size())

	assert.True(t, ks.Remove("a"))
	assert.False(t, ks.Remove("a"))
	assert.False(t, m.HasValue(1))
	assert.Equal(t, 2, ks.Size())
	require.NoError(t, m.Verify())
}

func TestValueSet(t *testing.T) {
	m := newViewTestMap(t)
	vs := m.ValueSet()
	require.Same(t, vs, m.ValueSet())

	assert.Equal(t, 3, vs.Size())
	assert.True(t, vs.Contains(2))
	assert.False(t, vs.Contains(4))

	values := vs.ToSlice()
	slices.Sort(values)
	assert.Equal(t, []int{1, 2, 3}, values)

	assert.ErrorIs(t, vs.Add(4), ErrUnsupportedOperation)
	assert.ErrorIs(t, vs.Clear(), ErrUnsupportedOperation)

	assert.True(t, vs.Remove(2))
	assert.False(t, m.HasKey("b"))

	m.Put("d", 4)
	assert.True(t, vs.Contains(4), "value view should be live")

	sum := 0
	for v := range vs.All() {
		sum += v
	}
	assert.Equal(t, 8, sum)
	require.NoError(t, m.Verify())
}

func TestEntrySet(t *testing.T) {
	m := newViewTestMap(t)
	es := m.EntrySet()

	assert.Equal(t, 3, es.Size())
	assert.True(t, es.Contains(Entry[string, int]{"a", 1}))
	assert.False(t, es.Contains(Entry[string, int]{"a", 2}))
	assert.False(t, es.Contains(Entry[string, int]{"z", 1}))

	entries := es.ToSlice()
	slices.SortFunc(entries, func(x, y Entry[string, int]) int { return x.Value - y.Value })
	assert.Equal(t, []Entry[string, int]{{"a", 1}, {"b", 2}, {"c", 3}}, entries)

	assert.ErrorIs(t, es.Add(Entry[string, int]{"d", 4}), ErrUnsupportedOperation)
	assert.ErrorIs(t, es.Clear(), ErrUnsupportedOperation)

	assert.False(t, es.Remove(Entry[string, int]{"a", 2}))
	assert.True(t, es.Remove(Entry[string, int]{"a", 1}))
	assert.False(t, m.HasKey("a"))
	assert.False(t, m.HasValue(1))
	require.NoError(t, m.Verify())
}

func TestInverseEntrySet(t *testing.T) {
	m := newViewTestMap(t)
	ies := m.InverseEntrySet()
	require.Same(t, ies, m.InverseEntrySet())

	assert.True(t, ies.Contains(Entry[int, string]{2, "b"}))
	assert.True(t, ies.Remove(Entry[int, string]{2, "b"}))
	assert.False(t, m.HasKey("b"))

	n := 0
	for e := range ies.All() {
		v, ok := m.Load(e.Value)
		require.True(t, ok)
		assert.Equal(t, e.Key, v)
		n++
	}
	assert.Equal(t, 2, n)
}

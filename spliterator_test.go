package bimap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpliterator_Split(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	const n = 10000
	for i := 0; i < n; i++ {
		_, _, err := m.Put(i, -i)
		require.NoError(t, err)
	}

	sp := m.KeySet().Spliterator()
	require.True(t, sp.Characteristics().Has(Sized|Distinct))
	require.Equal(t, n, sp.EstimateSize())

	prefix := sp.TrySplit()
	require.NotNil(t, prefix)
	assert.Equal(t, n/2, prefix.EstimateSize())
	assert.Equal(t, n/2, sp.EstimateSize())
	assert.False(t, sp.Characteristics().Has(Sized))
	assert.True(t, sp.Characteristics().Has(Distinct))

	seen := make(map[int]int)
	for _, part := range []*Spliterator[int]{prefix, sp} {
		require.NoError(t, part.ForEachRemaining(func(k int) bool {
			seen[k]++
			return true
		}))
	}
	require.Len(t, seen, n)
	for k, c := range seen {
		require.Equal(t, 1, c, "key %d", k)
	}
}

func TestSpliterator_TryAdvance(t *testing.T) {
	m := MustNewBiMapOf[string, int]()
	for i, k := range testDataSmall {
		m.Put(k, i)
	}
	sp := m.EntrySet().Spliterator()
	var got []Entry[string, int]
	for {
		ok, err := sp.TryAdvance(func(e Entry[string, int]) {
			got = append(got, e)
		})
		require.NoError(t, err)
		if !ok {
			break
		}
	}
	require.Len(t, got, len(testDataSmall))
	for _, e := range got {
		assert.Equal(t, testDataSmall[e.Value], e.Key)
	}
	assert.Nil(t, sp.TrySplit())
}

func TestSpliterator_NoSplitInsideBin(t *testing.T) {
	m, err := NewBiMapOfWithHasher[int, int](func(k int) uintptr { return uintptr(k % 4) }, nil)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}
	sp := m.KeySet().Spliterator()
	ok, err := sp.TryAdvance(func(int) {})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, sp.TrySplit())

	count := 1
	require.NoError(t, sp.ForEachRemaining(func(int) bool {
		count++
		return true
	}))
	assert.Equal(t, 100, count)
}

func TestSpliterator_Empty(t *testing.T) {
	var m BiMapOf[string, string]
	sp := m.KeySet().Spliterator()
	assert.Nil(t, sp.TrySplit())
	assert.Equal(t, 0, sp.EstimateSize())
	ok, err := sp.TryAdvance(func(string) { t.Fatal("unexpected element") })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSpliterator_LateBinding(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	sp := m.KeySet().Spliterator()
	for i := 0; i < 50; i++ {
		m.Put(i, i)
	}
	count := 0
	require.NoError(t, sp.ForEachRemaining(func(int) bool {
		count++
		return true
	}))
	assert.Equal(t, 50, count)
}

func TestSpliterator_ConcurrentModification(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	for i := 0; i < 50; i++ {
		m.Put(i, i)
	}
	sp := m.KeySet().Spliterator()
	require.Equal(t, 50, sp.EstimateSize())
	m.Put(100, 100)

	_, err := sp.TryAdvance(func(int) {})
	require.ErrorIs(t, err, ErrConcurrentModification)

	esp := m.EntrySet().Spliterator()
	err = esp.ForEachRemaining(func(e Entry[int, int]) bool {
		if e.Key == 10 {
			m.Delete(20)
		}
		return true
	})
	require.ErrorIs(t, err, ErrConcurrentModification)
}

func TestCharacteristics_String(t *testing.T) {
	assert.Equal(t, "Sized|Distinct", (Sized | Distinct).String())
	assert.Equal(t, "Distinct", Distinct.String())
	assert.Equal(t, "None", Characteristics(0).String())
	assert.Equal(t, "Characteristics(8)", Characteristics(8).String())
}

func TestParallelForEach(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	const n = 100000
	want := int64(0)
	for i := 0; i < n; i++ {
		m.Put(i, i*2)
		want += int64(i * 2)
	}
	var sum atomic.Int64
	var mu sync.Mutex
	seen := make(map[int]struct{}, n)
	err := ParallelForEach(context.Background(), m.EntrySet().Spliterator(), 4, func(e Entry[int, int]) error {
		sum.Add(int64(e.Value))
		mu.Lock()
		seen[e.Key] = struct{}{}
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, want, sum.Load())
	assert.Len(t, seen, n)
}

func TestParallelForEach_Error(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	for i := 0; i < 10000; i++ {
		m.Put(i, i)
	}
	errStop := errors.New("stop")
	err := ParallelForEach(context.Background(), m.KeySet().Spliterator(), 0, func(k int) error {
		if k == 5000 {
			return errStop
		}
		return nil
	})
	require.ErrorIs(t, err, errStop)
}

func TestParallelForEach_Canceled(t *testing.T) {
	m := MustNewBiMapOf[int, int]()
	for i := 0; i < 1000; i++ {
		m.Put(i, i)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ParallelForEach(ctx, m.KeySet().Spliterator(), 2, func(int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)

	err = ParallelForEach[int](context.Background(), m.KeySet().Spliterator(), 2, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCalcParallelism(t *testing.T) {
	tests := []struct {
		items, threshold, cpus int
		chunkSize, chunks      int
	}{
		{items: 10, threshold: 256, cpus: 8, chunkSize: 10, chunks: 1},
		{items: 1024, threshold: 256, cpus: 8, chunkSize: 256, chunks: 4},
		{items: 100000, threshold: 256, cpus: 8, chunkSize: 12500, chunks: 8},
	}
	for _, tt := range tests {
		chunkSize, chunks := calcParallelism(tt.items, tt.threshold, tt.cpus)
		assert.Equal(t, tt.chunkSize, chunkSize, "chunk size for %d items", tt.items)
		assert.Equal(t, tt.chunks, chunks, "chunks for %d items", tt.items)
	}
}

package bimap

import (
	"context"
	"testing"
)

func BenchmarkBiMapOfLoadSmall(b *testing.B) {
	benchmarkBiMapOfLoad(b, testDataSmall[:])
}

func BenchmarkBiMapOfLoad(b *testing.B) {
	benchmarkBiMapOfLoad(b, testData[:])
}

func BenchmarkBiMapOfLoadLarge(b *testing.B) {
	benchmarkBiMapOfLoad(b, testDataLarge[:])
}

func benchmarkBiMapOfLoad(b *testing.B, data []string) {
	b.ReportAllocs()
	var m BiMapOf[string, int]
	for i := range data {
		m.Put(data[i], i)
	}
	b.ResetTimer()
	i := 0
	for b.Loop() {
		_, _ = m.Load(data[i])
		_, _ = m.LoadKey(i)
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkBiMapOfPut(b *testing.B) {
	benchmarkBiMapOfPut(b, testData[:])
}

func BenchmarkBiMapOfPutLarge(b *testing.B) {
	benchmarkBiMapOfPut(b, testDataLarge[:])
}

func benchmarkBiMapOfPut(b *testing.B, data []string) {
	b.ReportAllocs()
	var m BiMapOf[string, int]
	b.ResetTimer()
	i := 0
	for b.Loop() {
		_, _, _ = m.ForcePut(data[i], i)
		i++
		if i >= len(data) {
			i = 0
		}
	}
}

func BenchmarkBiMapOfPutDelete(b *testing.B) {
	b.ReportAllocs()
	var m BiMapOf[int, int]
	b.ResetTimer()
	i := 0
	for b.Loop() {
		m.Put(i, i)
		m.Delete(i - 64)
		i++
	}
}

func BenchmarkBiMapOfCollisions(b *testing.B) {
	b.ReportAllocs()
	m, _ := NewBiMapOfWithHasher[int, int](
		func(k int) uintptr { return uintptr(k & 15) },
		nil,
	)
	for i := 0; i < 4096; i++ {
		m.Put(i, i)
	}
	b.ResetTimer()
	i := 0
	for b.Loop() {
		_, _ = m.Load(i & 4095)
		i++
	}
}

func BenchmarkBiMapOfRange(b *testing.B) {
	b.ReportAllocs()
	var m BiMapOf[string, int]
	for i := range testDataLarge {
		m.Put(testDataLarge[i], i)
	}
	b.ResetTimer()
	for b.Loop() {
		n := 0
		m.Range(func(string, int) bool {
			n++
			return true
		})
	}
}

func BenchmarkParallelForEach(b *testing.B) {
	b.ReportAllocs()
	var m BiMapOf[string, int]
	for i := range testDataLarge {
		m.Put(testDataLarge[i], i)
	}
	b.ResetTimer()
	for b.Loop() {
		_ = ParallelForEach(context.Background(), m.KeySet().Spliterator(), 0, func(string) error {
			return nil
		})
	}
}

func BenchmarkSyncBiMapOfLoad(b *testing.B) {
	b.ReportAllocs()
	s := Synchronized(&BiMapOf[string, int]{})
	for i := range testData {
		s.Put(testData[i], i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = s.Load(testData[i])
			i++
			if i >= len(testData) {
				i = 0
			}
		}
	})
}

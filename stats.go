package bimap

import (
	"fmt"
	"math"
	"strings"
)

// TableStats is the statistics of one direction of a BiMapOf.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type TableStats struct {
	// Capacity is the number of bins, or the pending initial capacity
	// before the first insert.
	Capacity int
	// Size is the exact number of entries stored in the table.
	Size int
	// Threshold is the size at which the table grows next.
	Threshold int
	// EmptyBins is the number of bins that hold no entries.
	EmptyBins int
	// ListBins is the number of non-empty list bins.
	ListBins int
	// TreeBins is the number of red-black tree bins.
	TreeBins int
	// MinEntries is the minimum number of entries per bin.
	MinEntries int
	// MaxEntries is the maximum number of entries per bin.
	MaxEntries int
	// TotalGrowths is the number of times the table doubled.
	TotalGrowths uint32
	// TotalTreeifies is the number of list bins converted to trees.
	TotalTreeifies uint32
	// TotalUntreeifies is the number of tree bins converted back to lists.
	TotalUntreeifies uint32
}

// BiMapStats is BiMapOf statistics.
type BiMapStats struct {
	Forward TableStats
	Inverse TableStats
}

// Stats returns statistics for both tables of the map.
func (m *BiMapOf[K, V]) Stats() *BiMapStats {
	fwd, inv := m.tables()
	return &BiMapStats{
		Forward: fwd.stats(),
		Inverse: inv.stats(),
	}
}

func (t *hashTable[K, V]) stats() TableStats {
	s := TableStats{
		Capacity:         t.capacity(),
		Size:             t.size,
		Threshold:        t.threshold,
		TotalGrowths:     t.growths,
		TotalTreeifies:   t.treeifies,
		TotalUntreeifies: t.untreeifies,
	}
	if len(t.bins) == 0 {
		return s
	}
	s.MinEntries = math.MaxInt
	for _, first := range t.bins {
		n := binLen(first)
		switch {
		case n == 0:
			s.EmptyBins++
		case first.isTree():
			s.TreeBins++
		default:
			s.ListBins++
		}
		s.MinEntries = min(s.MinEntries, n)
		s.MaxEntries = max(s.MaxEntries, n)
	}
	return s
}

// ToString returns string representation of table stats.
func (s *TableStats) ToString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Capacity:         %d\n", s.Capacity))
	sb.WriteString(fmt.Sprintf("Size:             %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Threshold:        %d\n", s.Threshold))
	sb.WriteString(fmt.Sprintf("EmptyBins:        %d\n", s.EmptyBins))
	sb.WriteString(fmt.Sprintf("ListBins:         %d\n", s.ListBins))
	sb.WriteString(fmt.Sprintf("TreeBins:         %d\n", s.TreeBins))
	sb.WriteString(fmt.Sprintf("MinEntries:       %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:       %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("TotalGrowths:     %d\n", s.TotalGrowths))
	sb.WriteString(fmt.Sprintf("TotalTreeifies:   %d\n", s.TotalTreeifies))
	sb.WriteString(fmt.Sprintf("TotalUntreeifies: %d\n", s.TotalUntreeifies))
	return sb.String()
}

// ToString returns string representation of map stats.
func (s *BiMapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("BiMapStats{\n")
	sb.WriteString("Forward:\n")
	sb.WriteString(s.Forward.ToString())
	sb.WriteString("Inverse:\n")
	sb.WriteString(s.Inverse.ToString())
	sb.WriteString("}\n")
	return sb.String()
}

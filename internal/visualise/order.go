// Package visualise renders metric-sorted image grids for extreme-value review.
package visualise

import (
	"math"
	"sort"
)

// SortPermutation returns the indices that order values ascending. Equal
// values keep their original order and NaN sorts after every number.
func SortPermutation(values []float64) []int {
	perm := make([]int, len(values))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		va, vb := values[perm[a]], values[perm[b]]
		if math.IsNaN(vb) {
			return !math.IsNaN(va)
		}
		return va < vb
	})
	return perm
}

// Chunk is a half-open window [Start, End) over a sorted sequence
type Chunk struct {
	Index int
	Start int
	End   int
}

// Len returns the number of positions in the window
func (c Chunk) Len() int {
	return c.End - c.Start
}

// PlanChunks splits total positions into slices windows of equal floor
// length. The total%slices trailing positions belong to no window.
func PlanChunks(total, slices int) []Chunk {
	if slices <= 0 || total < 0 {
		return nil
	}
	length := total / slices
	chunks := make([]Chunk, slices)
	for i := range chunks {
		chunks[i] = Chunk{
			Index: i,
			Start: i * length,
			End:   (i + 1) * length,
		}
	}
	return chunks
}

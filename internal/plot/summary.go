// Package plot compares metric distributions across label groups.
package plot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the quartile statistics of one group's metric values
type Summary struct {
	Count      int
	Dropped    int
	Q1         float64
	Median     float64
	Q3         float64
	IQR        float64
	LowerFence float64
	UpperFence float64
	Outliers   int
}

// finite returns the finite values of v in ascending order and the number discarded
func finite(v []float64) ([]float64, int) {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out = append(out, x)
	}
	sort.Float64s(out)
	return out, len(v) - len(out)
}

// Summarize computes quartiles and the 1.5*IQR outlier fences over the
// finite values. With no finite values every statistic is NaN.
func Summarize(values []float64) Summary {
	data, dropped := finite(values)
	s := Summary{Count: len(data), Dropped: dropped}
	if len(data) == 0 {
		nan := math.NaN()
		s.Q1, s.Median, s.Q3, s.IQR, s.LowerFence, s.UpperFence = nan, nan, nan, nan, nan, nan
		return s
	}

	s.Q1 = stat.Quantile(0.25, stat.LinInterp, data, nil)
	s.Median = stat.Quantile(0.5, stat.LinInterp, data, nil)
	s.Q3 = stat.Quantile(0.75, stat.LinInterp, data, nil)
	s.IQR = s.Q3 - s.Q1
	s.LowerFence = s.Q1 - 1.5*s.IQR
	s.UpperFence = s.Q3 + 1.5*s.IQR

	for _, x := range data {
		if x < s.LowerFence || x > s.UpperFence {
			s.Outliers++
		}
	}
	return s
}

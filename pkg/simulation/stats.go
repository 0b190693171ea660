package simulation

import (
	"math"
	"sort"
)

// Stats summarizes a revenue-impact distribution.
type Stats struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
	P90    float64
	P95    float64
	P99    float64
}

// ComputeStats calculates summary statistics over simulation outputs.
func ComputeStats(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted)) // population variance

	return Stats{
		Mean:   mean,
		Median: percentile(sorted, 50),
		StdDev: math.Sqrt(variance),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    percentile(sorted, 25),
		P75:    percentile(sorted, 75),
		P90:    percentile(sorted, 90),
		P95:    percentile(sorted, 95),
		P99:    percentile(sorted, 99),
	}
}

// percentile computes the q-th percentile of a sorted slice with
// linear interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Histogram is a fixed-bin-count view of the impact distribution. The
// bin count is part of the simulation config; counts always sum to
// the iteration count.
type Histogram struct {
	BinEdges   []float64 // len = bins + 1
	BinCenters []float64 // len = bins
	Counts     []int     // len = bins
}

// NewHistogram buckets values into the given number of equal-width
// bins spanning [min, max]. The maximum value lands in the last bin.
// A degenerate distribution (min == max) puts everything in bin zero.
func NewHistogram(values []float64, bins int) Histogram {
	if bins <= 0 || len(values) == 0 {
		return Histogram{}
	}
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	h := Histogram{
		BinEdges:   make([]float64, bins+1),
		BinCenters: make([]float64, bins),
		Counts:     make([]int, bins),
	}
	width := (max - min) / float64(bins)
	for i := 0; i <= bins; i++ {
		h.BinEdges[i] = min + width*float64(i)
	}
	for i := 0; i < bins; i++ {
		h.BinCenters[i] = (h.BinEdges[i] + h.BinEdges[i+1]) / 2
	}

	for _, v := range values {
		idx := 0
		if width > 0 {
			idx = int((v - min) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		h.Counts[idx]++
	}
	return h
}

// Package analytics is the working-set analytics engine: pure, stateless
// calculations over an in-memory slice of catalog parts.
//
// Every function allocates fresh result values and never mutates its input;
// callers may share part slices across goroutines as long as nobody writes
// to them. Expected edge cases (empty input, degenerate spread, tiny
// samples) produce explicit sentinel outputs instead of errors — see the
// individual calculators.
//
// Two outlier definitions deliberately coexist: the box-plot engine uses
// Tukey 1.5·IQR fences (robust for visualization), the bias detector uses a
// 2σ z-score quick scan. They answer different questions and are consumed
// by different surfaces; do not unify them.
package analytics

import (
	"math"
	"sort"

	"github.com/optiview/partbench/catalog"
)

// DimensionStats summarizes one numeric series. StdDev is the population
// standard deviation (÷n) and is nil when the sample is too small (n<2) for
// dispersion to mean anything; it is exactly 0 when all values are equal.
type DimensionStats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	StdDev *float64 `json:"stdDev"`
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value (odd count) or the average of the two
// middle values (even count), 0 for an empty slice. The input is copied
// before sorting.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the population standard deviation of values, or nil when
// fewer than two values are present.
func StdDev(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	sd := popStdDev(values, Mean(values))
	return &sd
}

// popStdDev is the shared population standard deviation kernel used by both
// the summary statistics and the z-score detector.
func popStdDev(values []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Summarize computes the full DimensionStats record for one series.
func Summarize(values []float64) DimensionStats {
	stats := DimensionStats{
		Count:  len(values),
		Mean:   Mean(values),
		Median: Median(values),
		StdDev: StdDev(values),
	}
	if len(values) == 0 {
		return stats
	}

	stats.Min = values[0]
	stats.Max = values[0]
	for _, v := range values[1:] {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	return stats
}

// PartAggregate reports DimensionStats independently for each measured
// field of a part set. SmallestDepthFeature is computed only over the
// subset of parts that define one (its Count reflects that subset) and is
// nil when no part does.
type PartAggregate struct {
	Width                  DimensionStats  `json:"width"`
	Height                 DimensionStats  `json:"height"`
	Length                 DimensionStats  `json:"length"`
	SmallestLateralFeature DimensionStats  `json:"smallestLateralFeature"`
	SmallestDepthFeature   *DimensionStats `json:"smallestDepthFeature"`
}

// AggregateStats computes per-field statistics across the working set.
func AggregateStats(parts []catalog.Part) PartAggregate {
	widths := make([]float64, len(parts))
	heights := make([]float64, len(parts))
	lengths := make([]float64, len(parts))
	lateral := make([]float64, len(parts))
	var depth []float64

	for i := range parts {
		widths[i] = parts[i].WidthMM
		heights[i] = parts[i].HeightMM
		lengths[i] = parts[i].LengthMM
		lateral[i] = parts[i].SmallestLateralFeatureUM
		if parts[i].SmallestDepthFeatureUM != nil {
			depth = append(depth, *parts[i].SmallestDepthFeatureUM)
		}
	}

	agg := PartAggregate{
		Width:                  Summarize(widths),
		Height:                 Summarize(heights),
		Length:                 Summarize(lengths),
		SmallestLateralFeature: Summarize(lateral),
	}
	if len(depth) > 0 {
		depthStats := Summarize(depth)
		agg.SmallestDepthFeature = &depthStats
	}
	return agg
}

package analytics

import (
	"math"
	"sort"

	"github.com/optiview/partbench/catalog"
)

// Observation is one value with the identity of the part that produced it,
// carried through so outliers can be named in tooltips.
type Observation struct {
	Value   float64 `json:"value"`
	PartID  string  `json:"partId"`
	Callout string  `json:"partCallout"`
}

// BoxPlotStats is the quartile/box-plot summary of one series.
//
// Fences are the Tukey 1.5·IQR bounds; the whisker endpoints are the most
// extreme observed values still inside the fences, not the fences
// themselves. Mean is computed independently of the quartile path so it
// reflects extreme values even when the median does not.
type BoxPlotStats struct {
	Count       int           `json:"count"`
	Min         float64       `json:"min"`
	Q1          float64       `json:"q1"`
	Median      float64       `json:"median"`
	Q3          float64       `json:"q3"`
	Max         float64       `json:"max"`
	IQR         float64       `json:"iqr"`
	LowerFence  float64       `json:"lowerFence"`
	UpperFence  float64       `json:"upperFence"`
	WhiskerLow  float64       `json:"whiskerLow"`
	WhiskerHigh float64       `json:"whiskerHigh"`
	Mean        float64       `json:"mean"`
	Outliers    []Observation `json:"outliers"`
}

// percentileR7 interpolates the p-th quantile of an ascending-sorted series
// using the R-7 (Excel PERCENTILE.INC) method: h = (n−1)·p, linear
// interpolation between the straddling elements when h is fractional.
func percentileR7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	h := float64(n-1) * p
	lower := int(math.Floor(h))
	upper := int(math.Ceil(h))
	if lower == upper || upper >= n {
		return sorted[lower]
	}
	frac := h - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// BoxPlot computes quartiles, fences, whiskers, and IQR outliers for a
// series of observations. The input is not mutated; an empty input yields
// the all-zero record with an empty outlier list.
func BoxPlot(obs []Observation) BoxPlotStats {
	if len(obs) == 0 {
		return BoxPlotStats{Outliers: []Observation{}}
	}

	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	values := make([]float64, len(sorted))
	var sum float64
	for i, o := range sorted {
		values[i] = o.Value
		sum += o.Value
	}

	stats := BoxPlotStats{
		Count:    len(sorted),
		Min:      values[0],
		Q1:       percentileR7(values, 0.25),
		Median:   percentileR7(values, 0.5),
		Q3:       percentileR7(values, 0.75),
		Max:      values[len(values)-1],
		Mean:     sum / float64(len(values)),
		Outliers: []Observation{},
	}
	stats.IQR = stats.Q3 - stats.Q1
	stats.LowerFence = stats.Q1 - 1.5*stats.IQR
	stats.UpperFence = stats.Q3 + 1.5*stats.IQR

	// Whiskers: most extreme observed values still within the fences
	stats.WhiskerLow = values[0]
	for _, v := range values {
		if v >= stats.LowerFence {
			stats.WhiskerLow = v
			break
		}
	}
	stats.WhiskerHigh = values[len(values)-1]
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] <= stats.UpperFence {
			stats.WhiskerHigh = values[i]
			break
		}
	}

	// Outliers: strictly outside the fences, ascending value order
	for _, o := range sorted {
		if o.Value < stats.LowerFence || o.Value > stats.UpperFence {
			stats.Outliers = append(stats.Outliers, o)
		}
	}

	return stats
}

// ObservationsFor extracts one dimension of a part set as observations,
// preserving input order.
func ObservationsFor(parts []catalog.Part, dim catalog.Dimension) []Observation {
	obs := make([]Observation, len(parts))
	for i := range parts {
		obs[i] = Observation{
			Value:   dim.Of(&parts[i]),
			PartID:  parts[i].Key(),
			Callout: parts[i].Callout,
		}
	}
	return obs
}

// GroupedBoxPlot is a per-group box plot, labeled by series or family.
// SeriesCount is populated only by the family variant and reports how many
// distinct series the family's parts roll up from.
type GroupedBoxPlot struct {
	Label       string       `json:"label"`
	PartCount   int          `json:"partCount"`
	SeriesCount int          `json:"seriesCount,omitempty"`
	Stats       BoxPlotStats `json:"stats"`
}

// BoxPlotBySeries partitions parts by series (missing → "Uncategorized"),
// computes a box plot per group, and returns groups sorted alphabetically
// by label. The default label sorts by its own text like any other.
func BoxPlotBySeries(parts []catalog.Part, dim catalog.Dimension) []GroupedBoxPlot {
	groups := make(map[string][]catalog.Part)
	for _, p := range parts {
		label := p.SeriesLabel()
		groups[label] = append(groups[label], p)
	}
	return finishGroups(groups, dim, false)
}

// BoxPlotByFamily partitions parts by family (missing → "Unassigned") and
// additionally reports each family's distinct-series count.
func BoxPlotByFamily(parts []catalog.Part, dim catalog.Dimension) []GroupedBoxPlot {
	groups := make(map[string][]catalog.Part)
	for _, p := range parts {
		label := p.FamilyLabel()
		groups[label] = append(groups[label], p)
	}
	return finishGroups(groups, dim, true)
}

// finishGroups reduces the accumulated hash-map-of-lists to sorted group
// results. Accumulation order is irrelevant; the final sort by label makes
// output deterministic.
func finishGroups(groups map[string][]catalog.Part, dim catalog.Dimension, withSeriesCount bool) []GroupedBoxPlot {
	result := make([]GroupedBoxPlot, 0, len(groups))
	for label, members := range groups {
		g := GroupedBoxPlot{
			Label:     label,
			PartCount: len(members),
			Stats:     BoxPlot(ObservationsFor(members, dim)),
		}
		if withSeriesCount {
			series := make(map[string]struct{})
			for _, p := range members {
				series[p.SeriesLabel()] = struct{}{}
			}
			g.SeriesCount = len(series)
		}
		result = append(result, g)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result
}

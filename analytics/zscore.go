package analytics

import (
	"sort"

	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/internal/util"
)

// zScoreThreshold is the number of population standard deviations beyond
// which a part counts as a z-score outlier. Strict inequality: a value at
// exactly 2σ is not an outlier.
const zScoreThreshold = 2.0

// minPartsForOutliers is the smallest working set for which dispersion is
// meaningful enough to flag outliers.
const minPartsForOutliers = 3

// ZScoreOutlier names a part whose dimension value deviates from the
// working-set mean by more than the threshold.
type ZScoreOutlier struct {
	PartID  string  `json:"partId"`
	Callout string  `json:"partCallout"`
	Value   float64 `json:"value"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stdDev"`
	ZScore  float64 `json:"zScore"`
}

// ZScoreOutliers flags every part whose value along dim deviates from the
// population mean by strictly more than 2σ. Fewer than three parts, or a
// zero standard deviation (all values identical), yields no outliers.
func ZScoreOutliers(parts []catalog.Part, dim catalog.Dimension) []ZScoreOutlier {
	if len(parts) < minPartsForOutliers {
		return nil
	}

	values := make([]float64, len(parts))
	for i := range parts {
		values[i] = dim.Of(&parts[i])
	}
	mean := Mean(values)
	sd := popStdDev(values, mean)
	if sd == 0 {
		return nil
	}

	var outliers []ZScoreOutlier
	for i := range parts {
		deviation := util.AbsFloat64(values[i] - mean)
		if deviation > zScoreThreshold*sd {
			outliers = append(outliers, ZScoreOutlier{
				PartID:  parts[i].Key(),
				Callout: parts[i].Callout,
				Value:   values[i],
				Mean:    mean,
				StdDev:  sd,
				ZScore:  (values[i] - mean) / sd,
			})
		}
	}
	return outliers
}

// ZScoreOutliersByDimension runs the detector independently for each of the
// three dimensions. Dimensions with no outliers are present with a nil
// slice so callers can range over all three.
func ZScoreOutliersByDimension(parts []catalog.Part) map[catalog.Dimension][]ZScoreOutlier {
	result := make(map[catalog.Dimension][]ZScoreOutlier, 3)
	for _, dim := range catalog.Dimensions() {
		result[dim] = ZScoreOutliers(parts, dim)
	}
	return result
}

// CombinedOutlierCallouts extracts the de-duplicated set of outlier part
// callouts across all dimensions, sorted for deterministic output.
func CombinedOutlierCallouts(byDimension map[catalog.Dimension][]ZScoreOutlier) []string {
	seen := make(map[string]struct{})
	for _, outliers := range byDimension {
		for _, o := range outliers {
			seen[o.Callout] = struct{}{}
		}
	}

	callouts := make([]string, 0, len(seen))
	for c := range seen {
		callouts = append(callouts, c)
	}
	sort.Strings(callouts)
	return callouts
}

package analytics

import (
	"fmt"

	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/internal/util"
)

// dominanceThresholdPct is the share of the working set above which a
// single series triggers a dominance warning. Strictly above: exactly 80%
// does not trigger.
const dominanceThresholdPct = 80

// Severity classifies how strongly a bias finding should be surfaced.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// FindingKind tags the heuristic that produced a finding.
type FindingKind string

const (
	FindingSeriesDominance FindingKind = "series_dominance"
	FindingTooFewParts     FindingKind = "too_few_parts"
	FindingOutlierSkew     FindingKind = "outlier_skew"
)

// Finding is one advisory about the representativeness of a working set.
// Details carries kind-specific structured values for the UI.
type Finding struct {
	Kind     FindingKind    `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// BiasReport is the combined result of all bias heuristics.
type BiasReport struct {
	Findings []Finding `json:"findings"`
	HasBias  bool      `json:"hasBias"`
}

// DetectBias runs the three heuristics independently and concatenates
// their findings in fixed order: series dominance, too-few-parts, outlier
// skew.
func DetectBias(parts []catalog.Part) BiasReport {
	findings := []Finding{}
	if f := detectSeriesDominance(parts); f != nil {
		findings = append(findings, *f)
	}
	if f := detectTooFewParts(parts); f != nil {
		findings = append(findings, *f)
	}
	if f := detectOutlierSkew(parts); f != nil {
		findings = append(findings, *f)
	}
	return BiasReport{
		Findings: findings,
		HasBias:  len(findings) > 0,
	}
}

// detectSeriesDominance warns when a single series accounts for strictly
// more than 80% of the working set. Missing series group under "Unknown".
func detectSeriesDominance(parts []catalog.Part) *Finding {
	total := len(parts)
	if total == 0 {
		return nil
	}

	counts := make(map[string]int)
	for i := range parts {
		counts[parts[i].SeriesForBias()]++
	}

	for series, count := range counts {
		// Integer comparison keeps the exactly-80% case from triggering
		if count*100 <= total*dominanceThresholdPct {
			continue
		}
		pct := util.RoundToInt(float64(count) / float64(total) * 100)
		return &Finding{
			Kind:     FindingSeriesDominance,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Series %s accounts for %d of %d selected parts (%d%%); the working set may not represent other series",
				series, count, total, pct),
			Details: map[string]any{
				"series":     series,
				"count":      count,
				"total":      total,
				"percentage": pct,
			},
		}
	}
	return nil
}

// detectTooFewParts flags working sets of one or two parts.
func detectTooFewParts(parts []catalog.Part) *Finding {
	count := len(parts)
	if count != 1 && count != 2 {
		return nil
	}
	return &Finding{
		Kind:     FindingTooFewParts,
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("Only %d part(s) selected; statistics over so few parts are unlikely to generalize", count),
		Details: map[string]any{
			"count": count,
		},
	}
}

// detectOutlierSkew scans dimensions in fixed order (width, height, length)
// and reports the first part, in input order, whose value deviates from the
// population mean by more than 2σ. Only the first match across the first
// dimension with any match is reported; the full per-part sweep lives in
// ZScoreOutliers.
func detectOutlierSkew(parts []catalog.Part) *Finding {
	if len(parts) < minPartsForOutliers {
		return nil
	}

	for _, dim := range catalog.Dimensions() {
		values := make([]float64, len(parts))
		for i := range parts {
			values[i] = dim.Of(&parts[i])
		}
		mean := Mean(values)
		sd := popStdDev(values, mean)
		if sd == 0 {
			continue
		}

		for i := range parts {
			deviation := util.AbsFloat64(values[i] - mean)
			if deviation <= zScoreThreshold*sd {
				continue
			}

			sigma := deviation / sd
			direction := "above"
			if values[i] < mean {
				direction = "below"
			}
			return &Finding{
				Kind:     FindingOutlierSkew,
				Severity: SeverityInfo,
				Message: fmt.Sprintf("%s %s is %.1fσ %s the working-set mean (%.2f vs %.2f); it may skew aggregate statistics",
					parts[i].Callout, dim.Label(), sigma, direction, values[i], mean),
				Details: map[string]any{
					"partCallout": parts[i].Callout,
					"dimension":   string(dim),
					"sigma":       sigma,
					"direction":   direction,
					"value":       values[i],
					"mean":        mean,
				},
			}
		}
	}
	return nil
}

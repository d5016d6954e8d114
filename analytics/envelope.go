package analytics

import (
	"github.com/optiview/partbench/catalog"
)

// AxisMax is the worst-case extent along one axis and the part that set it.
type AxisMax struct {
	ValueMM float64 `json:"value_mm"`
	PartID  string  `json:"partId"`
	Callout string  `json:"partCallout"`
}

// Envelope is the smallest bounding box (by axis maxima) containing every
// part in the working set.
type Envelope struct {
	Width  AxisMax `json:"width"`
	Height AxisMax `json:"height"`
	Length AxisMax `json:"length"`
}

// ComputeEnvelope finds, per axis independently, the maximum extent and the
// driving part. Ties go to the earliest part in input order (strict >
// during the scan). Returns nil for an empty working set.
func ComputeEnvelope(parts []catalog.Part) *Envelope {
	if len(parts) == 0 {
		return nil
	}

	axisMax := func(dim catalog.Dimension) AxisMax {
		best := AxisMax{
			ValueMM: dim.Of(&parts[0]),
			PartID:  parts[0].Key(),
			Callout: parts[0].Callout,
		}
		for i := 1; i < len(parts); i++ {
			if v := dim.Of(&parts[i]); v > best.ValueMM {
				best = AxisMax{ValueMM: v, PartID: parts[i].Key(), Callout: parts[i].Callout}
			}
		}
		return best
	}

	return &Envelope{
		Width:  axisMax(catalog.DimensionWidth),
		Height: axisMax(catalog.DimensionHeight),
		Length: axisMax(catalog.DimensionLength),
	}
}

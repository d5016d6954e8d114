package analytics

import (
	"github.com/optiview/partbench/catalog"
)

// DepthRange is the min/max of zone depths, in millimeters. Min equals Max
// when only one zone exists.
type DepthRange struct {
	MinMM float64 `json:"min_mm"`
	MaxMM float64 `json:"max_mm"`
}

// ZoneAggregate summarizes the inspection zones of a working set.
//
// ZonesByFace is sparse: faces with zero zones are absent, not zero-valued.
// Feature sizes are resolved per zone (zone override else part default)
// before aggregation; SmallestDepthFeatureUM is nil when no zone in the set
// resolves to a depth feature at all.
type ZoneAggregate struct {
	TotalZones             int                  `json:"totalZones"`
	ZonesByFace            map[catalog.Face]int `json:"zonesByFace"`
	DepthRange             DepthRange           `json:"depthRange"`
	SmallestFeatureUM      float64              `json:"smallestFeature_um"`
	SmallestDepthFeatureUM *float64             `json:"smallestDepthFeature_um,omitempty"`
}

// AggregateZones aggregates zone sub-records across all selected parts.
// Returns nil when the part list is empty or no part carries any zones.
func AggregateZones(parts []catalog.Part) *ZoneAggregate {
	agg := &ZoneAggregate{
		ZonesByFace: make(map[catalog.Face]int),
	}

	first := true
	for pi := range parts {
		part := &parts[pi]
		for zi := range part.InspectionZones {
			zone := &part.InspectionZones[zi]
			agg.TotalZones++
			agg.ZonesByFace[zone.Face]++

			lateral := zone.LateralFeatureUM(part)
			if depth := zone.DepthFeatureUM(part); depth != nil {
				if agg.SmallestDepthFeatureUM == nil || *depth < *agg.SmallestDepthFeatureUM {
					v := *depth
					agg.SmallestDepthFeatureUM = &v
				}
			}

			if first {
				agg.DepthRange = DepthRange{MinMM: zone.DepthMM, MaxMM: zone.DepthMM}
				agg.SmallestFeatureUM = lateral
				first = false
				continue
			}
			if zone.DepthMM < agg.DepthRange.MinMM {
				agg.DepthRange.MinMM = zone.DepthMM
			}
			if zone.DepthMM > agg.DepthRange.MaxMM {
				agg.DepthRange.MaxMM = zone.DepthMM
			}
			if lateral < agg.SmallestFeatureUM {
				agg.SmallestFeatureUM = lateral
			}
		}
	}

	if agg.TotalZones == 0 {
		return nil
	}
	return agg
}

// FaceAggregate summarizes the zones on one face of the selected parts.
// ZonesBySeries counts zones per part series (missing → "Uncategorized"),
// restricted to this face.
type FaceAggregate struct {
	Face                   catalog.Face   `json:"face"`
	ZoneCount              int            `json:"zoneCount"`
	DepthRange             DepthRange     `json:"depthRange"`
	SmallestFeatureUM      float64        `json:"smallestFeature_um"`
	SmallestDepthFeatureUM *float64       `json:"smallestDepthFeature_um,omitempty"`
	ZonesBySeries          map[string]int `json:"zonesBySeries"`
}

// AggregateFace aggregates the zones restricted to a single face. Returns
// nil when no selected part has a zone on that face.
func AggregateFace(parts []catalog.Part, face catalog.Face) *FaceAggregate {
	agg := &FaceAggregate{
		Face:          face,
		ZonesBySeries: make(map[string]int),
	}

	first := true
	for pi := range parts {
		part := &parts[pi]
		for zi := range part.InspectionZones {
			zone := &part.InspectionZones[zi]
			if zone.Face != face {
				continue
			}
			agg.ZoneCount++
			agg.ZonesBySeries[part.SeriesLabel()]++

			lateral := zone.LateralFeatureUM(part)
			if depth := zone.DepthFeatureUM(part); depth != nil {
				if agg.SmallestDepthFeatureUM == nil || *depth < *agg.SmallestDepthFeatureUM {
					v := *depth
					agg.SmallestDepthFeatureUM = &v
				}
			}

			if first {
				agg.DepthRange = DepthRange{MinMM: zone.DepthMM, MaxMM: zone.DepthMM}
				agg.SmallestFeatureUM = lateral
				first = false
				continue
			}
			if zone.DepthMM < agg.DepthRange.MinMM {
				agg.DepthRange.MinMM = zone.DepthMM
			}
			if zone.DepthMM > agg.DepthRange.MaxMM {
				agg.DepthRange.MaxMM = zone.DepthMM
			}
			if lateral < agg.SmallestFeatureUM {
				agg.SmallestFeatureUM = lateral
			}
		}
	}

	if agg.ZoneCount == 0 {
		return nil
	}
	return agg
}

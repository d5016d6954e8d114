// Package catalog defines the part and inspection-zone data model shared by
// the analytics engine, the CLI, and the websocket surface.
//
// Records arriving here are assumed to have passed schema validation
// upstream; the engine does not re-check positivity or range constraints.
package catalog

// Default labels used when a part's optional grouping fields are absent.
//
// The bias detector historically labels a missing series "Unknown" while
// every other surface uses "Uncategorized". Both labels are kept; pick the
// resolver matching the consumer.
const (
	DefaultSeries     = "Uncategorized"
	BiasSeriesUnknown = "Unknown"
	DefaultFamily     = "Unassigned"
)

// Face identifies which side of a part an inspection zone sits on.
type Face string

const (
	FaceTop    Face = "Top"
	FaceBottom Face = "Bottom"
	FaceFront  Face = "Front"
	FaceBack   Face = "Back"
	FaceLeft   Face = "Left"
	FaceRight  Face = "Right"
)

// Faces lists the six face values in canonical order.
func Faces() []Face {
	return []Face{FaceTop, FaceBottom, FaceFront, FaceBack, FaceLeft, FaceRight}
}

// IsValid returns true if f is one of the six face values.
func (f Face) IsValid() bool {
	switch f {
	case FaceTop, FaceBottom, FaceFront, FaceBack, FaceLeft, FaceRight:
		return true
	default:
		return false
	}
}

// InspectionZone is a face-localized region of a part to be inspected.
// The zone spans OffsetMM ± DepthMM/2 from the face's center plane.
type InspectionZone struct {
	ZoneID string `json:"zoneId"`
	Name   string `json:"name"`
	Face   Face   `json:"face"`

	DepthMM  float64 `json:"depth_mm"`
	OffsetMM float64 `json:"offset_mm"`

	// Per-zone overrides; when nil, the owning part's default applies.
	SmallestLateralFeatureUM *float64 `json:"smallestLateralFeature_um,omitempty"`
	SmallestDepthFeatureUM   *float64 `json:"smallestDepthFeature_um,omitempty"`

	// Carried through for the selection wizard; not consumed by analytics.
	RequiredCoveragePct float64 `json:"requiredCoveragePct"`
	MinPixelsPerFeature int     `json:"minPixelsPerFeature"`
}

// Part is a physical item to be inspected. Callout is the primary key for
// all grouping and identification.
type Part struct {
	ID      string `json:"id,omitempty"`
	Callout string `json:"callout"`
	Series  string `json:"series,omitempty"`
	Family  string `json:"family,omitempty"`

	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
	LengthMM float64 `json:"length_mm"`

	SmallestLateralFeatureUM float64  `json:"smallestLateralFeature_um"`
	SmallestDepthFeatureUM   *float64 `json:"smallestDepthFeature_um,omitempty"`

	InspectionZones []InspectionZone `json:"inspectionZones,omitempty"`
}

// Key returns the identity used in analytics results: the explicit ID when
// the importing layer assigned one, else the callout.
func (p *Part) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.Callout
}

// SeriesLabel resolves the part's series, defaulting to "Uncategorized".
func (p *Part) SeriesLabel() string {
	if p.Series == "" {
		return DefaultSeries
	}
	return p.Series
}

// SeriesForBias resolves the part's series the way the bias detector labels
// it, defaulting to "Unknown".
func (p *Part) SeriesForBias() string {
	if p.Series == "" {
		return BiasSeriesUnknown
	}
	return p.Series
}

// FamilyLabel resolves the part's family, defaulting to "Unassigned".
func (p *Part) FamilyLabel() string {
	if p.Family == "" {
		return DefaultFamily
	}
	return p.Family
}

// LateralFeatureUM resolves the effective smallest lateral feature for a
// zone: the zone's override when set, else the owning part's default.
func (z *InspectionZone) LateralFeatureUM(p *Part) float64 {
	if z.SmallestLateralFeatureUM != nil {
		return *z.SmallestLateralFeatureUM
	}
	return p.SmallestLateralFeatureUM
}

// DepthFeatureUM resolves the effective smallest depth feature for a zone.
// Returns nil when neither the zone nor the part defines one.
func (z *InspectionZone) DepthFeatureUM(p *Part) *float64 {
	if z.SmallestDepthFeatureUM != nil {
		return z.SmallestDepthFeatureUM
	}
	return p.SmallestDepthFeatureUM
}

// Dimension selects one of a part's three axis measurements.
type Dimension string

const (
	DimensionWidth  Dimension = "width"
	DimensionHeight Dimension = "height"
	DimensionLength Dimension = "length"
)

// Dimensions lists the three dimensions in the fixed scan order used by the
// bias detector and the per-dimension outlier map.
func Dimensions() []Dimension {
	return []Dimension{DimensionWidth, DimensionHeight, DimensionLength}
}

// Of returns the part's value along this dimension.
func (d Dimension) Of(p *Part) float64 {
	switch d {
	case DimensionWidth:
		return p.WidthMM
	case DimensionHeight:
		return p.HeightMM
	case DimensionLength:
		return p.LengthMM
	default:
		return 0
	}
}

// Label returns the human-readable axis name for messages.
func (d Dimension) Label() string {
	switch d {
	case DimensionWidth:
		return "Width"
	case DimensionHeight:
		return "Height"
	case DimensionLength:
		return "Length"
	default:
		return string(d)
	}
}

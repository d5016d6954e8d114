package display

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"

	"github.com/optiview/partbench/analytics"
	"github.com/optiview/partbench/catalog"
)

// Report bundles the full analytics run over one working set for rendering.
type Report struct {
	PartCount int                                             `json:"partCount"`
	Aggregate analytics.PartAggregate                         `json:"aggregate"`
	BySeries  []analytics.GroupedBoxPlot                      `json:"bySeries"`
	ByFamily  []analytics.GroupedBoxPlot                      `json:"byFamily"`
	Outliers  map[catalog.Dimension][]analytics.ZScoreOutlier `json:"outliers"`
	Bias      analytics.BiasReport                            `json:"bias"`
	Zones     *analytics.ZoneAggregate                        `json:"zones"`
	Envelope  *analytics.Envelope                             `json:"envelope"`
}

// Render prints the report as pterm tables and panels.
func Render(r *Report) {
	pterm.DefaultSection.Printfln("Working set (%d parts)", r.PartCount)

	renderAggregate(r.Aggregate)
	renderEnvelope(r.Envelope)
	renderZones(r.Zones)
	renderGroups("By series", r.BySeries, false)
	renderGroups("By family", r.ByFamily, true)
	renderOutliers(r.Outliers)
	renderBias(r.Bias)
}

func fmtStdDev(sd *float64) string {
	if sd == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", *sd)
}

func renderAggregate(agg analytics.PartAggregate) {
	pterm.DefaultSection.WithLevel(2).Println("Dimension statistics")

	rows := pterm.TableData{
		{"Field", "Count", "Mean", "Median", "Min", "Max", "StdDev"},
		statsRow("Width (mm)", agg.Width),
		statsRow("Height (mm)", agg.Height),
		statsRow("Length (mm)", agg.Length),
		statsRow("Lateral feature (µm)", agg.SmallestLateralFeature),
	}
	if agg.SmallestDepthFeature != nil {
		rows = append(rows, statsRow("Depth feature (µm)", *agg.SmallestDepthFeature))
	}

	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func statsRow(label string, s analytics.DimensionStats) []string {
	return []string{
		label,
		fmt.Sprintf("%d", s.Count),
		fmt.Sprintf("%.3f", s.Mean),
		fmt.Sprintf("%.3f", s.Median),
		fmt.Sprintf("%.3f", s.Min),
		fmt.Sprintf("%.3f", s.Max),
		fmtStdDev(s.StdDev),
	}
}

func renderEnvelope(env *analytics.Envelope) {
	pterm.DefaultSection.WithLevel(2).Println("Envelope")
	if env == nil {
		pterm.Info.Println("No parts selected")
		return
	}

	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Axis", "Max (mm)", "Driving part"},
		{"Width", fmt.Sprintf("%.3f", env.Width.ValueMM), env.Width.Callout},
		{"Height", fmt.Sprintf("%.3f", env.Height.ValueMM), env.Height.Callout},
		{"Length", fmt.Sprintf("%.3f", env.Length.ValueMM), env.Length.Callout},
	}).Render()
}

func renderZones(zones *analytics.ZoneAggregate) {
	pterm.DefaultSection.WithLevel(2).Println("Inspection zones")
	if zones == nil {
		pterm.Info.Println("No inspection zones in the working set")
		return
	}

	faces := make([]string, 0, len(zones.ZonesByFace))
	for face, count := range zones.ZonesByFace {
		faces = append(faces, fmt.Sprintf("%s:%d", face, count))
	}
	sort.Strings(faces)

	rows := pterm.TableData{
		{"Total zones", fmt.Sprintf("%d", zones.TotalZones)},
		{"Zones by face", fmt.Sprintf("%v", faces)},
		{"Depth range (mm)", fmt.Sprintf("%.3f – %.3f", zones.DepthRange.MinMM, zones.DepthRange.MaxMM)},
		{"Smallest lateral feature (µm)", fmt.Sprintf("%.1f", zones.SmallestFeatureUM)},
	}
	if zones.SmallestDepthFeatureUM != nil {
		rows = append(rows, []string{"Smallest depth feature (µm)", fmt.Sprintf("%.1f", *zones.SmallestDepthFeatureUM)})
	}

	pterm.DefaultTable.WithData(rows).Render()
}

func renderGroups(title string, groups []analytics.GroupedBoxPlot, withSeriesCount bool) {
	pterm.DefaultSection.WithLevel(2).Println(title)
	if len(groups) == 0 {
		pterm.Info.Println("No groups")
		return
	}

	header := []string{"Group", "Parts", "Min", "Q1", "Median", "Q3", "Max", "Outliers"}
	if withSeriesCount {
		header = append(header, "Series")
	}
	rows := pterm.TableData{header}
	for _, g := range groups {
		row := []string{
			g.Label,
			fmt.Sprintf("%d", g.PartCount),
			fmt.Sprintf("%.3f", g.Stats.Min),
			fmt.Sprintf("%.3f", g.Stats.Q1),
			fmt.Sprintf("%.3f", g.Stats.Median),
			fmt.Sprintf("%.3f", g.Stats.Q3),
			fmt.Sprintf("%.3f", g.Stats.Max),
			fmt.Sprintf("%d", len(g.Stats.Outliers)),
		}
		if withSeriesCount {
			row = append(row, fmt.Sprintf("%d", g.SeriesCount))
		}
		rows = append(rows, row)
	}

	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func renderOutliers(byDim map[catalog.Dimension][]analytics.ZScoreOutlier) {
	pterm.DefaultSection.WithLevel(2).Println("Z-score outliers (>2σ)")

	found := false
	for _, dim := range catalog.Dimensions() {
		for _, o := range byDim[dim] {
			found = true
			pterm.Printfln("  %s %s = %.3f (mean %.3f, %.1fσ)",
				o.Callout, dim.Label(), o.Value, o.Mean, o.ZScore)
		}
	}
	if !found {
		pterm.Info.Println("None")
	}
}

func renderBias(report analytics.BiasReport) {
	pterm.DefaultSection.WithLevel(2).Println("Sample-set advisories")
	if !report.HasBias {
		pterm.Success.Println("No bias detected in the working set")
		return
	}

	for _, f := range report.Findings {
		switch f.Severity {
		case analytics.SeverityWarning:
			pterm.Warning.Println(f.Message)
		default:
			pterm.Info.Println(f.Message)
		}
	}
}

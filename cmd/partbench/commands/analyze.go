package commands

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/config"
	"github.com/optiview/partbench/display"
	"github.com/optiview/partbench/errors"
	"github.com/optiview/partbench/logger"
)

// AnalyzeCmd runs the full analytics suite over one working set
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analytics suite over a working set",
	Long: `Load a part catalog, select a working set, and compute descriptive
statistics, grouped box plots, z-score outliers, selection-bias findings,
inspection-zone aggregates, and the bounding envelope.

The catalog source is a local path or a remote URL (http, git, s3); remote
sources are fetched before loading. With no --select flag the working set
is the whole catalog.`,
	RunE: runAnalyze,
}

var (
	analyzeCatalog string
	analyzeSelect  []string
)

func init() {
	AnalyzeCmd.Flags().StringVar(&analyzeCatalog, "catalog", "", "Catalog path or URL (defaults to catalog.source from config)")
	AnalyzeCmd.Flags().StringSliceVar(&analyzeSelect, "select", nil, "Comma-separated part callouts forming the working set")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parts, fingerprint, err := loadWorkingSet(ctx, analyzeCatalog, analyzeSelect)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	svc := dispatch.NewService(logger.Logger)
	defer svc.Close()

	d := dispatch.NewDispatcher(svc, dispatch.Config{
		Threshold: cfg.Dispatch.Threshold,
		Debounce:  cfg.Dispatch.Debounce(),
	}, logger.Logger)
	defer d.Close()

	logger.Logger.Debugw("Analyzing working set",
		"parts", len(parts),
		"fingerprint", fingerprint)

	report, err := buildReport(ctx, d, parts)
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(report)
	}
	display.Render(report)
	return nil
}

// loadWorkingSet loads the catalog from source (flag value falling back to
// config) and narrows it to the selected callouts.
func loadWorkingSet(ctx context.Context, source string, callouts []string) ([]catalog.Part, string, error) {
	if source == "" {
		if cfg, err := config.Load(); err == nil {
			source = cfg.Catalog.Source
		}
	}
	if source == "" {
		return nil, "", errors.New("no catalog source: pass --catalog or set catalog.source in config")
	}

	doc, err := catalog.Load(ctx, source)
	if err != nil {
		return nil, "", err
	}

	parts := doc.Parts
	if len(callouts) > 0 {
		parts = catalog.Select(parts, callouts)
		if parts == nil {
			return nil, "", errors.Wrapf(errors.ErrNoData,
				"no catalog parts match callouts %s", strings.Join(callouts, ", "))
		}
	}

	return parts, catalog.Fingerprint(parts), nil
}

// buildReport routes every report section through the dispatcher so large
// working sets offload to the background worker.
func buildReport(ctx context.Context, d *dispatch.Dispatcher, parts []catalog.Part) (*display.Report, error) {
	report := &display.Report{PartCount: len(parts)}

	sections := []struct {
		payload dispatch.Payload
		dst     any
	}{
		{dispatch.Payload{Kind: dispatch.KindAggregateStats, Parts: parts}, &report.Aggregate},
		{dispatch.Payload{Kind: dispatch.KindBoxPlotBySeries, Parts: parts, Dimension: catalog.DimensionWidth}, &report.BySeries},
		{dispatch.Payload{Kind: dispatch.KindBoxPlotByFamily, Parts: parts, Dimension: catalog.DimensionWidth}, &report.ByFamily},
		{dispatch.Payload{Kind: dispatch.KindZScoreOutliers, Parts: parts}, &report.Outliers},
		{dispatch.Payload{Kind: dispatch.KindBias, Parts: parts}, &report.Bias},
		{dispatch.Payload{Kind: dispatch.KindZoneAggregate, Parts: parts}, &report.Zones},
		{dispatch.Payload{Kind: dispatch.KindEnvelope, Parts: parts}, &report.Envelope},
	}

	for _, s := range sections {
		data, err := d.RunOnce(ctx, s.payload)
		if err != nil {
			return nil, errors.Wrapf(err, "computation %q failed", s.payload.Kind)
		}
		if err := json.Unmarshal(data, s.dst); err != nil {
			return nil, errors.Wrapf(err, "failed to decode %q result", s.payload.Kind)
		}
	}

	return report, nil
}

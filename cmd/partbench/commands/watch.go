package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/catalog"
	"github.com/optiview/partbench/config"
	"github.com/optiview/partbench/display"
	"github.com/optiview/partbench/errors"
	"github.com/optiview/partbench/logger"
)

// WatchCmd recomputes analytics whenever the catalog file changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Recompute analytics whenever a catalog file changes",
	Long: `Watch a local catalog file and rerun the analytics suite after each
change. File writes are debounced, so an editor save that touches the file
several times produces one recomputation. Press Ctrl-C to stop.`,
	RunE: runWatch,
}

var (
	watchCatalog string
	watchSelect  []string
)

func init() {
	WatchCmd.Flags().StringVar(&watchCatalog, "catalog", "", "Catalog file path (defaults to catalog.source from config)")
	WatchCmd.Flags().StringSliceVar(&watchSelect, "select", nil, "Comma-separated part callouts forming the working set")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source := watchCatalog
	if source == "" {
		if cfg, err := config.Load(); err == nil {
			source = cfg.Catalog.Source
		}
	}
	if source == "" {
		return errors.New("no catalog source: pass --catalog or set catalog.source in config")
	}
	if strings.Contains(source, "://") {
		return errors.New("watch requires a local catalog file, not a remote URL")
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

	jsonOutput := display.ShouldOutputJSON(cmd)

	recompute := func(doc *catalog.Document) {
		parts := doc.Parts
		if len(watchSelect) > 0 {
			parts = catalog.Select(parts, watchSelect)
		}

		report, err := buildReport(ctx, d, parts)
		if err != nil {
			logger.Errorw("Analytics recomputation failed", "error", err)
			return
		}

		if jsonOutput {
			if err := display.OutputJSON(report); err != nil {
				logger.Errorw("Failed to output report", "error", err)
			}
			return
		}
		pterm.Info.Printfln("Catalog changed, recomputed (fingerprint %s)", catalog.Fingerprint(parts))
		display.Render(report)
	}

	// Initial run before any change arrives
	doc, err := catalog.LoadFile(source)
	if err != nil {
		return err
	}
	recompute(doc)

	watcher, err := catalog.NewWatcher(source)
	if err != nil {
		return err
	}
	defer watcher.Close()

	watcher.OnReload(recompute)
	watcher.Start()

	if !jsonOutput {
		pterm.Info.Printfln("Watching %s for changes (Ctrl-C to stop)", source)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		fmt.Println()
		logger.Infow("Shutting down watch", "signal", sig.String())
	case <-ctx.Done():
	}

	return nil
}

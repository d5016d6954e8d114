package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/optiview/partbench/analytics/dispatch"
	"github.com/optiview/partbench/config"
	"github.com/optiview/partbench/errors"
	"github.com/optiview/partbench/logger"
	"github.com/optiview/partbench/server"
)

// ServeCmd starts the websocket analytics server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the websocket analytics server",
	Long: `Start the websocket endpoint that accepts analytics requests and
streams back results. Each connection gets its own rate limit; computations
share one background worker service.`,
	RunE: runServe,
}

var servePort int

func init() {
	ServeCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (defaults to server.port from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	serverCfg := server.Config{
		Port:              cfg.Server.Port,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
	}
	if servePort != 0 {
		serverCfg.Port = servePort
	}

	svc := dispatch.NewService(logger.Logger)
	defer svc.Close()

	srv := server.NewServer(serverCfg, svc, logger.Logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	pterm.Success.Printfln("Analytics server listening on port %d (Ctrl-C to stop)", serverCfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server stopped")
	case sig := <-sigCh:
		logger.Infow("Shutting down server", "signal", sig.String())
	case <-cmd.Context().Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rollcall/internal/excel"
	"github.com/mesh-intelligence/rollcall/internal/jsonstore"
	"github.com/mesh-intelligence/rollcall/internal/logging"
	"github.com/mesh-intelligence/rollcall/internal/report"
	"github.com/mesh-intelligence/rollcall/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the kiosk HTTP server",
		Long:  "Open the partition store and serve the members API until interrupted.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}
	log := logging.Component("serve")

	store, err := jsonstore.Open(cfg)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("open store: %s", err))
	}
	defer store.Close()

	reports := report.New(jsonstore.NewReader(cfg.DataDir), excel.NewWriter(), cfg)
	srv := server.New(store, reports, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return exitError(cmd, exitSysError, fmt.Sprintf("serve: %s", err))
		}
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown incomplete", "error", err)
		}
	}

	if err := store.Close(); err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("close store: %s", err))
	}
	return nil
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/api"
	"github.com/insightdelivered/statement-parser/internal/batch"
)

func newServeCommand(e *env) *cobra.Command {
	var addr, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				e.cfg.Server.Addr = addr
			}
			if staticDir != "" {
				e.cfg.Server.StaticDir = staticDir
			}
			return runServe(cmd.Context(), e)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory of web UI files to serve at /")

	return cmd
}

func runServe(ctx context.Context, e *env) error {
	store, closeStore, err := e.openHistory(false)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer closeStore()

	p := &batch.Processor{Workers: e.cfg.Batch.Workers, Origin: "api"}
	if store != nil {
		p.History = store
	}
	app := api.New(&api.Handler{Processor: p, Log: e.log}, e.cfg.Server)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.log.Info().Str("addr", e.cfg.Server.Addr).Bool("history", store != nil).Msg("listening")
		errCh <- app.Listen(e.cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	e.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roadmap-cli/internal/devserver"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDevServerCmd(app *App) *cobra.Command {
	var (
		addr  string
		empty bool
	)

	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run an in-memory roadmap API for local use",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := devserver.NewStore()
			if !empty {
				if _, err := devserver.Seed(st); err != nil {
					return writeErr(cmd, err)
				}
			}
			srv, err := devserver.New(st, app.logger.Named("devserver"))
			if err != nil {
				return writeErr(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()
			fmt.Fprintf(cmd.ErrOrStderr(), "roadmap dev server listening on %s\n", addr)
			app.logger.Info("dev server started", zap.String("addr", addr), zap.Bool("seeded", !empty))

			select {
			case err := <-errCh:
				if err != nil {
					return writeErr(cmd, err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "Listen address")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without the demo roadmap")
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/sse"
	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/timeboard/pkg/infrastructure/dashboard"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard with live reload events",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadBoard(cmd.Context(), wiring.WithNotifications())
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = services.Workspace.Source.ServeAddr
		}

		events := sse.NewSSEHandler(services.Board)
		defer events.Close()

		server, err := dashboard.NewServer(addr, services.Board,
			dashboard.WithEvents(events),
			dashboard.WithLogger(slog.Default()),
		)
		if err != nil {
			return err
		}

		if os.Getenv("TIMEBOARD_SKIP_SERVE") == "true" {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		if serveWatch {
			if services.FilePath() == "" {
				_, _ = fmt.Fprintln(out, "--watch ignored: the data source is not a local file")
			} else {
				go func() {
					if err := runWatcher(ctx, services, debounceFor(services), out); err != nil && !errors.Is(err, context.Canceled) {
						slog.Error("watcher stopped", "error", err)
					}
				}()
			}
		}

		go func() {
			<-ctx.Done()
			_, _ = fmt.Fprintln(out, "\nShutting down dashboard...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			events.Close()
			_ = server.Shutdown(shutdownCtx)
		}()

		_, _ = fmt.Fprintf(out, "Dashboard running at http://%s\n", addr)
		_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		if services.Notifier != nil {
			services.Notifier.Wait()
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from source.yaml, 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload when the data file changes")
	RootCmd.AddCommand(serveCmd)
}

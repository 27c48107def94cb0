package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/watch"
	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
)

var (
	watchDebounce time.Duration
	watchOnce     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the board whenever the export file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadBoard(cmd.Context(), wiring.WithNotifications())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		snap, _ := services.Board.Snapshot()
		_, _ = fmt.Fprintf(out, "Loaded %d tasks in %d projects from %s\n", len(snap.Tasks), len(snap.Projects), snap.Source)

		if watchOnce {
			if services.Notifier != nil {
				services.Notifier.Wait()
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		_, _ = fmt.Fprintf(out, "Watching %s for changes... (Ctrl+C to stop)\n", services.FilePath())
		err = runWatcher(ctx, services, debounceFor(services), out)
		if services.Notifier != nil {
			services.Notifier.Wait()
		}
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func debounceFor(services *wiring.AppServices) time.Duration {
	if watchDebounce > 0 {
		return watchDebounce
	}
	return services.Workspace.Source.WatchDebounce
}

// runWatcher reloads the board after every debounced change of the data
// file. It blocks until ctx is cancelled.
func runWatcher(ctx context.Context, services *wiring.AppServices, debounce time.Duration, out io.Writer) error {
	path := services.FilePath()
	if path == "" {
		return fmt.Errorf("watch needs a local data file, %s is remote", services.Source)
	}

	w, err := watch.NewFSWatcher(debounce, func(ev watch.ChangeEvent) {
		if ev.ChangeType == "remove" || ev.ChangeType == "rename" {
			if _, statErr := os.Stat(path); statErr != nil {
				return
			}
		}
		snap, err := services.Board.Load(ctx)
		if err != nil {
			slog.Error("reload failed", "path", path, "error", err)
			_, _ = fmt.Fprintf(out, "%s reload failed: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		_, _ = fmt.Fprintf(out, "%s reloaded: %d tasks, %d projects, %d diagnostics\n",
			time.Now().Format("15:04:05"), len(snap.Tasks), len(snap.Projects), len(snap.Diagnostics))
	})
	if err != nil {
		return err
	}
	w.SetLogger(slog.Default())
	if err := w.WatchFile(path); err != nil {
		return err
	}
	return w.Run(ctx)
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "Quiet period before reloading (default from source.yaml, 500ms)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Load and report once, then exit without watching")
	RootCmd.AddCommand(watchCmd)
}

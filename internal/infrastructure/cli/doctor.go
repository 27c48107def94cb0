package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/storage"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the workspace, the data source and the quality of the export",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "Running Timeboard Doctor...")

		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)

		hasIssues := false
		check := func(name string, fn func() error) {
			_, _ = fmt.Fprintf(out, "Checking %s... ", name)
			if err := fn(); err != nil {
				_, _ = fmt.Fprintf(out, "FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				_, _ = fmt.Fprintf(out, "PASS\n")
			}
		}

		check("Workspace", func() error {
			if !repo.IsInitialized() && dataPath == "" {
				return fmt.Errorf("%s directory not found (run 'timeboard init')", storage.WorkspaceDir)
			}
			return nil
		})

		check("Policy File", func() error {
			_, err := repo.LoadPolicy()
			return err
		})

		var services *wiring.AppServices
		check("Data Source", func() error {
			s, err := wiring.BuildAppServices(root, dataPath, nil)
			if err != nil {
				return MapError(err)
			}
			services = s
			_, _ = fmt.Fprintf(out, "(%s) ", s.Source)
			return nil
		})

		var snap *application.Snapshot
		check("Load", func() error {
			if services == nil {
				return fmt.Errorf("skipped: no data source")
			}
			s, err := services.Board.Load(cmd.Context())
			if err != nil {
				return MapError(err)
			}
			snap = s
			return nil
		})

		if snap != nil {
			printSnapshotSummary(out, snap)
		}

		if hasIssues {
			_, _ = fmt.Fprintln(out, "\nIssues found! Please fix them before continuing.")
			return fmt.Errorf("doctor found issues")
		}
		_, _ = fmt.Fprintln(out, "\nEverything looks good!")
		return nil
	},
}

// printSnapshotSummary reports counts and the diagnostics grouped by field.
func printSnapshotSummary(out io.Writer, snap *application.Snapshot) {
	_, _ = fmt.Fprintf(out, "\nLoaded %d tasks in %d projects.\n", len(snap.Tasks), len(snap.Projects))
	if snap.Skipped > 0 {
		_, _ = fmt.Fprintf(out, "Skipped records: %d\n", snap.Skipped)
	}
	if len(snap.Duplicates) > 0 {
		_, _ = fmt.Fprintf(out, "Duplicate ids (first occurrence kept): %d\n", len(snap.Duplicates))
	}
	if len(snap.Diagnostics) == 0 {
		return
	}

	byField := make(map[string]int)
	var fields []string
	for _, d := range snap.Diagnostics {
		if byField[d.Field] == 0 {
			fields = append(fields, d.Field)
		}
		byField[d.Field]++
	}
	_, _ = fmt.Fprintf(out, "Repaired fields (%d diagnostics):\n", len(snap.Diagnostics))
	for _, f := range fields {
		_, _ = fmt.Fprintf(out, "  %-12s %d\n", f, byField[f])
	}
	_, _ = fmt.Fprintln(out, "Run with --log-level warn to see every repair.")
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

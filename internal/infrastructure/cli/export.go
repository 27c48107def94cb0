package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/timeboard/pkg/filter"
)

var (
	exportFlags filterFlags
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:       "export <tasks|projects>",
	Short:     "Export the filtered tasks or projects as CSV",
	Long:      `Write the filtered view as CSV. Without --out the file is named <tarefas|projetos>_YYYY-MM-DD.csv in the current directory; --out - writes to stdout.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"tasks", "projects"},
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := exportFlags.spec()
		if err != nil {
			return err
		}
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}

		base, count, data, err := exportCSV(services, args[0], spec)
		if err != nil {
			return MapError(err)
		}

		if exportOut == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		path := exportOut
		if path == "" {
			path = services.Board.ExportFileName(base)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", count, path)
		return nil
	},
}

// exportCSV renders the export into memory so nothing is written when the
// filtered view is empty.
func exportCSV(services *wiring.AppServices, kind string, spec filter.Spec) (string, int, []byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(kind) {
	case "tasks", "tarefas":
		n, err := services.Board.ExportTasks(&buf, spec)
		return "tarefas", n, buf.Bytes(), err
	case "projects", "projetos":
		n, err := services.Board.ExportProjects(&buf, spec)
		return "projetos", n, buf.Bytes(), err
	default:
		return "", 0, nil, fmt.Errorf("unknown export kind %q (use tasks or projects)", kind)
	}
}

func init() {
	addFilterFlags(exportCmd, &exportFlags)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file, or - for stdout")
	RootCmd.AddCommand(exportCmd)
}

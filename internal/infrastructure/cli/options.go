package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the selectable clients, groups and subgroups",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}
		opts, err := services.Board.Options()
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if optionsJSON {
			return writeJSON(out, opts)
		}

		_, _ = fmt.Fprintf(out, "Clients (%d):\n", len(opts.Clients))
		for _, c := range opts.Clients {
			_, _ = fmt.Fprintf(out, "  %s\n", c)
		}
		_, _ = fmt.Fprintf(out, "Groups (%d):\n", len(opts.Groups))
		for _, g := range opts.Groups {
			subs := opts.SubgroupsOf(g)
			if len(subs) == 0 {
				_, _ = fmt.Fprintf(out, "  %s\n", g)
				continue
			}
			_, _ = fmt.Fprintf(out, "  %s: %s\n", g, strings.Join(subs, ", "))
		}
		return nil
	},
}

func init() {
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(optionsCmd)
}

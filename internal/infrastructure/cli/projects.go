package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
)

var projectFlags filterFlags

var projectsCmd = &cobra.Command{
	Use:     "projects",
	Aliases: []string{"projetos"},
	Short:   "List project aggregates with progress, status and priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := projectFlags.spec()
		if err != nil {
			return err
		}
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}
		projects, err := services.Board.Projects(spec)
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if projectFlags.json {
			return writeJSON(out, projects)
		}
		if len(projects) == 0 {
			_, _ = fmt.Fprintln(out, "No projects match the filters.")
			return nil
		}
		table := export.ProjectTable()
		renderTable(out, table.Headers, table.Rows(projects))
		_, _ = fmt.Fprintln(out, summarizeStatuses(projects))
		return nil
	},
}

func summarizeStatuses(projects []board.Project) string {
	counts := make(map[board.ProjectStatus]int)
	for _, p := range projects {
		counts[p.Status]++
	}
	return fmt.Sprintf("%d projects: %d completed, %d in progress, %d delayed",
		len(projects),
		counts[board.ProjectCompleted],
		counts[board.ProjectInProgress],
		counts[board.ProjectDelayed],
	)
}

func init() {
	addFilterFlags(projectsCmd, &projectFlags)
	addJSONFlag(projectsCmd, &projectFlags)
	RootCmd.AddCommand(projectsCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/pkg/export"
)

var taskFlags filterFlags

var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"tarefas"},
	Short:   "List normalized tasks",
	Example: `  timeboard tasks --client ACME --days 30
  timeboard tasks --group CRIAÇÃO --subgroup Design --subtasks=false
  timeboard tasks --name maria --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := taskFlags.spec()
		if err != nil {
			return err
		}
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}
		tasks, err := services.Board.Tasks(spec)
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if taskFlags.json {
			return writeJSON(out, tasks)
		}
		if len(tasks) == 0 {
			_, _ = fmt.Fprintln(out, "No tasks match the filters.")
			return nil
		}
		table := export.TaskTable()
		renderTable(out, table.Headers, table.Rows(tasks))
		_, _ = fmt.Fprintf(out, "%d tasks\n", len(tasks))
		return nil
	},
}

func init() {
	addFilterFlags(tasksCmd, &taskFlags)
	addJSONFlag(tasksCmd, &taskFlags)
	RootCmd.AddCommand(tasksCmd)
}

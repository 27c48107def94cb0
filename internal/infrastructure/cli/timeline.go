package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/pkg/export"
	"github.com/felixgeelhaar/timeboard/pkg/timeline"
)

var (
	timelineFlags    filterFlags
	timelineProjects bool
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show the timeline items grouped by responsible",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := timelineFlags.spec()
		if err != nil {
			return err
		}
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}

		var view timeline.View
		if timelineProjects {
			view, err = services.Board.ProjectTimeline(spec)
		} else {
			view, err = services.Board.TaskTimeline(spec)
		}
		if err != nil {
			return MapError(err)
		}

		out := cmd.OutOrStdout()
		if timelineFlags.json {
			return writeJSON(out, view)
		}
		printTimeline(out, view)
		return nil
	},
}

func printTimeline(out io.Writer, view timeline.View) {
	if len(view.Items) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to show.")
		return
	}
	byLane := make(map[string][]timeline.Item)
	for _, it := range view.Items {
		byLane[it.Group] = append(byLane[it.Group], it)
	}
	for _, lane := range view.Lanes {
		items := byLane[lane.ID]
		if len(items) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(out, "%s (%d)\n", lane.Content, len(items))
		for _, it := range items {
			_, _ = fmt.Fprintf(out, "  %s → %s  %s\n", export.FormatDate(it.Start), export.FormatDate(it.End), it.Content)
		}
	}
}

func init() {
	addFilterFlags(timelineCmd, &timelineFlags)
	addJSONFlag(timelineCmd, &timelineFlags)
	timelineCmd.Flags().BoolVar(&timelineProjects, "projects", false, "Show projects instead of tasks")
	RootCmd.AddCommand(timelineCmd)
}

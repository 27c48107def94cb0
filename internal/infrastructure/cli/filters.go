package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/pkg/filter"
)

// filterFlags are the filter criteria shared by the listing commands.
type filterFlags struct {
	days     int
	client   string
	group    string
	subgroup string
	name     string
	tasks    bool
	subtasks bool
	json     bool
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().IntVar(&f.days, "days", 0, "Only items starting within the last N days (0 = no limit)")
	cmd.Flags().StringVar(&f.client, "client", "", "Exact client name")
	cmd.Flags().StringVar(&f.group, "group", "", "Team (top-level group)")
	cmd.Flags().StringVar(&f.subgroup, "subgroup", "", "Subgroup inside --group (includes nested subgroups)")
	cmd.Flags().StringVar(&f.name, "name", "", "Case-insensitive part of the responsible's name")
	cmd.Flags().BoolVar(&f.tasks, "tasks", true, "Include top-level tasks")
	cmd.Flags().BoolVar(&f.subtasks, "subtasks", true, "Include subtasks")
}

func addJSONFlag(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().BoolVar(&f.json, "json", false, "Output in JSON format")
}

func (f *filterFlags) spec() (filter.Spec, error) {
	if f.days < 0 {
		return filter.Spec{}, fmt.Errorf("--days must not be negative")
	}
	return filter.Spec{
		DaysBack:            f.days,
		Client:              f.client,
		Group:               f.group,
		Subgroup:            f.subgroup,
		ResponsibleContains: f.name,
		ShowTasks:           filter.Bool(f.tasks),
		ShowSubtasks:        filter.Bool(f.subtasks),
	}, nil
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var tableCellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable draws rows with a rounded border.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, _ = fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

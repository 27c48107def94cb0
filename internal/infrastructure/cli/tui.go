package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
	"github.com/felixgeelhaar/timeboard/pkg/filter"
)

var tuiFlags filterFlags

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive terminal board of projects and tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := tuiFlags.spec()
		if err != nil {
			return err
		}
		services, err := loadBoard(cmd.Context())
		if err != nil {
			return err
		}
		if os.Getenv("TIMEBOARD_SKIP_TUI_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(newBoardModel(cmd.Context(), services.Board, spec))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui run failed: %w", err)
		}
		return nil
	},
}

func init() {
	addFilterFlags(tuiCmd, &tuiFlags)
	RootCmd.AddCommand(tuiCmd)
}

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var statusDone = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var statusWIP = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
var statusErr = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type boardView int

const (
	projectsView boardView = iota
	tasksView
)

type reloadedMsg struct {
	snap *application.Snapshot
	err  error
}

type boardModel struct {
	ctx      context.Context
	svc      *application.BoardService
	spec     filter.Spec
	view     boardView
	table    table.Model
	projects []board.Project
	tasks    []board.Task
	diags    int
	err      error
}

func newBoardModel(ctx context.Context, svc *application.BoardService, spec filter.Spec) boardModel {
	if ctx == nil {
		ctx = context.Background()
	}
	m := boardModel{ctx: ctx, svc: svc, spec: spec}
	m.refresh()
	return m
}

// refresh re-reads the filtered views from the latest snapshot.
func (m *boardModel) refresh() {
	projects, err := m.svc.Projects(m.spec)
	if err != nil {
		m.err = err
		return
	}
	tasks, err := m.svc.Tasks(m.spec)
	if err != nil {
		m.err = err
		return
	}
	diags, _ := m.svc.Diagnostics()
	m.projects, m.tasks, m.diags, m.err = projects, tasks, len(diags), nil
	m.table = m.buildTable()
}

func (m boardModel) buildTable() table.Model {
	var columns []table.Column
	var rows []table.Row

	switch m.view {
	case tasksView:
		columns = []table.Column{
			{Title: "Cliente", Width: 14},
			{Title: "Projeto", Width: 22},
			{Title: "Tarefa", Width: 30},
			{Title: "Tipo", Width: 9},
			{Title: "Fim", Width: 10},
			{Title: "Responsável", Width: 18},
			{Title: "Prioridade", Width: 10},
		}
		for _, t := range m.tasks {
			rows = append(rows, table.Row{
				t.Client, t.Project, t.Title, t.Kind.DisplayName(),
				export.FormatDate(t.End), t.Responsible, t.Priority.DisplayName(),
			})
		}
	default:
		columns = []table.Column{
			{Title: "Cliente", Width: 14},
			{Title: "Projeto", Width: 26},
			{Title: "Status", Width: 12},
			{Title: "Progresso", Width: 9},
			{Title: "Fim", Width: 10},
			{Title: "Responsável", Width: 18},
			{Title: "Tarefas", Width: 7},
		}
		for _, p := range m.projects {
			rows = append(rows, table.Row{
				p.Client, p.Name, p.Status.String(), fmt.Sprintf("%d%%", p.Progress),
				export.FormatDate(p.End), p.MainResponsible, fmt.Sprintf("%d", p.TaskCount()),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)
	return t
}

func (m boardModel) reload() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Load(m.ctx)
		return reloadedMsg{snap: snap, err: err}
	}
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.view == projectsView {
				m.view = tasksView
			} else {
				m.view = projectsView
			}
			m.table = m.buildTable()
			return m, nil
		case "r":
			return m, m.reload()
		}
	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.refresh()
		return m, nil
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m boardModel) View() string {
	title := "Projetos"
	if m.view == tasksView {
		title = "Tarefas"
	}
	header := headerStyle.Render(fmt.Sprintf("Timeboard · %s", title))

	var completed, delayed int
	for _, p := range m.projects {
		switch p.Status {
		case board.ProjectCompleted:
			completed++
		case board.ProjectDelayed:
			delayed++
		}
	}
	summary := fmt.Sprintf("%d projects  %s  %s  %s  %d tasks",
		len(m.projects),
		statusDone.Render(fmt.Sprintf("%d completed", completed)),
		statusWIP.Render(fmt.Sprintf("%d in progress", len(m.projects)-completed-delayed)),
		statusErr.Render(fmt.Sprintf("%d delayed", delayed)),
		len(m.tasks),
	)

	footer := "\n[tab] Projects/Tasks  [r] Reload  [q] Quit  [Up/Down] Navigate"
	if m.diags > 0 {
		footer = statusWIP.Render(fmt.Sprintf("\n%d records were repaired (timeboard doctor)", m.diags)) + footer
	}
	if m.err != nil {
		footer = statusErr.Render(fmt.Sprintf("\nError: %v", m.err)) + footer
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			summary,
			"",
			m.table.View(),
			footer,
		),
	) + "\n"
}

// Package export projects tasks and projects into flat tables and writes
// them as CSV.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// Missing is rendered for empty values.
const Missing = "N/A"

// DateLayout is the date-only format of exported start and end columns.
const DateLayout = "02/01/2006"

// Table is a header row plus a projection of one item into cells.
type Table[T any] struct {
	Headers []string
	Row     func(T) []string
}

// Rows applies the projection to every item.
func (t Table[T]) Rows(items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, t.Row(it))
	}
	return rows
}

// TaskTable exports one row per task.
func TaskTable() Table[board.Task] {
	return Table[board.Task]{
		Headers: []string{
			"Cliente",
			"Projeto",
			"Tarefa",
			"Tipo",
			"Data Início",
			"Data Fim",
			"Responsável",
			"Grupo",
			"Subgrupo",
			"Prioridade",
			"Status",
		},
		Row: func(t board.Task) []string {
			kind := t.Kind
			if kind == "" {
				kind = board.KindTask
			}
			return []string{
				orMissing(t.Client),
				orMissing(t.Project),
				orMissing(t.Title),
				kind.DisplayName(),
				FormatDate(t.Start),
				FormatDate(t.End),
				orMissing(t.Responsible),
				orMissing(t.Group),
				orMissing(t.Subgroup),
				orMissing(t.Priority.String()),
				orMissing(t.Status),
			}
		},
	}
}

// ProjectTable exports one row per project.
func ProjectTable() Table[board.Project] {
	return Table[board.Project]{
		Headers: []string{
			"Cliente",
			"Projeto",
			"Data Início",
			"Data Fim",
			"Responsáveis",
			"Equipes",
			"Status",
			"Progresso",
			"Prioridade",
			"Qtd. Tarefas",
		},
		Row: func(p board.Project) []string {
			return []string{
				orMissing(p.Client),
				orMissing(p.Name),
				FormatDate(p.Start),
				FormatDate(p.End),
				orMissing(strings.Join(p.Responsibles, ", ")),
				orMissing(p.GroupsLabel(", ")),
				orMissing(p.Status.String()),
				fmt.Sprintf("%d%%", p.Progress),
				orMissing(p.Priority.String()),
				strconv.Itoa(p.TaskCount()),
			}
		},
	}
}

// FormatDate renders t as DD/MM/YYYY, or Missing for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Missing
	}
	return t.Format(DateLayout)
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}

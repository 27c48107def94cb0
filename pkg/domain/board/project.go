package board

import (
	"strings"
	"time"
)

// ProjectStatus is the derived state of a project aggregate.
type ProjectStatus string

const (
	ProjectInProgress ProjectStatus = "Em andamento"
	ProjectDelayed    ProjectStatus = "Atrasado"
	ProjectCompleted  ProjectStatus = "Concluído"
)

// IsValid returns true for the three derived statuses.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectInProgress, ProjectDelayed, ProjectCompleted:
		return true
	default:
		return false
	}
}

func (s ProjectStatus) String() string {
	return string(s)
}

// ClassName returns the CSS class the timeline uses for this status.
func (s ProjectStatus) ClassName() string {
	switch s {
	case ProjectCompleted:
		return "status-concluido"
	case ProjectDelayed:
		return "status-atrasado"
	default:
		return "status-andamento"
	}
}

// NoResponsible is the main responsible of a project nobody owns.
const NoResponsible = "Não atribuído"

// Project aggregates the tasks sharing a client and project name.
type Project struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Client          string        `json:"client"`
	Tasks           []Task        `json:"tasks"`
	Responsibles    []string      `json:"responsibles"`
	Groups          []string      `json:"groups"`
	MainResponsible string        `json:"mainResponsible"`
	Start           time.Time     `json:"start"`
	End             time.Time     `json:"end"`
	Progress        int           `json:"progress"`
	Status          ProjectStatus `json:"status"`
	Priority        Priority      `json:"priority"`
}

// ProjectKey builds the composite client::project identifier.
func ProjectKey(client, project string) string {
	return client + "::" + project
}

func (p Project) ItemID() string       { return p.ID }
func (p Project) StartTime() time.Time { return p.Start }
func (p Project) ClientName() string   { return p.Client }

// InGroup reports whether any of the project's tasks belongs to g.
func (p Project) InGroup(g string) bool {
	for _, group := range p.Groups {
		if group == g {
			return true
		}
	}
	return false
}

func (p Project) ResponsibleNames() []string { return p.Responsibles }

// TaskCount returns the number of constituent tasks.
func (p Project) TaskCount() int {
	return len(p.Tasks)
}

// GroupsLabel joins the groups for tooltips and exports.
func (p Project) GroupsLabel(sep string) string {
	return strings.Join(p.Groups, sep)
}

package board

import (
	"fmt"
	"strings"
	"time"
)

// Kind tells top-level tasks apart from subtasks.
type Kind string

const (
	KindTask    Kind = "Task"
	KindSubtask Kind = "Subtask"
)

// ParseKind accepts the English and Portuguese labels found in exports.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task", "tarefa":
		return KindTask, nil
	case "subtask", "subtarefa", "sub-task", "sub-tarefa":
		return KindSubtask, nil
	default:
		return "", fmt.Errorf("invalid task kind: %s", s)
	}
}

// DisplayName returns the label shown in exports.
func (k Kind) DisplayName() string {
	switch k {
	case KindSubtask:
		return "Subtarefa"
	default:
		return "Tarefa"
	}
}

// Task is the canonical form of one raw export record. It is built once by
// the mapper and never modified afterwards.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Client      string    `json:"client"`
	Project     string    `json:"project"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Responsible string    `json:"responsible"`
	Group       string    `json:"group"`
	Subgroup    string    `json:"subgroup"`
	FullPath    string    `json:"fullPath"`
	Kind        Kind      `json:"kind"`
	Priority    Priority  `json:"priority"`
	Status      string    `json:"status"`
	ParentID    string    `json:"parentId,omitempty"`
}

func (t Task) ItemID() string             { return t.ID }
func (t Task) StartTime() time.Time       { return t.Start }
func (t Task) ClientName() string         { return t.Client }
func (t Task) ItemKind() Kind             { return t.Kind }
func (t Task) InGroup(g string) bool      { return t.Group == g }
func (t Task) ResponsibleNames() []string { return nonEmpty(t.Responsible) }

// OwnerPaths returns the path strings a subgroup selection is matched against.
func (t Task) OwnerPaths() []string {
	paths := nonEmpty(t.Subgroup)
	if t.FullPath != "" && t.FullPath != t.Subgroup {
		paths = append(paths, t.FullPath)
	}
	return paths
}

// IsComplete reports whether the task's status is one of the completion labels.
func (t Task) IsComplete(completion []string) bool {
	for _, label := range completion {
		if t.Status == label {
			return true
		}
	}
	return false
}

// IsOverdue reports whether an incomplete task ended before now.
func (t Task) IsOverdue(now time.Time, completion []string) bool {
	return !t.End.IsZero() && t.End.Before(now) && !t.IsComplete(completion)
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

package board

import "time"

// Item is what the filter engine and exporters need from both tasks and
// projects.
type Item interface {
	ItemID() string
	StartTime() time.Time
	ClientName() string
	InGroup(group string) bool
	ResponsibleNames() []string
}

// PathItem is implemented by items that carry an ownership path.
// Only tasks do.
type PathItem interface {
	Item
	OwnerPaths() []string
}

// KindItem is implemented by items that distinguish tasks from subtasks.
type KindItem interface {
	Item
	ItemKind() Kind
}

var (
	_ PathItem = Task{}
	_ KindItem = Task{}
	_ Item     = Project{}
)

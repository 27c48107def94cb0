// Package aggregate groups canonical tasks into project aggregates.
package aggregate

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// Aggregator builds Projects from Tasks sharing client and project name.
type Aggregator struct {
	policy board.Policy
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Aggregator)

// WithClock sets the time source deciding which tasks are overdue.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func New(policy board.Policy, opts ...Option) *Aggregator {
	a := &Aggregator{
		policy: policy.WithDefaults(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// builder accumulates one project during the grouping pass.
type builder struct {
	project      board.Project
	responsibles map[string]struct{}
	groups       map[string]struct{}
}

// projectKey groups tasks. The display ID joined with "::" is not unique
// when names contain the separator.
type projectKey struct {
	client, project string
}

// Aggregate groups tasks by (client, project) in first-encounter order.
// Tasks without a project name go to a per-client fallback project so none
// is dropped.
func (a *Aggregator) Aggregate(tasks []board.Task) []board.Project {
	byKey := make(map[projectKey]*builder)
	var order []projectKey

	for _, t := range tasks {
		name := t.Project
		if name == "" {
			name = a.policy.UnassignedProjectName(t.Client)
		}
		key := projectKey{client: t.Client, project: name}

		b, ok := byKey[key]
		if !ok {
			b = &builder{
				project: board.Project{
					ID:     board.ProjectKey(t.Client, name),
					Name:   name,
					Client: t.Client,
					Start:  t.Start,
					End:    t.End,
				},
				responsibles: make(map[string]struct{}),
				groups:       make(map[string]struct{}),
			}
			byKey[key] = b
			order = append(order, key)
		}
		b.add(t)
	}

	now := a.now()
	projects := make([]board.Project, 0, len(order))
	for _, key := range order {
		projects = append(projects, a.finalize(byKey[key], now))
	}
	return projects
}

func (b *builder) add(t board.Task) {
	p := &b.project
	p.Tasks = append(p.Tasks, t)

	if t.Responsible != "" {
		b.responsibles[t.Responsible] = struct{}{}
	}
	if t.Group != "" {
		b.groups[t.Group] = struct{}{}
	}

	// Zero dates carry no information and never move the span.
	if !t.Start.IsZero() && (p.Start.IsZero() || t.Start.Before(p.Start)) {
		p.Start = t.Start
	}
	if !t.End.IsZero() && (p.End.IsZero() || t.End.After(p.End)) {
		p.End = t.End
	}
}

func (a *Aggregator) finalize(b *builder, now time.Time) board.Project {
	p := b.project
	p.Responsibles = sortedKeys(b.responsibles)
	p.Groups = sortedKeys(b.groups)

	p.MainResponsible = board.NoResponsible
	if len(p.Responsibles) > 0 {
		p.MainResponsible = p.Responsibles[0]
	}

	priorities := make([]board.Priority, 0, len(p.Tasks))
	completed := 0
	overdue := false
	for _, t := range p.Tasks {
		priorities = append(priorities, t.Priority)
		if t.IsComplete(a.policy.CompletionStatuses) {
			completed++
		} else if t.IsOverdue(now, a.policy.CompletionStatuses) {
			overdue = true
		}
	}
	p.Progress = Progress(completed, len(p.Tasks))
	p.Priority = board.HighestPriority(priorities)

	status, err := board.DeriveProjectStatus(board.ProjectContext{
		ProjectID: p.ID,
		Progress:  p.Progress,
		Overdue:   overdue,
	})
	if err != nil {
		a.logger.Error("project status machine failed", "project", p.ID, "error", err)
		status = fallbackStatus(p.Progress, overdue)
	}
	p.Status = status
	return p
}

// Progress returns round(100 * completed / total), 0 for an empty project.
// Only a fully completed project reaches 100; 199 of 200 reports 99.
func Progress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(100 * float64(completed) / float64(total)))
	if pct >= 100 && completed < total {
		return 99
	}
	return pct
}

func fallbackStatus(progress int, overdue bool) board.ProjectStatus {
	switch {
	case progress == 100:
		return board.ProjectCompleted
	case overdue:
		return board.ProjectDelayed
	default:
		return board.ProjectInProgress
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

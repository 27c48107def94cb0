// Package filter narrows task and project lists with a Spec.
//
// Stages run in a fixed order: period, client, group, subgroup,
// responsible name, kind. Each stage is a pure function of its input, so
// applying the same Spec twice gives the same result as applying it once.
package filter

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// Engine applies Specs using a Policy's subgroup rules.
type Engine struct {
	policy board.Policy
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Engine)

// WithClock sets the time source for the period stage.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func NewEngine(policy board.Policy, opts ...Option) *Engine {
	e := &Engine{
		policy: policy.WithDefaults(),
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tasks filters a task list.
func (e *Engine) Tasks(tasks []board.Task, s Spec) []board.Task {
	return Apply(e, tasks, s)
}

// Projects filters a project list. Subgroup and kind selections do not
// apply to projects and are ignored with a warning.
func (e *Engine) Projects(projects []board.Project, s Spec) []board.Project {
	return Apply(e, projects, s)
}

// Apply runs every stage in order. The clock is read once per call.
func Apply[T board.Item](e *Engine, items []T, s Spec) []T {
	now := e.now()

	out := ByPeriod(items, now, s.DaysBack)
	out = ByClient(out, s.Client)
	out = ByGroup(out, s.Group)
	// A subgroup only narrows an explicitly selected group.
	if !IsAll(s.Group) {
		out = BySubgroup(out, s.Subgroup, e.policy.IsExactSubgroup(s.Subgroup), e.logger)
	}
	out = ByResponsible(out, s.ResponsibleContains)
	out = ByKind(out, s.Tasks(), s.Subtasks(), e.logger)
	return out
}

// ByPeriod keeps items starting on or after now minus days. Items without a
// start are dropped while the stage is active.
func ByPeriod[T board.Item](items []T, now time.Time, days int) []T {
	if days <= 0 {
		return items
	}
	limit := now.AddDate(0, 0, -days)
	return keep(items, func(it T) bool {
		start := it.StartTime()
		return !start.IsZero() && !start.Before(limit)
	})
}

// ByClient keeps items of exactly that client.
func ByClient[T board.Item](items []T, client string) []T {
	if IsAll(client) {
		return items
	}
	return keep(items, func(it T) bool {
		return it.ClientName() == client
	})
}

// ByGroup matches a task's group, or any of a project's groups.
func ByGroup[T board.Item](items []T, group string) []T {
	if IsAll(group) {
		return items
	}
	return keep(items, func(it T) bool {
		return it.InGroup(group)
	})
}

// BySubgroup keeps tasks whose subgroup or full path equals the selection
// or lies below it ("Equipe A" also selects "Equipe A / Sub"). With exact
// set only equality counts.
func BySubgroup[T board.Item](items []T, subgroup string, exact bool, logger *slog.Logger) []T {
	if IsAll(subgroup) || len(items) == 0 {
		return items
	}
	if _, ok := any(items[0]).(board.PathItem); !ok {
		warnShape(logger, "subgroup", items[0])
		return items
	}
	prefix := subgroup + " / "
	return keep(items, func(it T) bool {
		p, ok := any(it).(board.PathItem)
		if !ok {
			return false
		}
		for _, path := range p.OwnerPaths() {
			if path == subgroup {
				return true
			}
			if !exact && strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	})
}

// ByResponsible keeps items with a responsible whose name contains needle,
// ignoring case. Items without a responsible never match.
func ByResponsible[T board.Item](items []T, needle string) []T {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return items
	}
	folded := cases.Fold().String(needle)
	return keep(items, func(it T) bool {
		for _, name := range it.ResponsibleNames() {
			if name != "" && strings.Contains(cases.Fold().String(name), folded) {
				return true
			}
		}
		return false
	})
}

// ByKind shows or hides tasks and subtasks. Hiding both empties the list.
func ByKind[T board.Item](items []T, showTasks, showSubtasks bool, logger *slog.Logger) []T {
	if showTasks && showSubtasks {
		return items
	}
	if !showTasks && !showSubtasks {
		return []T{}
	}
	if len(items) == 0 {
		return items
	}
	if _, ok := any(items[0]).(board.KindItem); !ok {
		warnShape(logger, "kind", items[0])
		return items
	}
	return keep(items, func(it T) bool {
		k, ok := any(it).(board.KindItem)
		if !ok {
			return false
		}
		if k.ItemKind() == board.KindSubtask {
			return showSubtasks
		}
		return showTasks
	})
}

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func warnShape(logger *slog.Logger, stage string, item any) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("filter does not apply to this item type, ignoring",
		"stage", stage,
		"type", typeName(item),
	)
}

func typeName(item any) string {
	switch item.(type) {
	case board.Project:
		return "project"
	case board.Task:
		return "task"
	default:
		return "unknown"
	}
}

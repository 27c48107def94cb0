// Package ingest turns raw JSON export records into canonical board tasks.
package ingest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// syntheticIDSpace namespaces ids generated for records that have none.
var syntheticIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("timeboard:task"))

// Mapper converts raw records into Tasks according to a Policy.
type Mapper struct {
	policy   board.Policy
	groups   *GroupResolver
	reporter *board.Reporter
	now      func() time.Time
	loc      *time.Location
}

type MapperOption func(*Mapper)

// WithClock sets the time source used for missing start dates.
func WithClock(now func() time.Time) MapperOption {
	return func(m *Mapper) {
		m.now = now
	}
}

// WithReporter routes diagnostics to r.
func WithReporter(r *board.Reporter) MapperOption {
	return func(m *Mapper) {
		m.reporter = r
	}
}

// WithLogger reports diagnostics to logger with a fresh Reporter.
func WithLogger(logger *slog.Logger) MapperOption {
	return func(m *Mapper) {
		m.reporter = board.NewReporter(logger)
	}
}

func NewMapper(policy board.Policy, opts ...MapperOption) *Mapper {
	policy = policy.WithDefaults()
	m := &Mapper{
		policy: policy,
		groups: NewGroupResolver(policy),
		now:    time.Now,
		loc:    policy.TimeLocation(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.reporter == nil {
		m.reporter = board.NewReporter(nil)
	}
	return m
}

// Reporter returns the reporter collecting this mapper's diagnostics.
func (m *Mapper) Reporter() *board.Reporter {
	return m.reporter
}

// Map converts one raw record. It fails only when raw is not a JSON object;
// missing or invalid fields are repaired and reported.
func (m *Mapper) Map(raw any) (board.Task, error) {
	return m.mapAt(-1, raw)
}

// MapAll maps every record of a decoded document. Records that are not
// objects are reported and skipped.
func (m *Mapper) MapAll(records []any) []board.Task {
	tasks := make([]board.Task, 0, len(records))
	for i, raw := range records {
		task, err := m.mapAt(i, raw)
		if err != nil {
			m.reporter.Report(board.Diagnostic{Index: i, Field: "record", Message: err.Error()})
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func (m *Mapper) mapAt(index int, raw any) (board.Task, error) {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return board.Task{}, fmt.Errorf("%w: got %T", board.ErrNotRecord, raw)
	}
	rec := newRecord(obj)

	task := board.Task{}
	warn := func(field, format string, args ...any) {
		m.reporter.Report(board.Diagnostic{
			Index:   index,
			TaskID:  task.ID,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if id, ok := rec.lookup(attrID); ok {
		task.ID = id
	} else {
		task.ID = syntheticID(obj)
		warn("id", "record without id, using synthetic id %s", task.ID)
	}

	task.Title, _ = rec.lookup(attrTitle)
	if task.Title == "" {
		task.Title = m.policy.UntitledTask
		warn("title", "task without title, using %q", task.Title)
	}

	task.Client, _ = rec.lookup(attrClient)
	task.Project, _ = rec.lookup(attrProject)
	task.Responsible, _ = rec.lookup(attrResponsible)
	task.Status, _ = rec.lookup(attrStatus)
	task.ParentID, _ = rec.lookup(attrParent)

	task.Start = m.resolveStart(rec, warn)
	task.End = m.resolveEnd(rec, task.Start, warn)

	task.Priority = m.policy.PriorityFor(task.Status)

	functionGroup, _ := rec.lookup(attrFunctionGroup)
	path, _ := rec.lookup(attrPath)
	owner, problem := m.groups.Resolve(functionGroup, path)
	if problem != "" {
		warn("group", "%s", problem)
	}
	task.Group = owner.Group
	task.Subgroup = owner.Subgroup
	task.FullPath = owner.FullPath

	task.Kind = m.resolveKind(rec, task.ParentID, warn)

	return task, nil
}

func (m *Mapper) resolveStart(rec record, warn func(string, string, ...any)) time.Time {
	if value, ok := rec.lookup(attrStart); ok {
		start, err := parseDate(value, m.loc)
		if err == nil {
			return start
		}
		warn("start", "%v, using current time", err)
	} else {
		warn("start", "task without start date, using current time")
	}
	return m.now().In(m.loc)
}

func (m *Mapper) resolveEnd(rec record, start time.Time, warn func(string, string, ...any)) time.Time {
	value, ok := rec.lookup(attrEnd)
	if !ok {
		warn("end", "task without end date, using default end")
		return m.policy.SyntheticEnd(start)
	}
	end, err := parseDate(value, m.loc)
	if err != nil {
		warn("end", "%v, using default end", err)
		return m.policy.SyntheticEnd(start)
	}
	if !end.After(start) {
		warn("end", "end %s is not after start %s, using default end",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
		return m.policy.SyntheticEnd(start)
	}
	return end
}

func (m *Mapper) resolveKind(rec record, parentID string, warn func(string, string, ...any)) board.Kind {
	if value, ok := rec.lookup(attrKind); ok {
		kind, err := board.ParseKind(value)
		if err == nil {
			return kind
		}
		warn("kind", "%v", err)
	}
	if parentID != "" {
		return board.KindSubtask
	}
	return board.KindTask
}

// syntheticID derives a stable id from the record's content. encoding/json
// sorts map keys, so equal records always get the same id.
func syntheticID(obj map[string]any) string {
	data, err := json.Marshal(obj)
	if err != nil {
		data = []byte(fmt.Sprint(obj))
	}
	return uuid.NewSHA1(syntheticIDSpace, data).String()
}

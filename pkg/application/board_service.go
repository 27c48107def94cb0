package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/aggregate"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"github.com/felixgeelhaar/timeboard/pkg/export"
	"github.com/felixgeelhaar/timeboard/pkg/filter"
	"github.com/felixgeelhaar/timeboard/pkg/ingest"
	"github.com/felixgeelhaar/timeboard/pkg/timeline"
)

// Snapshot is the result of one successful load. It is never modified after
// it has been published.
type Snapshot struct {
	Source      string             `json:"source"`
	Tasks       []board.Task       `json:"tasks"`
	Projects    []board.Project    `json:"projects"`
	Diagnostics []board.Diagnostic `json:"diagnostics"`
	Duplicates  []string           `json:"duplicates,omitempty"`
	Skipped     int                `json:"skipped"`
	LoadedAt    time.Time          `json:"loadedAt"`
}

// BoardService runs the load pipeline and serves filtered views of the
// latest snapshot.
type BoardService struct {
	source    ingest.Source
	policy    board.Policy
	now       func() time.Time
	logger    *slog.Logger
	engine    *filter.Engine
	projector *timeline.Projector

	mu   sync.RWMutex
	snap *Snapshot

	subsMu  sync.Mutex
	subs    map[int]func(*Snapshot)
	nextSub int
}

type BoardOption func(*BoardService)

func WithClock(now func() time.Time) BoardOption {
	return func(s *BoardService) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) BoardOption {
	return func(s *BoardService) {
		s.logger = logger
	}
}

func NewBoardService(source ingest.Source, policy board.Policy, opts ...BoardOption) *BoardService {
	s := &BoardService{
		source: source,
		policy: policy.WithDefaults(),
		now:    time.Now,
		logger: slog.Default(),
		subs:   make(map[int]func(*Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = filter.NewEngine(s.policy, filter.WithClock(s.now), filter.WithLogger(s.logger))
	s.projector = timeline.NewProjector(s.policy)
	return s
}

// Policy returns the effective policy.
func (s *BoardService) Policy() board.Policy {
	return s.policy
}

// Load fetches and normalizes the source, then replaces the current
// snapshot. A failed load keeps the previous snapshot.
func (s *BoardService) Load(ctx context.Context) (*Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.source == nil {
		return nil, fmt.Errorf("%w: no data source configured", board.ErrSourceUnavailable)
	}

	started := s.now()
	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	records, err := ingest.Decode(data)
	if err != nil {
		return nil, &board.LoadError{Source: s.source.String(), Err: err}
	}

	reporter := board.NewReporter(s.logger)
	mapper := ingest.NewMapper(s.policy,
		ingest.WithClock(s.now),
		ingest.WithReporter(reporter),
	)
	mapped := mapper.MapAll(records)
	duplicates := ingest.DuplicateIDs(mapped)
	tasks := ingest.Dedupe(mapped)

	agg := aggregate.New(s.policy, aggregate.WithClock(s.now), aggregate.WithLogger(s.logger))
	projects := agg.Aggregate(tasks)

	snap := &Snapshot{
		Source:      s.source.String(),
		Tasks:       tasks,
		Projects:    projects,
		Diagnostics: reporter.Diagnostics(),
		Duplicates:  duplicates,
		Skipped:     len(records) - len(mapped),
		LoadedAt:    s.now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("board loaded",
		"source", snap.Source,
		"records", len(records),
		"tasks", len(tasks),
		"projects", len(projects),
		"duplicates", len(duplicates),
		"diagnostics", len(snap.Diagnostics),
		"duration", s.now().Sub(started),
	)
	s.notify(snap)
	return snap, nil
}

// Snapshot returns the current snapshot or board.ErrNoSnapshot.
func (s *BoardService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, board.ErrNoSnapshot
	}
	return s.snap, nil
}

// Tasks returns the tasks matching spec.
func (s *BoardService) Tasks(spec filter.Spec) ([]board.Task, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.engine.Tasks(snap.Tasks, spec), nil
}

// Projects returns the projects matching spec.
func (s *BoardService) Projects(spec filter.Spec) ([]board.Project, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.engine.Projects(snap.Projects, spec), nil
}

// Options returns the selector values of the current snapshot.
func (s *BoardService) Options() (filter.Options, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return filter.Options{}, err
	}
	return filter.BuildOptions(snap.Tasks, s.policy), nil
}

// Diagnostics returns the issues found by the last load.
func (s *BoardService) Diagnostics() ([]board.Diagnostic, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Diagnostics, nil
}

// TaskTimeline projects the matching tasks onto responsible lanes.
func (s *BoardService) TaskTimeline(spec filter.Spec) (timeline.View, error) {
	tasks, err := s.Tasks(spec)
	if err != nil {
		return timeline.View{}, err
	}
	return s.projector.Tasks(tasks), nil
}

// ProjectTimeline projects the matching projects onto client lanes.
func (s *BoardService) ProjectTimeline(spec filter.Spec) (timeline.View, error) {
	projects, err := s.Projects(spec)
	if err != nil {
		return timeline.View{}, err
	}
	return s.projector.Projects(projects), nil
}

// ExportTasks writes the matching tasks as CSV and returns the row count.
func (s *BoardService) ExportTasks(w io.Writer, spec filter.Spec) (int, error) {
	tasks, err := s.Tasks(spec)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(w, export.TaskTable(), tasks); err != nil {
		return 0, fmt.Errorf("export tasks: %w", err)
	}
	return len(tasks), nil
}

// ExportProjects writes the matching projects as CSV and returns the row count.
func (s *BoardService) ExportProjects(w io.Writer, spec filter.Spec) (int, error) {
	projects, err := s.Projects(spec)
	if err != nil {
		return 0, err
	}
	if err := export.WriteCSV(w, export.ProjectTable(), projects); err != nil {
		return 0, fmt.Errorf("export projects: %w", err)
	}
	return len(projects), nil
}

// ExportFileName names an export of the given kind for today.
func (s *BoardService) ExportFileName(kind string) string {
	return export.FileName(kind, s.now())
}

// Subscribe registers fn to be called after every successful load. The
// returned function removes the subscription.
func (s *BoardService) Subscribe(fn func(*Snapshot)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *BoardService) notify(snap *Snapshot) {
	s.subsMu.Lock()
	fns := make([]func(*Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("reload subscriber panicked", "panic", r)
				}
			}()
			fn(snap)
		}()
	}
}

// IsNothingToExport reports whether err means the filtered set was empty.
func IsNothingToExport(err error) bool {
	return errors.Is(err, export.ErrNothingToExport)
}

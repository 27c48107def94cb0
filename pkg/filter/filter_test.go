package filter

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleTasks() []board.Task {
	return []board.Task{
		{ID: "1", Client: "Acme", Start: now.AddDate(0, 0, -2), Responsible: "Ana Souza", Group: "CRIAÇÃO",
			Subgroup: "Equipe A / Subequipe", FullPath: "CRIAÇÃO / Equipe A / Subequipe", Kind: board.KindTask},
		{ID: "2", Client: "Acme", Start: now.AddDate(0, 0, -20), Responsible: "João", Group: "CRIAÇÃO",
			Subgroup: "Outra Equipe", FullPath: "CRIAÇÃO / Outra Equipe", Kind: board.KindSubtask},
		{ID: "3", Client: "Beta", Start: now.AddDate(0, 0, -5), Responsible: "", Group: "MÍDIA",
			Subgroup: "Equipe A", FullPath: "MÍDIA / Equipe A", Kind: board.KindTask},
		{ID: "4", Client: "Beta", Start: time.Time{}, Responsible: "MARIANA", Group: "CRIAÇÃO",
			Subgroup: "Equipe A", FullPath: "CRIAÇÃO / Equipe A", Kind: board.KindSubtask},
		{ID: "5", Client: "Acme", Start: now.AddDate(0, 0, -1), Responsible: "Bruno", Group: "CRIAÇÃO",
			Subgroup: "Equipe AB", FullPath: "CRIAÇÃO / Equipe AB", Kind: board.KindTask},
	}
}

func ids[T board.Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}

func newTestEngine(buf *bytes.Buffer) *Engine {
	opts := []Option{WithClock(func() time.Time { return now })}
	if buf != nil {
		opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(buf, nil))))
	}
	return NewEngine(board.DefaultPolicy(), opts...)
}

func TestEngine_Tasks(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"zero spec keeps everything", Spec{}, []string{"1", "2", "3", "4", "5"}},
		{"sentinels keep everything", Spec{Client: "all", Group: "todos", Subgroup: "ALL"}, []string{"1", "2", "3", "4", "5"}},
		{"period drops old and undated", Spec{DaysBack: 7}, []string{"1", "3", "5"}},
		{"client exact", Spec{Client: "Beta"}, []string{"3", "4"}},
		{"client is case sensitive", Spec{Client: "acme"}, []string{}},
		{"group", Spec{Group: "CRIAÇÃO"}, []string{"1", "2", "4", "5"}},
		{"subgroup prefix", Spec{Group: "CRIAÇÃO", Subgroup: "Equipe A"}, []string{"1", "4"}},
		{"subgroup full path", Spec{Group: "CRIAÇÃO", Subgroup: "CRIAÇÃO / Outra Equipe"}, []string{"2"}},
		{"subgroup without group is ignored", Spec{Subgroup: "Equipe A"}, []string{"1", "2", "3", "4", "5"}},
		{"responsible substring ignores case", Spec{ResponsibleContains: "an"}, []string{"1", "4"}},
		{"hide subtasks", Spec{ShowSubtasks: Bool(false)}, []string{"1", "3", "5"}},
		{"hide tasks", Spec{ShowTasks: Bool(false)}, []string{"2", "4"}},
		{"hide both", Spec{ShowTasks: Bool(false), ShowSubtasks: Bool(false)}, []string{}},
		{"combined", Spec{DaysBack: 30, Client: "Acme", Group: "CRIAÇÃO", Subgroup: "Equipe A", ShowSubtasks: Bool(false)}, []string{"1"}},
	}

	e := newTestEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(e.Tasks(sampleTasks(), tt.spec)))
		})
	}
}

func TestEngine_SubgroupScenario(t *testing.T) {
	tasks := []board.Task{
		{ID: "in", Group: "CRIAÇÃO", Subgroup: "Equipe A / Subequipe", FullPath: "Equipe A / Subequipe"},
		{ID: "out", Group: "CRIAÇÃO", Subgroup: "Outra Equipe", FullPath: "Outra Equipe"},
	}
	got := newTestEngine(nil).Tasks(tasks, Spec{Group: "CRIAÇÃO", Subgroup: "Equipe A"})
	assert.Equal(t, []string{"in"}, ids(got))
}

func TestEngine_ExactSubgroup(t *testing.T) {
	tasks := []board.Task{
		{ID: "self", Group: "CRIAÇÃO", Subgroup: "Ana Luisa Andre", FullPath: "Ana Luisa Andre"},
		{ID: "below", Group: "CRIAÇÃO", Subgroup: "Ana Luisa Andre / Freelas", FullPath: "Ana Luisa Andre / Freelas"},
	}
	got := newTestEngine(nil).Tasks(tasks, Spec{Group: "CRIAÇÃO", Subgroup: "Ana Luisa Andre"})
	assert.Equal(t, []string{"self"}, ids(got))
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(nil)
	specs := []Spec{
		{DaysBack: 7},
		{Group: "CRIAÇÃO", Subgroup: "Equipe A"},
		{ResponsibleContains: "a", ShowTasks: Bool(false)},
	}
	for _, s := range specs {
		once := e.Tasks(sampleTasks(), s)
		twice := e.Tasks(once, s)
		assert.Equal(t, once, twice, "spec %+v", s)
	}
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	_ = newTestEngine(nil).Tasks(tasks, Spec{Client: "Beta"})
	assert.Equal(t, sampleTasks(), tasks)
}

func TestEngine_Projects(t *testing.T) {
	projects := []board.Project{
		{ID: "Acme::Site", Client: "Acme", Start: now.AddDate(0, 0, -3), Groups: []string{"CRIAÇÃO", "MÍDIA"}, Responsibles: []string{"Ana"}},
		{ID: "Beta::App", Client: "Beta", Start: now.AddDate(0, 0, -40), Groups: []string{"TECNOLOGIA"}, Responsibles: []string{"João"}},
	}

	e := newTestEngine(nil)
	assert.Equal(t, []string{"Acme::Site"}, ids(e.Projects(projects, Spec{Group: "MÍDIA"})))
	assert.Equal(t, []string{"Acme::Site"}, ids(e.Projects(projects, Spec{DaysBack: 10})))
	assert.Equal(t, []string{"Beta::App"}, ids(e.Projects(projects, Spec{ResponsibleContains: "joão"})))
}

func TestEngine_ShapeMisuseWarns(t *testing.T) {
	projects := []board.Project{
		{ID: "Acme::Site", Client: "Acme", Groups: []string{"CRIAÇÃO"}},
	}

	var buf bytes.Buffer
	e := newTestEngine(&buf)

	got := e.Projects(projects, Spec{Group: "CRIAÇÃO", Subgroup: "Equipe A", ShowSubtasks: Bool(false)})
	assert.Equal(t, []string{"Acme::Site"}, ids(got))
	assert.Contains(t, buf.String(), "stage=subgroup")
	assert.Contains(t, buf.String(), "stage=kind")
	assert.Contains(t, buf.String(), "type=project")

	assert.Empty(t, e.Projects(projects, Spec{ShowTasks: Bool(false), ShowSubtasks: Bool(false)}))
}

func TestByPeriod_Boundary(t *testing.T) {
	tasks := []board.Task{
		{ID: "edge", Start: now.AddDate(0, 0, -7)},
		{ID: "before", Start: now.AddDate(0, 0, -7).Add(-time.Second)},
	}
	assert.Equal(t, []string{"edge"}, ids(ByPeriod(tasks, now, 7)))
	assert.Len(t, ByPeriod(tasks, now, 0), 2)
}

func TestEmptyInput(t *testing.T) {
	e := newTestEngine(nil)
	assert.Empty(t, e.Tasks(nil, Spec{Group: "CRIAÇÃO", Subgroup: "x", ShowTasks: Bool(false)}))
	require.NotPanics(t, func() {
		e.Projects(nil, Spec{Group: "CRIAÇÃO", Subgroup: "x"})
	})
}

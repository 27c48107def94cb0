package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

var start = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestProjector_Tasks(t *testing.T) {
	tasks := []board.Task{
		{ID: "long", Title: "Roteiro", Start: start, End: start.Add(48 * time.Hour), Responsible: "Ana", Priority: board.PriorityHigh},
		{ID: "short", Title: "Revisão", Start: start, End: start.Add(2 * time.Hour), Responsible: "João", Kind: board.KindSubtask, Priority: board.PriorityLow},
		{ID: "noend", Title: "", Start: start, Priority: "bogus"},
	}

	view := NewProjector(board.DefaultPolicy()).Tasks(tasks)
	require.Len(t, view.Items, 3)

	long := view.Items[0]
	assert.Equal(t, "Ana", long.Group)
	assert.Equal(t, "priority-high longa", long.ClassName)
	assert.False(t, long.ShortDuration)

	short := view.Items[1]
	assert.Equal(t, "priority-low subtask curta", short.ClassName)
	assert.True(t, short.ShortDuration)

	noEnd := view.Items[2]
	assert.Equal(t, NoResponsibleLane, noEnd.Group)
	assert.Equal(t, board.DefaultUntitledTask, noEnd.Content)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999999, time.UTC), noEnd.End)
	assert.Equal(t, "priority-medium longa", noEnd.ClassName)

	assert.Equal(t, []Lane{
		{ID: "Ana", Content: "Ana"},
		{ID: "João", Content: "João"},
		{ID: NoResponsibleLane, Content: NoResponsibleLane},
	}, view.Lanes)
}

func TestProjector_Projects(t *testing.T) {
	projects := []board.Project{
		{ID: "Acme::Site", Name: "Site", Client: "Acme", Start: start, End: start.AddDate(0, 0, 10), Priority: board.PriorityHigh, Status: board.ProjectDelayed},
		{ID: "Beta::App", Name: "App", Client: "Beta", Start: start, Priority: board.PriorityLow, Status: board.ProjectCompleted},
		{ID: "Beta::Odd", Name: "Odd", Client: "Beta", Start: start, End: start.Add(-time.Hour), Status: board.ProjectInProgress},
	}

	view := NewProjector(board.DefaultPolicy()).Projects(projects)
	require.Len(t, view.Items, 3)

	assert.Equal(t, "priority-high status-atrasado", view.Items[0].ClassName)
	assert.Equal(t, start.Add(board.DefaultProjectSpan), view.Items[1].End)
	assert.Equal(t, "priority-low status-concluido", view.Items[1].ClassName)
	assert.Equal(t, start.Add(time.Hour), view.Items[2].End)
	assert.True(t, view.Items[2].ShortDuration)

	assert.Equal(t, []Lane{{ID: "Acme", Content: "Acme"}, {ID: "Beta", Content: "Beta"}}, view.Lanes)
}

func TestProjector_ProjectWithoutClient(t *testing.T) {
	projects := []board.Project{
		{ID: "::Loose", Name: "Loose", Start: start, End: start.AddDate(0, 0, 2), Status: board.ProjectInProgress},
		{ID: "Acme::Site", Name: "Site", Client: "Acme", Start: start, End: start.AddDate(0, 0, 2), Status: board.ProjectInProgress},
	}

	view := NewProjector(board.DefaultPolicy()).Projects(projects)
	require.Len(t, view.Items, 2)
	assert.Equal(t, NoClientLane, view.Items[0].Group)

	lanes := make(map[string]bool)
	for _, l := range view.Lanes {
		lanes[l.ID] = true
	}
	for _, item := range view.Items {
		assert.True(t, lanes[item.Group], "item %s has no lane", item.ID)
	}
}

func TestProjector_Empty(t *testing.T) {
	view := NewProjector(board.DefaultPolicy()).Tasks(nil)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.Lanes)
}

func TestPriorityClass(t *testing.T) {
	assert.Equal(t, "priority-low", PriorityClass(board.PriorityLow))
	assert.Equal(t, "priority-medium", PriorityClass(""))
}

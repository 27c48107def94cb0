package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

func TestBuildOptions(t *testing.T) {
	tasks := []board.Task{
		{Client: "Beta", Group: "MÍDIA", Subgroup: "Social"},
		{Client: "Acme", Group: "CRIAÇÃO", Subgroup: "Design"},
		{Client: "GM", Group: "CRIAÇÃO", Subgroup: "Redação"},
		{Client: "Acme", Group: "CRIAÇÃO", Subgroup: "Design"},
		{Client: "", Group: ""},
	}

	opts := BuildOptions(tasks, board.DefaultPolicy())
	assert.Equal(t, []string{"Acme", "Beta"}, opts.Clients, "excluded clients are not offered")
	assert.Equal(t, []string{"CRIAÇÃO", "MÍDIA"}, opts.Groups)
	assert.Equal(t, []string{"Design", "Redação"}, opts.SubgroupsOf("CRIAÇÃO"))
	assert.Equal(t, []string{"Social"}, opts.SubgroupsOf("MÍDIA"))
	assert.Nil(t, opts.SubgroupsOf("TECNOLOGIA"))
}

func TestProjectOptions(t *testing.T) {
	projects := []board.Project{
		{Tasks: []board.Task{{Client: "Acme", Group: "CRIAÇÃO"}}},
		{Tasks: []board.Task{{Client: "Beta", Group: "MÍDIA", Subgroup: "Social"}}},
	}
	opts := ProjectOptions(projects, board.DefaultPolicy())
	assert.Equal(t, []string{"Acme", "Beta"}, opts.Clients)
	assert.Equal(t, []string{"CRIAÇÃO", "MÍDIA"}, opts.Groups)
}

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

func TestDedupe_KeepsFirst(t *testing.T) {
	tasks := []board.Task{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "second"},
		{ID: "c"},
		{ID: "b"},
	}

	got := Dedupe(tasks)

	var ids []string
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, []string{"a", "b"}, DuplicateIDs(tasks))
}

func TestDedupe_Idempotent(t *testing.T) {
	tasks := []board.Task{{ID: "x"}, {ID: "x"}, {ID: "y"}}
	once := Dedupe(tasks)
	assert.Equal(t, once, Dedupe(once))
	assert.Empty(t, DuplicateIDs(once))
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
	assert.Nil(t, DuplicateIDs(nil))
}

package filter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Sentinel selections meaning "no filter". The Portuguese one comes from
// the dashboard's select boxes.
const (
	All      = "all"
	AllTodos = "todos"
)

// Spec is the complete set of user-selectable criteria. The zero value
// selects everything.
type Spec struct {
	DaysBack            int    `json:"daysBack,omitempty" yaml:"days_back"`
	Client              string `json:"client,omitempty" yaml:"client"`
	Group               string `json:"group,omitempty" yaml:"group"`
	Subgroup            string `json:"subgroup,omitempty" yaml:"subgroup"`
	ResponsibleContains string `json:"responsibleNameContains,omitempty" yaml:"responsible_name_contains"`
	ShowTasks           *bool  `json:"showTasks,omitempty" yaml:"show_tasks"`
	ShowSubtasks        *bool  `json:"showSubtasks,omitempty" yaml:"show_subtasks"`
}

// IsAll reports whether a selection is empty or one of the sentinels.
func IsAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All) || strings.EqualFold(v, AllTodos)
}

// Tasks reports whether top-level tasks are shown (default true).
func (s Spec) Tasks() bool {
	return s.ShowTasks == nil || *s.ShowTasks
}

// Subtasks reports whether subtasks are shown (default true).
func (s Spec) Subtasks() bool {
	return s.ShowSubtasks == nil || *s.ShowSubtasks
}

// Bool is a helper for the optional Show* fields.
func Bool(v bool) *bool {
	return &v
}

// ParseQuery reads a Spec from dashboard query parameters:
// days, client, group, subgroup, name, tasks, subtasks.
func ParseQuery(q url.Values) (Spec, error) {
	var s Spec
	if v := q.Get("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return Spec{}, fmt.Errorf("invalid days %q: must be a non-negative integer", v)
		}
		s.DaysBack = days
	}
	s.Client = q.Get("client")
	s.Group = q.Get("group")
	s.Subgroup = q.Get("subgroup")
	s.ResponsibleContains = q.Get("name")

	for key, dst := range map[string]**bool{"tasks": &s.ShowTasks, "subtasks": &s.ShowSubtasks} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Spec{}, fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = Bool(b)
	}
	return s, nil
}

// Query is the inverse of ParseQuery.
func (s Spec) Query() url.Values {
	q := url.Values{}
	if s.DaysBack > 0 {
		q.Set("days", strconv.Itoa(s.DaysBack))
	}
	set := func(key, v string) {
		if !IsAll(v) {
			q.Set(key, v)
		}
	}
	set("client", s.Client)
	set("group", s.Group)
	set("subgroup", s.Subgroup)
	if s.ResponsibleContains != "" {
		q.Set("name", s.ResponsibleContains)
	}
	if s.ShowTasks != nil {
		q.Set("tasks", strconv.FormatBool(*s.ShowTasks))
	}
	if s.ShowSubtasks != nil {
		q.Set("subtasks", strconv.FormatBool(*s.ShowSubtasks))
	}
	return q
}

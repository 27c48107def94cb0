package filter

import (
	"sort"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// Options lists the values the dashboard's select boxes offer.
type Options struct {
	Clients   []string            `json:"clients"`
	Groups    []string            `json:"groups"`
	Subgroups map[string][]string `json:"subgroups"`
}

// SubgroupsOf returns the subgroups offered once group is selected.
func (o Options) SubgroupsOf(group string) []string {
	return o.Subgroups[group]
}

// BuildOptions derives sorted, distinct option values from tasks. Clients
// the policy excludes are left out; their tasks are still listed.
func BuildOptions(tasks []board.Task, policy board.Policy) Options {
	policy = policy.WithDefaults()

	clients := make(map[string]struct{})
	groups := make(map[string]struct{})
	subgroups := make(map[string]map[string]struct{})

	for _, t := range tasks {
		if t.Client != "" && !policy.IsExcludedClient(t.Client) {
			clients[t.Client] = struct{}{}
		}
		if t.Group == "" {
			continue
		}
		groups[t.Group] = struct{}{}
		if t.Subgroup == "" {
			continue
		}
		if subgroups[t.Group] == nil {
			subgroups[t.Group] = make(map[string]struct{})
		}
		subgroups[t.Group][t.Subgroup] = struct{}{}
	}

	opts := Options{
		Clients:   sortedSet(clients),
		Groups:    sortedSet(groups),
		Subgroups: make(map[string][]string, len(subgroups)),
	}
	for g, set := range subgroups {
		opts.Subgroups[g] = sortedSet(set)
	}
	return opts
}

// ProjectOptions derives options from the tasks inside projects.
func ProjectOptions(projects []board.Project, policy board.Policy) Options {
	var tasks []board.Task
	for _, p := range projects {
		tasks = append(tasks, p.Tasks...)
	}
	return BuildOptions(tasks, policy)
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

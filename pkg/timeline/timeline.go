// Package timeline converts filtered tasks and projects into
// renderer-neutral Gantt items grouped into lanes.
package timeline

import (
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// ShortDuration is the span below which an item is drawn as a marker.
const ShortDuration = 8 * time.Hour

// NoResponsibleLane holds tasks without a responsible.
const NoResponsibleLane = "Sem responsável"

// NoClientLane holds projects without a client.
const NoClientLane = "Sem cliente"

// Item is one bar on the timeline.
type Item struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Group         string    `json:"group"`
	ClassName     string    `json:"className"`
	ShortDuration bool      `json:"shortDuration"`
}

// Lane is a row of the timeline.
type Lane struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// View is what a renderer needs to draw one timeline.
type View struct {
	Items []Item `json:"items"`
	Lanes []Lane `json:"lanes"`
}

// Projector builds views with a Policy's end-date rules.
type Projector struct {
	policy board.Policy
}

func NewProjector(policy board.Policy) *Projector {
	return &Projector{policy: policy.WithDefaults()}
}

// Tasks lays tasks out in one lane per responsible.
func (p *Projector) Tasks(tasks []board.Task) View {
	view := View{Items: make([]Item, 0, len(tasks))}
	lanes := make(map[string]struct{})

	for _, t := range tasks {
		end := t.End
		if end.IsZero() || !end.After(t.Start) {
			end = p.policy.SyntheticEnd(t.Start)
		}
		short := end.Sub(t.Start) < ShortDuration

		lane := t.Responsible
		if lane == "" {
			lane = NoResponsibleLane
		}
		lanes[lane] = struct{}{}

		classes := []string{PriorityClass(t.Priority)}
		if t.Kind == board.KindSubtask {
			classes = append(classes, "subtask")
		}
		if short {
			classes = append(classes, "curta")
		} else {
			classes = append(classes, "longa")
		}

		title := t.Title
		if title == "" {
			title = p.policy.UntitledTask
		}
		view.Items = append(view.Items, Item{
			ID:            t.ID,
			Content:       title,
			Start:         t.Start,
			End:           end,
			Group:         lane,
			ClassName:     strings.Join(classes, " "),
			ShortDuration: short,
		})
	}
	view.Lanes = sortedLanes(lanes)
	return view
}

// Projects lays projects out in one lane per client.
func (p *Projector) Projects(projects []board.Project) View {
	view := View{Items: make([]Item, 0, len(projects))}
	lanes := make(map[string]struct{})

	for _, pr := range projects {
		end := pr.End
		if end.IsZero() {
			end = pr.Start.Add(p.policy.ProjectDefaultSpan)
		}
		if end.Before(pr.Start) {
			end = pr.Start.Add(time.Hour)
		}

		lane := pr.Client
		if lane == "" {
			lane = NoClientLane
		}
		lanes[lane] = struct{}{}
		view.Items = append(view.Items, Item{
			ID:            pr.ID,
			Content:       pr.Name,
			Start:         pr.Start,
			End:           end,
			Group:         lane,
			ClassName:     PriorityClass(pr.Priority) + " " + pr.Status.ClassName(),
			ShortDuration: end.Sub(pr.Start) < ShortDuration,
		})
	}
	view.Lanes = sortedLanes(lanes)
	return view
}

// PriorityClass maps a priority to its CSS class; unknown values fall back
// to the medium class.
func PriorityClass(p board.Priority) string {
	if !p.IsValid() {
		p = board.DefaultPriority()
	}
	return "priority-" + p.String()
}

func sortedLanes(set map[string]struct{}) []Lane {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lanes := make([]Lane, 0, len(ids))
	for _, id := range ids {
		lanes = append(lanes, Lane{ID: id, Content: id})
	}
	return lanes
}

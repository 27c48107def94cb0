package board

import (
	"fmt"
	"strings"
	"time"
)

// Defaults for the business rules the export history disagreed on. Each can
// be overridden through policy.yaml.
const (
	// DefaultEndOffset is added to start when a task has no usable end.
	DefaultEndOffset = 24 * time.Hour
	// DefaultEndOfDay snaps the synthetic end to 23:59:59.999999999.
	DefaultEndOfDay = true
	// DefaultProjectSpan is the timeline width of a project with no end.
	DefaultProjectSpan = 14 * 24 * time.Hour

	DefaultOtherGroup        = "Other"
	DefaultUntitledTask      = "Tarefa sem nome"
	DefaultUnassignedProject = "Unassigned project – %s"
	DefaultLocation          = "UTC"
)

// Policy bundles the tunable business rules of the pipeline.
type Policy struct {
	DefaultEndOffset   time.Duration       `yaml:"default_end_offset"`
	EndOfDay           bool                `yaml:"end_of_day"`
	ProjectDefaultSpan time.Duration       `yaml:"project_default_span"`
	KnownGroups        []string            `yaml:"known_groups"`
	GroupOverrides     map[string]string   `yaml:"group_overrides"`
	OtherGroup         string              `yaml:"other_group"`
	CompletionStatuses []string            `yaml:"completion_statuses"`
	StatusPriority     map[string]Priority `yaml:"status_priority"`
	ExactSubgroups     []string            `yaml:"exact_subgroups"`
	ExcludedClients    []string            `yaml:"excluded_clients"`
	UntitledTask       string              `yaml:"untitled_task"`
	UnassignedProject  string              `yaml:"unassigned_project"`
	Location           string              `yaml:"location"`
}

// DefaultPolicy returns the canonical rule set.
func DefaultPolicy() Policy {
	return Policy{
		DefaultEndOffset:   DefaultEndOffset,
		EndOfDay:           DefaultEndOfDay,
		ProjectDefaultSpan: DefaultProjectSpan,
		KnownGroups: []string{
			"ATENDIMENTO",
			"CRIAÇÃO",
			"MÍDIA",
			"PLANEJAMENTO",
			"PRODUÇÃO",
			"TECNOLOGIA",
		},
		GroupOverrides: map[string]string{
			"Ana Luisa Andre": "CRIAÇÃO",
			"Bruno Prosperi":  "CRIAÇÃO",
		},
		OtherGroup:         DefaultOtherGroup,
		CompletionStatuses: []string{"Concluída", "Done"},
		StatusPriority: map[string]Priority{
			"Não iniciada":  PriorityLow,
			"Not started":   PriorityLow,
			"Backlog":       PriorityMedium,
			"Em Produção":   PriorityHigh,
			"In production": PriorityHigh,
		},
		ExactSubgroups: []string{"Ana Luisa Andre"},
		ExcludedClients: []string{
			"ENGIE", "EUDORA", "GM", "JOHNSON'S BABY", "O.U.i", "OVVI", "SUPERDIGITAL",
		},
		UntitledTask:      DefaultUntitledTask,
		UnassignedProject: DefaultUnassignedProject,
		Location:          DefaultLocation,
	}
}

// WithDefaults fills zero-valued fields of an overlay from DefaultPolicy,
// so a policy.yaml only has to name what it changes.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if p.DefaultEndOffset <= 0 {
		p.DefaultEndOffset = def.DefaultEndOffset
	}
	if p.ProjectDefaultSpan <= 0 {
		p.ProjectDefaultSpan = def.ProjectDefaultSpan
	}
	if p.KnownGroups == nil {
		p.KnownGroups = def.KnownGroups
	}
	if p.GroupOverrides == nil {
		p.GroupOverrides = def.GroupOverrides
	}
	if p.OtherGroup == "" {
		p.OtherGroup = def.OtherGroup
	}
	if p.CompletionStatuses == nil {
		p.CompletionStatuses = def.CompletionStatuses
	}
	if p.StatusPriority == nil {
		p.StatusPriority = def.StatusPriority
	}
	if p.ExactSubgroups == nil {
		p.ExactSubgroups = def.ExactSubgroups
	}
	if p.ExcludedClients == nil {
		p.ExcludedClients = def.ExcludedClients
	}
	if p.UntitledTask == "" {
		p.UntitledTask = def.UntitledTask
	}
	if p.UnassignedProject == "" {
		p.UnassignedProject = def.UnassignedProject
	}
	if p.Location == "" {
		p.Location = def.Location
	}
	return p
}

// Validate checks the values a YAML overlay can get wrong.
func (p Policy) Validate() error {
	if p.DefaultEndOffset < 0 {
		return fmt.Errorf("default_end_offset must not be negative: %s", p.DefaultEndOffset)
	}
	for status, priority := range p.StatusPriority {
		if !priority.IsValid() {
			return fmt.Errorf("status_priority[%q]: invalid priority %q", status, priority)
		}
	}
	if _, err := time.LoadLocation(p.Location); err != nil {
		return fmt.Errorf("invalid location %q: %w", p.Location, err)
	}
	return nil
}

// TimeLocation resolves Location, falling back to UTC.
func (p Policy) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(p.Location)
	if err != nil || p.Location == "" {
		return time.UTC
	}
	return loc
}

// SyntheticEnd computes the end used when a task has none, or one that is
// not after its start.
func (p Policy) SyntheticEnd(start time.Time) time.Time {
	offset := p.DefaultEndOffset
	if offset <= 0 {
		offset = DefaultEndOffset
	}
	end := start.Add(offset)
	if p.EndOfDay {
		y, m, d := end.Date()
		end = time.Date(y, m, d, 23, 59, 59, 999999999, end.Location())
	}
	return end
}

// PriorityFor looks a status up in the priority table. An exact label wins;
// otherwise the lowest-sorting label that matches ignoring case is used.
func (p Policy) PriorityFor(status string) Priority {
	if priority, ok := p.StatusPriority[status]; ok && priority.IsValid() {
		return priority
	}
	best, found := "", false
	for label, priority := range p.StatusPriority {
		if !strings.EqualFold(label, status) || !priority.IsValid() {
			continue
		}
		if !found || label < best {
			best, found = label, true
		}
	}
	if found {
		return p.StatusPriority[best]
	}
	return DefaultPriority()
}

// UnassignedProjectName returns the fallback project name for a client.
func (p Policy) UnassignedProjectName(client string) string {
	if client == "" {
		return "Unassigned project"
	}
	format := p.UnassignedProject
	if format == "" {
		format = DefaultUnassignedProject
	}
	return fmt.Sprintf(format, client)
}

// IsExactSubgroup reports whether a subgroup selection must not prefix-expand.
func (p Policy) IsExactSubgroup(subgroup string) bool {
	for _, s := range p.ExactSubgroups {
		if s == subgroup {
			return true
		}
	}
	return false
}

// IsExcludedClient reports whether a client is hidden from option lists.
func (p Policy) IsExcludedClient(client string) bool {
	for _, c := range p.ExcludedClients {
		if c == client {
			return true
		}
	}
	return false
}

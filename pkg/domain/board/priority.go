package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// priorityOrder defines the ordering of priorities (higher order = higher priority)
var priorityOrder = map[Priority]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// IsValid returns true if the priority is one of low, medium or high.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	return string(p)
}

// Order returns the numeric order of the priority (higher = more important).
func (p Priority) Order() int {
	if order, ok := priorityOrder[p]; ok {
		return order
	}
	return 0
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Priority) Compare(other Priority) int {
	thisOrder := p.Order()
	otherOrder := other.Order()

	switch {
	case thisOrder < otherOrder:
		return -1
	case thisOrder > otherOrder:
		return 1
	default:
		return 0
	}
}

// IsHigherThan returns true if this priority is higher than the other.
func (p Priority) IsHigherThan(other Priority) bool {
	return p.Compare(other) > 0
}

// Max returns the higher of the two priorities. A lower value never
// replaces a higher one, so folding Max over tasks keeps the highest seen.
func (p Priority) Max(other Priority) Priority {
	if other.IsHigherThan(p) {
		return other
	}
	return p
}

// DisplayName returns the label used by the dashboard tooltips.
func (p Priority) DisplayName() string {
	switch p {
	case PriorityLow:
		return "Baixa"
	case PriorityMedium:
		return "Média"
	case PriorityHigh:
		return "Alta"
	default:
		return string(p)
	}
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !priority.IsValid() {
		return "", fmt.Errorf("invalid priority: %s", s)
	}
	return priority, nil
}

// DefaultPriority is used whenever a status has no entry in the priority table.
func DefaultPriority() Priority {
	return PriorityMedium
}

// HighestPriority returns the highest priority from a slice of priorities.
func HighestPriority(priorities []Priority) Priority {
	if len(priorities) == 0 {
		return DefaultPriority()
	}

	highest := priorities[0]
	for _, p := range priorities[1:] {
		highest = highest.Max(p)
	}
	return highest
}

// MarshalJSON implements json.Marshaler interface.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	// Accept empty string as medium
	if str == "" {
		*p = PriorityMedium
		return nil
	}

	priority, err := ParsePriority(str)
	if err != nil {
		return err
	}

	*p = priority
	return nil
}

// UnmarshalYAML lets policy.yaml spell priorities in any case.
func (p *Priority) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	priority, err := ParsePriority(str)
	if err != nil {
		return err
	}
	*p = priority
	return nil
}

package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PathSeparator joins ownership path segments.
const PathSeparator = " / "

// Ownership is the resolved organizational placement of a task.
type Ownership struct {
	Group    string
	Subgroup string
	FullPath string
}

// GroupResolver classifies ownership paths against the known top-level
// groups of a Policy.
type GroupResolver struct {
	known     map[string]string
	overrides map[string]string
	other     string
}

func NewGroupResolver(policy board.Policy) *GroupResolver {
	r := &GroupResolver{
		known:     make(map[string]string, len(policy.KnownGroups)),
		overrides: make(map[string]string, len(policy.GroupOverrides)),
		other:     policy.OtherGroup,
	}
	if r.other == "" {
		r.other = board.DefaultOtherGroup
	}
	for _, g := range policy.KnownGroups {
		r.known[foldKey(g)] = g
	}
	for segment, g := range policy.GroupOverrides {
		r.overrides[foldKey(segment)] = g
	}
	return r
}

// Resolve derives group, subgroup and full path. An explicit function group
// wins over the path. The returned warning is non-empty when the group had
// to be defaulted.
func (r *GroupResolver) Resolve(functionGroup, path string) (Ownership, string) {
	segments := splitPath(path)
	fullPath := strings.Join(segments, PathSeparator)

	if fg := strings.TrimSpace(functionGroup); fg != "" {
		group := r.canonical(fg)
		subgroup := fullPath
		if len(segments) > 0 && foldKey(segments[0]) == foldKey(group) {
			subgroup = strings.Join(segments[1:], PathSeparator)
		}
		return Ownership{Group: group, Subgroup: subgroup, FullPath: fullPath}, ""
	}

	if len(segments) == 0 {
		return Ownership{}, "no group information in record"
	}

	first := foldKey(segments[0])
	// Overrides are names that must not be read as a group literally; the
	// whole path stays selectable as subgroup.
	if group, ok := r.overrides[first]; ok {
		return Ownership{Group: group, Subgroup: fullPath, FullPath: fullPath}, ""
	}
	if group, ok := r.known[first]; ok {
		return Ownership{
			Group:    group,
			Subgroup: strings.Join(segments[1:], PathSeparator),
			FullPath: fullPath,
		}, ""
	}
	return Ownership{Group: r.other, Subgroup: fullPath, FullPath: fullPath},
		fmt.Sprintf("unrecognized group %q, classified as %q", segments[0], r.other)
}

// canonical returns the known spelling of a group name, or the name itself.
func (r *GroupResolver) canonical(name string) string {
	if group, ok := r.known[foldKey(name)]; ok {
		return group
	}
	return name
}

func splitPath(path string) []string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// foldKey makes group names comparable regardless of case and accents,
// so "Criação", "CRIAÇÃO" and "CRIACAO" collide.
func foldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		stripped = strings.TrimSpace(s)
	}
	return cases.Fold().String(stripped)
}

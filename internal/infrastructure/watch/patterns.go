package watch

import (
	"path/filepath"
)

// PatternFilter decides which paths in a watched directory matter.
type PatternFilter struct {
	Include []string
	Exclude []string
}

func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{
		Include: include,
		Exclude: exclude,
	}
}

// FileFilter matches exactly one file name and ignores the temporary and
// backup files editors leave next to it.
func FileFilter(path string) *PatternFilter {
	return NewPatternFilter(
		[]string{filepath.Base(path)},
		[]string{"*~", "*.swp", "*.tmp", ".#*"},
	)
}

// Matches reports whether path passes the filter. Patterns are tried
// against the base name and the full path; excludes win over includes and
// an empty include list accepts everything.
func (f *PatternFilter) Matches(path string) bool {
	if f == nil {
		return true
	}
	if matchAny(f.Exclude, path) {
		return false
	}
	return len(f.Include) == 0 || matchAny(f.Include, path)
}

func matchAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

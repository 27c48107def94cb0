package ingest

import "github.com/felixgeelhaar/timeboard/pkg/domain/board"

// Dedupe drops tasks whose id was already seen. Survivors keep their
// first-occurrence order.
func Dedupe(tasks []board.Task) []board.Task {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]board.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// DuplicateIDs lists ids occurring more than once, in first-duplicate order.
func DuplicateIDs(tasks []board.Task) []string {
	counts := make(map[string]int, len(tasks))
	var dups []string
	for _, t := range tasks {
		counts[t.ID]++
		if counts[t.ID] == 2 {
			dups = append(dups, t.ID)
		}
	}
	return dups
}

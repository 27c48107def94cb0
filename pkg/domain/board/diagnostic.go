package board

import (
	"context"
	"log/slog"
	"sync"
)

// Diagnostic records a non-fatal repair or classification issue found while
// normalizing the source data.
type Diagnostic struct {
	Index   int    `json:"index"`
	TaskID  string `json:"taskId,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Reporter logs diagnostics and keeps them for later inspection.
type Reporter struct {
	logger *slog.Logger
	mu     sync.Mutex
	items  []Diagnostic
}

func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Report logs d at warn level and records it.
func (r *Reporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, d.Message,
		slog.Int("index", d.Index),
		slog.String("task_id", d.TaskID),
		slog.String("field", d.Field),
	)
	r.mu.Lock()
	r.items = append(r.items, d)
	r.mu.Unlock()
}

// Diagnostics returns a copy of everything reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

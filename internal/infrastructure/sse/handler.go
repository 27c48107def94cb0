// Package sse streams board reload notifications via Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/application"
)

// EventReloaded is sent after every successful load.
const EventReloaded = "board.reloaded"

// Event is the payload of one SSE message.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Tasks       int       `json:"tasks"`
	Projects    int       `json:"projects"`
	Diagnostics int       `json:"diagnostics"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// ReloadNotifier is the part of the board service the handler listens to.
type ReloadNotifier interface {
	Subscribe(fn func(*application.Snapshot)) func()
}

// SSEHandler fans reload notifications out to connected clients.
type SSEHandler struct {
	mu          sync.RWMutex
	clients     map[chan Event]struct{}
	seq         int
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// NewSSEHandler creates a handler subscribed to notifier.
func NewSSEHandler(notifier ReloadNotifier) *SSEHandler {
	h := &SSEHandler{
		clients: make(map[chan Event]struct{}),
		done:    make(chan struct{}),
	}
	h.unsubscribe = notifier.Subscribe(h.onReload)
	return h
}

// Close stops listening for reloads and ends every open stream.
func (h *SSEHandler) Close() {
	h.closeOnce.Do(func() {
		if h.unsubscribe != nil {
			h.unsubscribe()
		}
		close(h.done)
	})
}

func (h *SSEHandler) onReload(snap *application.Snapshot) {
	h.mu.Lock()
	h.seq++
	ev := Event{
		ID:          fmt.Sprintf("%d", h.seq),
		Type:        EventReloaded,
		Tasks:       len(snap.Tasks),
		Projects:    len(snap.Projects),
		Diagnostics: len(snap.Diagnostics),
		LoadedAt:    snap.LoadedAt,
	}
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			// Drop if client is slow
		}
	}
}

// Clients returns the number of connected clients.
func (h *SSEHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles SSE connections. An optional types query parameter
// restricts the stream to a comma-separated list of event types.
func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	typeFilter := make(map[string]bool)
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			typeFilter[strings.TrimSpace(t)] = true
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ch := make(chan Event, 16)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case event := <-ch:
			if len(typeFilter) > 0 && !typeFilter[event.Type] {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
			_, _ = fmt.Fprintf(w, "event: %s\n", event.Type)
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

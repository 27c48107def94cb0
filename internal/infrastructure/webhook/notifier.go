// Package webhook posts a summary of every reloaded board to outgoing
// webhook endpoints.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/timeboard/internal/infrastructure/config"
	"github.com/felixgeelhaar/timeboard/pkg/application"
	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

// EventReloaded is the only event type sent today.
const EventReloaded = "board.reloaded"

const SignatureHeader = "X-Timeboard-Signature"

// Notifier delivers reload notifications to the configured endpoints.
type Notifier struct {
	endpoints  []config.Endpoint
	client     *http.Client
	deadLetter *DeadLetterStore
	logger     *slog.Logger
	wg         sync.WaitGroup
}

type Option func(*Notifier)

func WithHTTPClient(c *http.Client) Option {
	return func(n *Notifier) { n.client = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

// WithDeadLetter stores deliveries that fail every attempt.
func WithDeadLetter(store *DeadLetterStore) Option {
	return func(n *Notifier) { n.deadLetter = store }
}

func NewNotifier(endpoints []config.Endpoint, opts ...Option) *Notifier {
	n := &Notifier{
		endpoints: endpoints,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Summary is the data of a board.reloaded event.
type Summary struct {
	Source      string    `json:"source"`
	LoadedAt    time.Time `json:"loaded_at"`
	Tasks       int       `json:"tasks"`
	Projects    int       `json:"projects"`
	Completed   int       `json:"completed"`
	InProgress  int       `json:"in_progress"`
	Delayed     int       `json:"delayed"`
	Duplicates  int       `json:"duplicates"`
	Skipped     int       `json:"skipped"`
	Diagnostics int       `json:"diagnostics"`
}

// Payload is the JSON body sent to webhook endpoints.
type Payload struct {
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Data      Summary   `json:"data"`
}

// Summarize counts a snapshot's projects by status.
func Summarize(snap *application.Snapshot) Summary {
	sum := Summary{
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		Tasks:       len(snap.Tasks),
		Projects:    len(snap.Projects),
		Duplicates:  len(snap.Duplicates),
		Skipped:     snap.Skipped,
		Diagnostics: len(snap.Diagnostics),
	}
	for _, p := range snap.Projects {
		switch p.Status {
		case board.ProjectCompleted:
			sum.Completed++
		case board.ProjectDelayed:
			sum.Delayed++
		default:
			sum.InProgress++
		}
	}
	return sum
}

// Attach subscribes the notifier to svc. The returned function detaches it.
func (n *Notifier) Attach(svc *application.BoardService) func() {
	return svc.Subscribe(func(snap *application.Snapshot) {
		n.Notify(context.Background(), Payload{
			EventType: EventReloaded,
			Timestamp: snap.LoadedAt,
			Data:      Summarize(snap),
		})
	})
}

// Notify sends payload to every enabled endpoint in the background.
func (n *Notifier) Notify(ctx context.Context, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("encode webhook payload", "error", err)
		return
	}

	for _, ep := range n.endpoints {
		if ep.Disabled || ep.URL == "" {
			continue
		}
		n.wg.Add(1)
		go func(ep config.Endpoint) {
			defer n.wg.Done()
			n.deliver(ctx, ep, payload.EventType, body)
		}(ep)
	}
}

// Wait blocks until every pending delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, ep config.Endpoint, eventType string, body []byte) {
	attempts := ep.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	delay := ep.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}

	r := retry.New[struct{}](retry.Config{
		MaxAttempts:   attempts,
		InitialDelay:  delay,
		BackoffPolicy: retry.BackoffExponential,
	})
	_, err := r.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.send(ctx, ep, body)
	})
	if err == nil {
		n.logger.Debug("webhook delivered", "webhook", ep.Name, "event", eventType)
		return
	}

	n.logger.Warn("webhook delivery failed", "webhook", ep.Name, "url", ep.URL, "error", err)
	if n.deadLetter == nil {
		return
	}
	dl := DeadLetter{
		Timestamp:   time.Now(),
		WebhookName: ep.Name,
		URL:         ep.URL,
		EventType:   eventType,
		Payload:     string(body),
		Error:       err.Error(),
		Attempts:    attempts,
	}
	if err := n.deadLetter.Append(dl); err != nil {
		n.logger.Error("write dead letter", "error", err)
	}
}

func (n *Notifier) send(ctx context.Context, ep config.Endpoint, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Timeboard-Webhook/1.0")
	if ep.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(body, ep.Secret))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign computes the HMAC-SHA256 signature of payload sent in SignatureHeader.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

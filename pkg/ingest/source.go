package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/tidwall/jsonc"
	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

const (
	DefaultFetchTimeout = 30 * time.Second
	maxDocumentSize     = 64 << 20
)

// documentSchema only pins the top-level shape; individual records are
// checked by the mapper.
var documentSchema = gojsonschema.NewStringLoader(`{"type": "array"}`)

// Source produces the raw export document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(location string) Source {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, nil)
	}
	return FileSource{Path: location}
}

// FileSource reads the document from disk.
type FileSource struct {
	Path string
}

func (s FileSource) String() string { return s.Path }

func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// #nosec G304 -- the data path is chosen by the operator
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, &board.LoadError{Source: s.Path, Err: fmt.Errorf("%w: %v", board.ErrSourceUnavailable, err)}
	}
	return data, nil
}

// HTTPSource downloads the document with retries and an overall timeout.
type HTTPSource struct {
	URL      string
	client   *http.Client
	retryCfg retry.Config
	timeout  time.Duration
	maxSize  int64
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		URL:    url,
		client: client,
		retryCfg: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  200 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
			// Refetching an oversized document cannot help.
			NonRetryableErrors: []error{board.ErrTooLarge},
		},
		timeout: DefaultFetchTimeout,
		maxSize: maxDocumentSize,
	}
}

// WithTimeout overrides the overall fetch timeout, retries included.
func (s *HTTPSource) WithTimeout(d time.Duration) *HTTPSource {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithMaxSize overrides the largest accepted body in bytes.
func (s *HTTPSource) WithMaxSize(n int64) *HTTPSource {
	if n > 0 {
		s.maxSize = n
	}
	return s
}

// WithRetry overrides the retry policy.
func (s *HTTPSource) WithRetry(cfg retry.Config) *HTTPSource {
	s.retryCfg = cfg
	return s
}

func (s *HTTPSource) String() string { return s.URL }

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	r := retry.New[[]byte](s.retryCfg)
	t := timeout.New[[]byte](timeout.Config{
		DefaultTimeout: s.timeout,
	})

	return t.Execute(ctx, s.timeout, func(ctx context.Context) ([]byte, error) {
		return r.Do(ctx, s.fetchOnce)
	})
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &board.LoadError{Source: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &board.LoadError{Source: s.URL, Err: fmt.Errorf("%w: %v", board.ErrSourceUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &board.LoadError{
			Source: s.URL,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%w: %s", board.ErrSourceUnavailable, http.StatusText(resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		return nil, &board.LoadError{Source: s.URL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > s.maxSize {
		return nil, &board.LoadError{Source: s.URL, Err: fmt.Errorf("%w: more than %d bytes", board.ErrTooLarge, s.maxSize)}
	}
	return data, nil
}

// Decode parses the export document. Comments and trailing commas are
// tolerated; anything other than a top-level array is rejected with
// board.ErrNotArray. Numbers are kept as json.Number so ids are not
// rewritten in float notation.
func Decode(data []byte) ([]any, error) {
	clean := jsonc.ToJSON(data)

	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(clean))
	if err != nil {
		return nil, fmt.Errorf("JSON syntax error: %w", err)
	}
	if !result.Valid() {
		return nil, board.ErrNotArray
	}

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.UseNumber()
	var records []any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("JSON syntax error: %w", err)
	}
	return records, nil
}

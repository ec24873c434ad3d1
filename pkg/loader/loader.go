// Package loader fetches remote schema documents and classifies failures so
// callers can pick a headline message without parsing error strings. A new
// load obsoletes any prior in-flight request; stale results are discarded by
// request identity, not just abort signaling, since some failures are not
// observable as aborts.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/schema"
	"github.com/goliatone/go-formview/pkg/validate"
)

// ErrorKind classifies a load failure.
type ErrorKind string

const (
	KindInvalidURL  ErrorKind = "invalid-url"
	KindHTTP        ErrorKind = "http"
	KindNetwork     ErrorKind = "network"
	KindAborted     ErrorKind = "aborted"
	KindInvalidJSON ErrorKind = "invalid-json"
	KindValidation  ErrorKind = "validation"
)

// Error is a classified load failure. Detail carries raw diagnostics that
// presenters must suppress in production-like contexts.
type Error struct {
	Kind   ErrorKind
	Status int
	Detail string
	err    error
}

// Error implements error.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("loader: %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("loader: %s", e.Kind)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error { return e.err }

// Headline returns the user-facing message for the error kind.
func (e *Error) Headline() string {
	switch e.Kind {
	case KindInvalidURL:
		return "The schema address is not valid."
	case KindHTTP:
		return fmt.Sprintf("The schema server responded with an error (%d).", e.Status)
	case KindNetwork:
		return "The schema could not be reached."
	case KindAborted:
		return "The schema request was cancelled."
	case KindInvalidJSON:
		return "The schema response is not valid JSON."
	case KindValidation:
		return "The schema failed validation."
	default:
		return "The schema could not be loaded."
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithBaseURL resolves "/"-relative schema URLs against base.
func WithBaseURL(base string) Option {
	return func(l *Loader) {
		l.base = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		l.timeout = timeout
	}
}

// WithDiagnostics routes discard and advisory events to the provided sink.
func WithDiagnostics(sink diag.Sink) Option {
	return func(l *Loader) {
		if sink != nil {
			l.sink = sink
		}
	}
}

// Loader performs GET requests for schema documents. Safe for concurrent use;
// only the most recently issued request may deliver a result.
type Loader struct {
	client  *http.Client
	base    string
	timeout time.Duration
	sink    diag.Sink

	mu      sync.Mutex
	current uuid.UUID
	cancel  context.CancelFunc
}

// New constructs a Loader with a default client and a 15s timeout.
func New(options ...Option) *Loader {
	l := &Loader{
		client:  &http.Client{},
		timeout: 15 * time.Second,
		sink:    diag.Nop{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches, parses, and validates the schema document at rawURL. The URL
// must be "/"-relative or absolute http(s); protocol-relative "//" forms are
// rejected. Starting a new load cancels and supersedes any in-flight one.
func (l *Loader) Load(ctx context.Context, rawURL string) (schema.Document, error) {
	target, err := l.resolveURL(rawURL)
	if err != nil {
		return schema.Document{}, err
	}

	id := uuid.New()
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.current = id
	l.cancel = cancel
	l.mu.Unlock()

	doc, loadErr := l.fetch(reqCtx, target)
	cancel()

	// Identity check: a newer request may have started while this one ran,
	// and not every supersession failure surfaces as a context error.
	l.mu.Lock()
	stale := l.current != id
	l.mu.Unlock()
	if stale {
		l.sink.Warn("stale schema load discarded", "url", target)
		return schema.Document{}, &Error{Kind: KindAborted, Detail: "superseded by a newer request"}
	}
	if loadErr != nil {
		return schema.Document{}, loadErr
	}
	return doc, nil
}

func (l *Loader) resolveURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	switch {
	case trimmed == "":
		return "", &Error{Kind: KindInvalidURL, Detail: "url is empty"}
	case strings.HasPrefix(trimmed, "//"):
		return "", &Error{Kind: KindInvalidURL, Detail: "protocol-relative urls are not allowed"}
	case strings.HasPrefix(trimmed, "/"):
		if l.base == "" {
			return "", &Error{Kind: KindInvalidURL, Detail: "relative url without a configured base"}
		}
		return l.base + trimmed, nil
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return trimmed, nil
	default:
		return "", &Error{Kind: KindInvalidURL, Detail: "url must be /-relative or http(s)"}
	}
}

func (l *Loader) fetch(ctx context.Context, target string) (schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return schema.Document{}, &Error{Kind: KindInvalidURL, Detail: err.Error(), err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return schema.Document{}, &Error{Kind: KindAborted, Detail: err.Error(), err: err}
		}
		return schema.Document{}, &Error{Kind: KindNetwork, Detail: err.Error(), err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return schema.Document{}, &Error{
			Kind:   KindHTTP,
			Status: resp.StatusCode,
			Detail: "unexpected status " + resp.Status,
		}
	}
	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		if media, _, err := mime.ParseMediaType(contentType); err == nil {
			if media != "application/json" && !strings.HasSuffix(media, "+json") {
				l.sink.Warn("schema response content-type is not json", "contentType", media)
			}
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.Document{}, &Error{Kind: KindNetwork, Detail: err.Error(), err: err}
	}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return schema.Document{}, &Error{Kind: KindInvalidJSON, Detail: err.Error(), err: err}
	}

	payload, err := schema.ParsePayload(data)
	if err != nil {
		return schema.Document{}, &Error{Kind: KindInvalidJSON, Detail: err.Error(), err: err}
	}
	if result := validate.Document(payload); !result.Valid() {
		return schema.Document{}, &Error{Kind: KindValidation, Detail: result.Summary()}
	}

	doc, err := schema.Decode(payload)
	if err != nil {
		return schema.Document{}, &Error{Kind: KindValidation, Detail: err.Error(), err: err}
	}
	return doc, nil
}

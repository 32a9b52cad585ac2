package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/pipeline"
)

const chart = `
width = 320
height = 240

[[panels]]
  [[panels.series]]
  name = "a"
  x = [0, 1, 2]
  y = [1, 4, 2]
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{Runner: pipeline.NewRunner(fc, nil, logger), Logger: logger})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var info map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("GET /version = %v, want version and go_version", info)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query       string
		contentType string
		prefix      string
	}{
		{"", "image/svg+xml", "<"},
		{"?format=svg", "image/svg+xml", "<"},
		{"?format=png", "image/png", "\x89PNG"},
		{"?format=json", "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/render"+tt.query, "application/toml", strings.NewReader(chart))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if _, err := uuid.Parse(resp.Header.Get("X-Render-ID")); err != nil {
				t.Errorf("X-Render-ID = %q is not a uuid", resp.Header.Get("X-Render-ID"))
			}
			if !bytes.HasPrefix(body, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", body[:min(8, len(body))], tt.prefix)
			}
		})
	}
}

func TestRenderCacheHeader(t *testing.T) {
	ts := newTestServer(t)

	states := make([]string, 2)
	for i := range states {
		resp, err := http.Post(ts.URL+"/render?format=svg&width=400", "application/toml", strings.NewReader(chart))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		states[i] = resp.Header.Get("X-Cache")
	}
	if states[0] != "miss" || states[1] != "hit" {
		t.Errorf("X-Cache = %v, want [miss hit]", states)
	}
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"bad format", "?format=gif", chart, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad width", "?width=wide", chart, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad scale", "?scale=-1", chart, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty body", "", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad toml", "", "width = ", http.StatusBadRequest, "INVALID_CHART"},
		{"invalid chart", "", "width = -1", http.StatusBadRequest, "INVALID_CHART"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/render"+tt.query, "application/toml", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestRenderBodyLimit(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{Logger: logger, MaxBody: 16})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/render", "application/toml", strings.NewReader(chart))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/render")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /render status = %d, want 405", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	mu        sync.Mutex
	requests  []string
	responses []int
}

func (h *recordingHTTPHooks) OnRequest(_ context.Context, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestHTTPHooks(t *testing.T) {
	h := &recordingHTTPHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) != 1 || h.requests[0] != "GET /healthz" {
		t.Errorf("requests = %v, want [GET /healthz]", h.requests)
	}
	if len(h.responses) != 1 || h.responses[0] != http.StatusOK {
		t.Errorf("responses = %v, want [200]", h.responses)
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(Config{Addr: "127.0.0.1:0", Logger: logger})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package dataapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

const apiPrefix = "/mt-data-api.cgi/v4/"

// capturedRequest is what the fake Data API saw
type capturedRequest struct {
	Method   string
	Path     string
	Query    url.Values
	Header   http.Header
	PostForm url.Values
	Body     string
}

// fakeAPI records requests and answers them with a fixed response
type fakeAPI struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
	body     string
	server   *httptest.Server
}

func newFakeAPI(t *testing.T, status int, body string) *fakeAPI {
	t.Helper()

	f := &fakeAPI{status: status, body: body}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{
			Method: r.Method,
			Path:   strings.TrimPrefix(r.URL.Path, apiPrefix),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), formContentType) {
			_ = r.ParseForm()
			captured.PostForm = r.PostForm
		} else {
			raw, _ := io.ReadAll(r.Body)
			captured.Body = string(raw)
		}

		f.mu.Lock()
		f.requests = append(f.requests, captured)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = io.WriteString(w, f.body)
	}))
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeAPI) URL() string {
	return f.server.URL + apiPrefix
}

func (f *fakeAPI) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeAPI) last(t *testing.T) capturedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request captured")
	}
	return f.requests[len(f.requests)-1]
}

func newTestClient(f *fakeAPI, opts ...Option) *Client {
	opts = append([]Option{WithLogger(zerolog.Nop())}, opts...)
	return New("melody", "secret", f.URL(), opts...)
}

// syncBuffer is a goroutine safe log sink
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

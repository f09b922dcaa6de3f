package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Fixture is a canned HTTP response served by the Interceptor.
type Fixture struct {
	Status int
	Body   string
	Header http.Header
}

// Interceptor is an http.RoundTripper that answers registered routes with
// fixtures instead of touching the network. Registration is shared state, so
// tests call Reset before and after use to avoid leaking fixtures across
// cases.
type Interceptor struct {
	mu       sync.Mutex
	fixtures map[string]Fixture
	requests []RecordedRequest
}

func NewInterceptor() *Interceptor {
	return &Interceptor{
		mu:       sync.Mutex{},
		fixtures: make(map[string]Fixture),
		requests: nil,
	}
}

func (i *Interceptor) Register(method, path string, fixture Fixture) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.fixtures[method+" "+path] = fixture
}

func (i *Interceptor) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.fixtures = make(map[string]Fixture)
	i.requests = nil
}

func (i *Interceptor) Requests() []RecordedRequest {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]RecordedRequest(nil), i.requests...)
}

// Client returns an HTTP client routed through the interceptor.
func (i *Interceptor) Client() *http.Client {
	return &http.Client{Transport: i} //nolint:exhaustruct
}

func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	i.mu.Lock()
	i.requests = append(i.requests, RecordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	fixture, ok := i.fixtures[req.Method+" "+req.URL.Path]
	i.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("testutil: no fixture registered for %s %s", req.Method, req.URL.Path)
	}

	header := fixture.Header
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{ //nolint:exhaustruct
		StatusCode: fixture.Status,
		Status:     http.StatusText(fixture.Status),
		Header:     header.Clone(),
		Body:       io.NopCloser(bytes.NewReader([]byte(fixture.Body))),
		Request:    req,
	}, nil
}

// Package estest provides a recording http.RoundTripper that answers like an
// Elasticsearch node, for tests that exercise the real client without a cluster.
package estest

import (
	"bufio"
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"
)

type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   []byte
}

// Lines splits an NDJSON body into its non empty lines.
func (r Request) Lines() []string {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(r.Body))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out
}

type Response struct {
	Status int
	Body   string
}

// Responder chooses the reply for a request. Returning a zero Response
// answers 200 with an empty object.
type Responder func(req Request) Response

type Transport struct {
	mu        sync.Mutex
	requests  []Request
	responder Responder
}

func New(responder Responder) *Transport {
	return &Transport{responder: responder}
}

func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string]string{},
	}
	for k := range r.URL.Query() {
		req.Query[k] = r.URL.Query().Get(k)
	}
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		_ = r.Body.Close()
		req.Body = b
	}

	t.mu.Lock()
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	resp := Response{}
	if t.responder != nil {
		resp = t.responder(req)
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}
	if resp.Body == "" {
		resp.Body = "{}"
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")

	return &http.Response{
		StatusCode: resp.Status,
		Status:     http.StatusText(resp.Status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(resp.Body)),
		Request:    r,
	}, nil
}

// Requests returns a copy of everything sent so far.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Request(nil), t.requests...)
}

func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = nil
}

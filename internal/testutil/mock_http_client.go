package testutil

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/flexprice/productcatalog/internal/httpclient"
)

// MockHTTPClient implements a mock HTTP client for testing
type MockHTTPClient struct {
	mu       sync.RWMutex
	routes   map[string][]MockResponse
	requests []httpclient.Request
}

// MockResponse represents a mock HTTP response
type MockResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string]string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient() *MockHTTPClient {
	return &MockHTTPClient{
		routes: make(map[string][]MockResponse),
	}
}

// RegisterResponse registers a mock response for a given URL suffix
func (m *MockHTTPClient) RegisterResponse(url string, resp MockResponse) {
	m.RegisterResponses(url, resp)
}

// RegisterResponses queues responses for a URL suffix. Each call consumes one
// response; the last one keeps being returned.
func (m *MockHTTPClient) RegisterResponses(url string, resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[url] = append([]MockResponse(nil), resps...)
}

// RegisterJSONResponse registers a 200 response with a JSON body
func (m *MockHTTPClient) RegisterJSONResponse(url string, body []byte) {
	m.RegisterResponse(url, MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	})
}

// Send implements the httpclient.Client interface
func (m *MockHTTPClient) Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, *req)

	// longest matching suffix wins so overlapping routes stay deterministic
	var route string
	for r := range m.routes {
		if strings.HasSuffix(req.URL, r) && len(r) > len(route) {
			route = r
		}
	}

	queue, found := m.routes[route]
	if !found || len(queue) == 0 {
		return nil, httpclient.NewError(http.StatusNotFound, []byte("Not Found"))
	}

	resp := queue[0]
	if len(queue) > 1 {
		m.routes[route] = queue[1:]
	}

	if resp.StatusCode >= 400 {
		return nil, httpclient.NewError(resp.StatusCode, resp.Body)
	}

	return &httpclient.Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    resp.Headers,
	}, nil
}

// Requests returns a copy of every request sent so far
func (m *MockHTTPClient) Requests() []httpclient.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]httpclient.Request(nil), m.requests...)
}

// Clear removes all registered responses
func (m *MockHTTPClient) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string][]MockResponse)
	m.requests = nil
}

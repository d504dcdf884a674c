package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest is a request the mock received.
type RecordedRequest struct {
	Header http.Header
	Query  map[string]string
	Body   map[string]any
}

type stubResponse struct {
	status int
	body   any
}

// ApiMock is a scriptable HTTP server standing in for external APIs such as
// the identity provider's JWKS endpoint. Responses are keyed by method and path.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string][]stubResponse
	fallback  map[string]stubResponse
	received  map[string][]RecordedRequest
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		responses: map[string][]stubResponse{},
		fallback:  map[string]stubResponse{},
		received:  map[string][]RecordedRequest{},
	}
}

// Start begins serving on a random local port.
func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.serve))
}

// Close shuts the server down.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	if a.server == nil {
		return ""
	}
	return a.server.URL
}

// SetResponse scripts the response to the index-th call of method and path.
// An index of -1 sets the response used once scripted calls run out.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + " " + path
	stub := stubResponse{status: status, body: response}
	if index < 0 {
		a.fallback[key] = stub
		return
	}
	for len(a.responses[key]) <= index {
		a.responses[key] = append(a.responses[key], stubResponse{})
	}
	a.responses[key][index] = stub
}

// Requests returns what was received for method and path, in order.
func (a *ApiMock) Requests(method, path string) []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]RecordedRequest(nil), a.received[method+" "+path]...)
}

// Reset forgets scripted responses and received requests.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string][]stubResponse{}
	a.fallback = map[string]stubResponse{}
	a.received = map[string][]RecordedRequest{}
}

func (a *ApiMock) serve(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	index := len(a.received[key])

	recorded := RecordedRequest{Header: r.Header.Clone(), Query: map[string]string{}, Body: map[string]any{}}
	for name, values := range r.URL.Query() {
		recorded.Query[name] = values[0]
	}
	if raw, err := io.ReadAll(r.Body); err == nil && len(raw) > 0 {
		_ = json.Unmarshal(raw, &recorded.Body)
	}
	a.received[key] = append(a.received[key], recorded)

	stub, ok := a.fallback[key]
	if scripted := a.responses[key]; index < len(scripted) && scripted[index].status != 0 {
		stub, ok = scripted[index], true
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stub.status)
	_ = json.NewEncoder(w).Encode(stub.body)
}

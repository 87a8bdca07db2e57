package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/junyouava/openapi-sdk-go/signature"
)

// ErrCodeSignatureInvalid is the err_code returned for requests that fail
// signature verification.
const ErrCodeSignatureInvalid = "SIGNATURE_INVALID"

// Reply is a scripted response.
type Reply struct {
	Status int
	Body   string
}

// RecordedRequest is a request received by the MockServer.
type RecordedRequest struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	AccessID string
	// VerifyErr is the signature verification failure, nil when accepted.
	VerifyErr error
}

// DecodeBody unmarshals the recorded JSON body into v.
func (r RecordedRequest) DecodeBody(v any) error {
	return json.Unmarshal(r.Body, v)
}

// MockServer is a fake OpenAPI server. It verifies every request with a
// signature.Verifier and answers with replies scripted per method and
// path. Queued replies are served in order; the last one repeats.
type MockServer struct {
	verifier *signature.Verifier
	engine   *gin.Engine
	server   *httptest.Server

	mu       sync.Mutex
	routes   map[string][]Reply
	requests []RecordedRequest
}

// NewMockServer creates a server accepting requests signed with creds.
// Without credentials signature verification is disabled.
// Call Start (or use StartMockServer) before sending requests.
func NewMockServer(creds ...signature.Credentials) *MockServer {
	gin.SetMode(gin.TestMode)
	m := &MockServer{routes: make(map[string][]Reply)}
	if len(creds) > 0 {
		m.verifier = signature.NewVerifier(signature.StaticSecrets(creds...))
	}
	m.engine = gin.New()
	m.engine.Use(gin.Recovery())
	m.engine.Any("/*path", m.handle)
	return m
}

// Name implements TestComponent.
func (m *MockServer) Name() string { return "openapi-mock-server" }

// Start begins listening on a loopback port.
func (m *MockServer) Start(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server != nil {
		return fmt.Errorf("mock server already started")
	}
	m.server = httptest.NewServer(m.engine)
	return nil
}

// Stop shuts the server down.
func (m *MockServer) Stop(_ context.Context) error {
	m.mu.Lock()
	srv := m.server
	m.server = nil
	m.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Reset drops scripted replies and recorded requests.
func (m *MockServer) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = make(map[string][]Reply)
	m.requests = nil
	return nil
}

// Snapshot captures the scripted replies.
func (m *MockServer) Snapshot(_ context.Context) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyRoutes(m.routes), nil
}

// Restore reinstates replies captured by Snapshot.
func (m *MockServer) Restore(_ context.Context, snapshot interface{}) error {
	routes, ok := snapshot.(map[string][]Reply)
	if !ok {
		return fmt.Errorf("invalid snapshot type %T", snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = copyRoutes(routes)
	return nil
}

// URL returns the server base URL, empty before Start.
func (m *MockServer) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.server == nil {
		return ""
	}
	return m.server.URL
}

// Reply queues a raw response for method and path.
func (m *MockServer) Reply(method, path string, status int, body string) *MockServer {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := routeKey(method, path)
	m.routes[key] = append(m.routes[key], Reply{Status: status, Body: body})
	return m
}

// ReplyJSON queues a JSON encoded response for method and path.
func (m *MockServer) ReplyJSON(method, path string, status int, v any) *MockServer {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: encode reply: %v", err))
	}
	return m.Reply(method, path, status, string(data))
}

// ReplyResult queues a 200 response in the wrapped envelope shape.
func (m *MockServer) ReplyResult(method, path string, success bool, errCode, message string, data any) *MockServer {
	return m.ReplyJSON(method, path, http.StatusOK, gin.H{"result": gin.H{
		"success":  success,
		"code":     http.StatusOK,
		"err_code": errCode,
		"message":  message,
		"data":     data,
	}})
}

// Requests returns a copy of the recorded requests.
func (m *MockServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request, or false when none arrived.
func (m *MockServer) LastRequest() (RecordedRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

func (m *MockServer) handle(c *gin.Context) {
	body, _ := c.GetRawData()
	rec := RecordedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Headers: c.Request.Header.Clone(),
		Body:    body,
	}

	if m.verifier != nil {
		rec.AccessID, rec.VerifyErr = m.verifier.Verify(c.Request.Header, rec.Method, rec.Path)
	}
	reply, found := m.record(rec)

	switch {
	case rec.VerifyErr != nil:
		c.JSON(http.StatusUnauthorized, gin.H{"result": gin.H{
			"success":  false,
			"code":     http.StatusUnauthorized,
			"err_code": ErrCodeSignatureInvalid,
			"message":  rec.VerifyErr.Error(),
		}})
	case !found:
		c.JSON(http.StatusNotFound, gin.H{
			"success":  false,
			"code":     http.StatusNotFound,
			"err_code": "NOT_FOUND",
			"message":  "no reply scripted for " + routeKey(rec.Method, rec.Path),
		})
	default:
		c.Data(reply.Status, "application/json", []byte(reply.Body))
	}
}

// record stores rec and pops the next scripted reply for its route.
func (m *MockServer) record(rec RecordedRequest) (Reply, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, rec)
	if rec.VerifyErr != nil {
		return Reply{}, false
	}

	key := routeKey(rec.Method, rec.Path)
	queue := m.routes[key]
	if len(queue) == 0 {
		return Reply{}, false
	}
	if len(queue) > 1 {
		m.routes[key] = queue[1:]
	}
	return queue[0], true
}

func routeKey(method, path string) string {
	return method + " " + path
}

func copyRoutes(routes map[string][]Reply) map[string][]Reply {
	out := make(map[string][]Reply, len(routes))
	for k, v := range routes {
		out[k] = append([]Reply(nil), v...)
	}
	return out
}

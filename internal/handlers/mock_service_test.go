package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"insulin_drip/internal/models"
	"insulin_drip/internal/service"
	"insulin_drip/internal/titration"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCalculator struct {
	resp    service.Recommendation
	err     error
	lastReq titration.Request
	calls   int
}

func (m *mockCalculator) Recommend(req titration.Request) (service.Recommendation, error) {
	m.calls++
	m.lastReq = req
	return m.resp, m.err
}

type mockInfusion struct {
	decision service.Decision
	state    models.InfusionState
	err      error

	lastPatient string
	lastParams  service.ReadingParams
	startCalls  int
	readCalls   int
	stopCalls   int
}

func (m *mockInfusion) Start(_ context.Context, id string, p service.ReadingParams) (service.Decision, error) {
	m.startCalls++
	m.lastPatient, m.lastParams = id, p
	return m.decision, m.err
}
func (m *mockInfusion) RecordReading(_ context.Context, id string, p service.ReadingParams) (service.Decision, error) {
	m.readCalls++
	m.lastPatient, m.lastParams = id, p
	return m.decision, m.err
}
func (m *mockInfusion) Stop(_ context.Context, id string) (models.InfusionState, error) {
	m.stopCalls++
	m.lastPatient = id
	return m.state, m.err
}

type mockMonitoring struct {
	mu       sync.Mutex
	state    models.InfusionState
	readings []models.BgEntry
	err      error

	lastPatient string
	lastLimit   int
}

func (m *mockMonitoring) GetState(_ context.Context, id string) (models.InfusionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPatient = id
	return m.state, m.err
}
func (m *mockMonitoring) Readings(_ context.Context, id string, limit int) ([]models.BgEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPatient, m.lastLimit = id, limit
	return m.readings, m.err
}

type mockEventLog struct {
	resp       []models.InfusionEvent
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(_ context.Context, f service.LogFilter) ([]models.InfusionEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// do sends one request through r, with a bearer token when token is set.
func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal error body %q: %v", w.Body.String(), err)
	}
	return out.Error
}

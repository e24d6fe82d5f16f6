package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialPatient(t *testing.T, srv *httptest.Server, patient string, query url.Values) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws/patients/" + patient
	u.RawQuery = query.Encode()
	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	return dialer.Dial(u.String(), nil)
}

func TestWebSocket_StateStream_InitialAndPeriodic(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	mon := &mockMonitoring{state: models.InfusionState{
		PatientID: "bed-3",
		IsRunning: true,
		Rate:      3.5,
		LastBG:    212,
	}}
	auth := &mockAuth{parseID: 1}
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: auth, Monitoring: mon}))
	defer srv.Close()

	conn, _, err := dialPatient(t, srv, "bed-3", url.Values{
		"interval_ms":  {"20"},
		"access_token": {"tok"},
	})
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != msgTypeState || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var st models.InfusionState
	if err := json.Unmarshal(env.Data, &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.PatientID != "bed-3" || st.Rate != 3.5 || !st.IsRunning {
		t.Fatalf("unexpected state: %+v", st)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != msgTypeState {
		t.Fatalf("expected type=state, got %+v", env)
	}

	mon.mu.Lock()
	gotPatient := mon.lastPatient
	mon.mu.Unlock()
	if gotPatient != "bed-3" || auth.lastParseToken != "tok" {
		t.Fatalf("patient=%q token=%q", gotPatient, auth.lastParseToken)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
}

func TestWebSocket_RequiresToken(t *testing.T) {
	auth := &mockAuth{parseErr: errors.New("expired")}
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: auth, Monitoring: &mockMonitoring{}}))
	defer srv.Close()

	_, resp, err := dialPatient(t, srv, "bed-3", url.Values{"access_token": {"old"}})
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWebSocket_InitialGetStateError_SendsErrorAndCloses(t *testing.T) {
	mon := &mockMonitoring{err: errors.New("boom")}
	srv := httptest.NewServer(newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: mon}))
	defer srv.Close()

	conn, _, err := dialPatient(t, srv, "bed-3", url.Values{"access_token": {"tok"}})
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read error envelope: %v", err)
	}
	if env.Type != msgTypeError || env.Error != errGetState {
		t.Fatalf("unexpected envelope: %+v", env)
	}

	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}

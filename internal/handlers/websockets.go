package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	msgTypeState = "state"
	msgTypeError = "error"
)

type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Bedside dashboards are served from other origins; the route itself is
// token protected.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Stream infusion state
// @Description  WebSocket. Sends {"type":"state","data":InfusionState} every interval (interval=2s or interval_ms=2000, max 10s).
// @Tags         infusion
// @Param        id            path   string  true   "Patient id"
// @Param        interval      query  string  false  "Go duration, e.g. 2s"
// @Param        interval_ms   query  int     false  "Interval in milliseconds"
// @Param        access_token  query  string  false  "JWT when the Authorization header cannot be set"
// @Router       /ws/patients/{id} [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)
	patientID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err, "patient", patientID)
		return
	}
	st := &stateStream{h: h, conn: conn, patientID: patientID}
	st.serve(c.Request.Context(), interval)
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// stateStream pushes one patient's infusion state over a single connection.
type stateStream struct {
	h         *Handler
	conn      *websocket.Conn
	patientID string
}

func (s *stateStream) serve(ctx context.Context, interval time.Duration) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go s.drain(closed)
	defer func() {
		_ = s.conn.Close()
		<-closed
	}()

	push := time.NewTicker(interval)
	defer push.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := s.pushState(ctx); err != nil {
		s.h.log.Infow("ws_write_failed_initial", "err", err, "patient", s.patientID)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.h.log.Infow("ws_ping_failed", "err", err, "patient", s.patientID)
				return
			}
		case <-push.C:
			if err := s.pushState(ctx); err != nil {
				s.h.log.Infow("ws_write_failed", "err", err, "patient", s.patientID)
				return
			}
		}
	}
}

// drain reads until the peer goes away so pongs and close frames are handled.
func (s *stateStream) drain(closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// pushState writes the current state, or an error envelope when the lookup
// fails.
func (s *stateStream) pushState(ctx context.Context) error {
	state, err := s.h.services.Monitoring.GetState(ctx, s.patientID)
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		s.h.log.Errorw("ws_get_state_failed", "err", err, "patient", s.patientID)
		_ = s.conn.WriteJSON(wsEnvelope{Type: msgTypeError, Error: errGetState})
		return err
	}
	return s.conn.WriteJSON(wsEnvelope{Type: msgTypeState, Data: state})
}

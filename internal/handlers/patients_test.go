package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"insulin_drip/internal/models"
	"insulin_drip/internal/service"
	"insulin_drip/internal/titration"
)

func TestInfusionHandlers_StartAndReading(t *testing.T) {
	dose := 2.5
	inf := &mockInfusion{decision: service.Decision{
		Recommendation: service.Recommendation{
			Result: titration.Result{Adjustment: titration.Immediate(2.5), NextCheckMinutes: 60, Dose: &dose},
		},
		State: models.InfusionState{PatientID: "bed-7", IsRunning: true, Rate: 2.5},
	}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Infusion: inf})

	w := do(r, http.MethodPost, "/api/v1/patients/bed-7/infusion/start", `{"bg":245,"at":"2025-03-01T06:00:00Z"}`, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("start status=%d, body=%s", w.Code, w.Body.String())
	}
	if inf.startCalls != 1 || inf.lastPatient != "bed-7" || inf.lastParams.BG != 245 {
		t.Fatalf("unexpected Start call: %+v", inf)
	}
	if !inf.lastParams.At.Equal(time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("at = %v", inf.lastParams.At)
	}
	var out struct {
		Dose  *float64             `json:"dose"`
		State models.InfusionState `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Dose == nil || *out.Dose != 2.5 || !out.State.IsRunning {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/patients/bed-7/readings", `{"bg":0}`, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("reading status=%d, body=%s", w.Code, w.Body.String())
	}
	if inf.readCalls != 1 || inf.lastParams.BG != 0 || !inf.lastParams.At.IsZero() {
		t.Fatalf("unexpected RecordReading params: %+v", inf.lastParams)
	}
}

func TestInfusionHandlers_BodyValidation(t *testing.T) {
	inf := &mockInfusion{}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Infusion: inf})

	for _, body := range []string{`{}`, `{"bg":"high"}`, `{"bg":200,"at":"yesterday"}`} {
		w := do(r, http.MethodPost, "/api/v1/patients/p1/readings", body, "valid")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status=%d", body, w.Code)
		}
	}
	if inf.readCalls != 0 {
		t.Fatalf("service should not be called, got %d calls", inf.readCalls)
	}
}

func TestInfusionHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrInfusionRunning, http.StatusConflict},
		{service.ErrInfusionNotRunning, http.StatusConflict},
		{service.ErrPatientNotFound, http.StatusNotFound},
		{service.ErrReadingOutOfOrder, http.StatusBadRequest},
		{fmt.Errorf("current_bg -1 is negative: %w", titration.ErrInvalidInput), http.StatusBadRequest},
		{errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			inf := &mockInfusion{err: tc.err}
			r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Infusion: inf})

			w := do(r, http.MethodPost, "/api/v1/patients/p1/readings", `{"bg":180}`, "valid")
			if w.Code != tc.code {
				t.Fatalf("status=%d, want %d", w.Code, tc.code)
			}
			want := tc.err.Error()
			if tc.code == http.StatusInternalServerError {
				want = errRecordReading
			}
			if got := errorBody(t, w); got != want {
				t.Fatalf("error = %q, want %q", got, want)
			}
		})
	}
}

func TestInfusionHandlers_Stop(t *testing.T) {
	inf := &mockInfusion{state: models.InfusionState{PatientID: "p1"}}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Infusion: inf})

	w := do(r, http.MethodPost, "/api/v1/patients/p1/infusion/stop", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("stop status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Status string               `json:"status"`
		State  models.InfusionState `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusStopped || resp.State.PatientID != "p1" || inf.stopCalls != 1 {
		t.Fatalf("unexpected stop response: %+v", resp)
	}

	inf.err = service.ErrInfusionNotRunning
	w = do(r, http.MethodPost, "/api/v1/patients/p1/infusion/stop", "", "valid")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestMonitoringHandlers(t *testing.T) {
	mon := &mockMonitoring{
		state:    models.InfusionState{PatientID: "bed-2", IsRunning: true, Rate: 4},
		readings: []models.BgEntry{{ID: "r2", BG: 180}, {ID: "r1", BG: 210}},
	}
	r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: mon})

	w := do(r, http.MethodGet, "/api/v1/patients/bed-2/infusion/state", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/patients/bed-2/infusion/state", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.InfusionState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Rate != 4 || !st.IsRunning || mon.lastPatient != "bed-2" {
		t.Fatalf("unexpected state: %+v", st)
	}

	w = do(r, http.MethodGet, "/api/v1/patients/bed-2/readings?limit=2", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("readings status=%d", w.Code)
	}
	var list struct {
		Count    int              `json:"count"`
		Readings []models.BgEntry `json:"readings"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if list.Count != 2 || mon.lastLimit != 2 {
		t.Fatalf("unexpected readings response %+v (limit %d)", list, mon.lastLimit)
	}

	w = do(r, http.MethodGet, "/api/v1/patients/bed-2/readings?limit=-1", "", "valid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", w.Code)
	}

	mon.err = errors.New("boom")
	w = do(r, http.MethodGet, "/api/v1/patients/bed-2/infusion/state", "", "valid")
	if w.Code != http.StatusInternalServerError || errorBody(t, w) != errGetState {
		t.Fatalf("expected masked 500, got %d %s", w.Code, w.Body.String())
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := do(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

package titration

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide_Initial(t *testing.T) {
	res, err := Decide(InitialRequest(350))
	require.NoError(t, err)
	require.NotNil(t, res.Dose)
	assert.Equal(t, 3.5, *res.Dose)
	assert.Equal(t, Immediate(3.5), res.Adjustment)
	assert.False(t, res.AtTarget)
	assert.Equal(t, 60, res.NextCheckMinutes)
}

func TestDecide_InitialLowBGStillDoses(t *testing.T) {
	res, err := Decide(InitialRequest(80))
	require.NoError(t, err)
	require.NotNil(t, res.Dose)
	assert.Equal(t, 1.0, *res.Dose)
	assert.Equal(t, 15, res.NextCheckMinutes)
}

func TestDecide_Ongoing(t *testing.T) {
	cases := []struct {
		name      string
		req       Request
		want      Adjustment
		atTarget  bool
		nextCheck int
	}{
		{"above 200 rising", OngoingRequest(250, 3, 10, 0), Immediate(5), false, 60},
		{"target stable", OngoingRequest(140, 3, 0, 2), Immediate(3), true, 120},
		{"target edge 160", OngoingRequest(160, 3, 0, 2), Immediate(4), true, 120},
		{"steep fall ramps", OngoingRequest(150, 3, -60, 1), DelayedRamp(0, 30, 1), true, 60},
		{"low bg stops", OngoingRequest(85, 3, 0, 0), Immediate(0), false, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Decide(tc.req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Adjustment)
			assert.Equal(t, tc.atTarget, res.AtTarget)
			assert.Equal(t, tc.nextCheck, res.NextCheckMinutes)
			assert.Nil(t, res.Dose)
		})
	}
}

func TestDecide_MissingFields(t *testing.T) {
	rate := 2.0
	change := 5
	cases := []struct {
		name    string
		req     Request
		missing []string
	}{
		{"no trend", Request{CurrentBG: 150, CurrentRate: &rate}, []string{"hourly_bg_change", "consecutive_in_target_count"}},
		{"no streak", Request{CurrentBG: 150, CurrentRate: &rate, HourlyBGChange: &change}, []string{"consecutive_in_target_count"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decide(tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tc.missing, fe.Fields)
		})
	}
}

func TestDecide_InvalidInput(t *testing.T) {
	cases := []struct {
		name string
		req  Request
	}{
		{"negative bg initial", InitialRequest(-1)},
		{"negative bg ongoing", OngoingRequest(-10, 2, 0, 0)},
		{"negative rate", OngoingRequest(150, -0.5, 0, 0)},
		{"nan rate", OngoingRequest(150, math.NaN(), 0, 0)},
		{"inf rate", OngoingRequest(150, math.Inf(1), 0, 0)},
		{"negative streak", OngoingRequest(150, 2, 0, -1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decide(tc.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}
}

func TestResult_JSONShape(t *testing.T) {
	res, err := Decide(OngoingRequest(150, 3, -60, 0))
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate_adjustment":[[0,0],[30,1]],"at_target":true,"next_check_minutes":60}`, string(b))

	var back Result
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, res, back)

	res, err = Decide(InitialRequest(274))
	require.NoError(t, err)
	b, err = json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate_adjustment":[[0,2.5]],"at_target":false,"next_check_minutes":60,"dose":2.5}`, string(b))
}

func TestRequest_JSONRoundTrip(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"current_bg":180,"current_rate":4.5,"hourly_bg_change":-12,"consecutive_in_target_count":0}`), &req))
	require.False(t, req.IsInitial())
	assert.Equal(t, OngoingRequest(180, 4.5, -12, 0), req)

	req = Request{}
	require.NoError(t, json.Unmarshal([]byte(`{"current_bg":300}`), &req))
	assert.True(t, req.IsInitial())
}

func TestAdjustment_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Adjustment
		wantErr bool
	}{
		{in: `[[0,2.5]]`, want: Immediate(2.5)},
		{in: `[[0,0],[30,1]]`, want: DelayedRamp(0, 30, 1)},
		{in: `[]`, wantErr: true},
		{in: `[[0,0],[30,1],[60,2]]`, wantErr: true},
		{in: `[[0]]`, wantErr: true},
		{in: `[[0,1,2]]`, wantErr: true},
		{in: `[{"rate":1}]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got Adjustment
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaultron/internal/agent"
	"assaultron/internal/behavior"
	"assaultron/internal/world"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	arb, err := behavior.NewArbiter(behavior.DefaultLibrary())
	require.NoError(t, err)
	ag := agent.New(world.NewModel(), arb, nil, nil)
	ts := httptest.NewServer((&Server{Agent: ag}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var status map[string]any
	resp := getJSON(t, ts, "/api/status", &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, status, "app")
	assert.Contains(t, status, "body")
	assert.Contains(t, status, "mood")
	assert.NotEmpty(t, status["behaviors"])
}

func TestBodyEndpointDefaults(t *testing.T) {
	ts := newTestServer(t)

	var body world.BodyState
	resp := getJSON(t, ts, "/api/body", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, world.PostureIdle, body.Posture)
	assert.Equal(t, world.LuminanceDim, body.Luminance)
}

func TestTurnEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var res agent.TurnResult
	resp := postJSON(t, ts, "/api/turn", agent.TurnInput{
		Intent:  world.Intent{Goal: "provide_illumination", Emotion: "helpful", Confidence: 0.9},
		Message: "it's too dark in here",
	}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, res.TurnID)
	assert.Equal(t, "illuminate", res.Decision.Behavior)
	assert.Equal(t, 75, res.Hardware.LightIntensity)

	// The committed body is visible on the read side.
	var body world.BodyState
	getJSON(t, ts, "/api/body", &body)
	assert.Equal(t, world.LuminanceBright, body.Luminance)

	var decisions []behavior.Decision
	getJSON(t, ts, "/api/decisions", &decisions)
	require.Len(t, decisions, 1)
	assert.Equal(t, "illuminate", decisions[0].Behavior)

	var transitions []world.Transition
	getJSON(t, ts, "/api/transitions", &transitions)
	require.Len(t, transitions, 1)
	assert.Equal(t, world.PostureRelaxed, transitions[0].To.Posture)
}

func TestTurnEndpointRejectsBadCues(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/turn", agent.TurnInput{
		Intent: world.Intent{Goal: "idle"},
		Cues:   &world.Cues{Threat: "catastrophic"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed JSON is also a 400.
	r, err := ts.Client().Post(ts.URL+"/api/turn", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestWorldUpdateEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var w world.WorldState
	resp := postJSON(t, ts, "/api/world", world.Cues{
		Environment: "dark",
		Threat:      "medium",
		Entities:    []string{"door", "user_1"},
	}, &w)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, world.EnvironmentDark, w.Environment)
	assert.Equal(t, world.ThreatMedium, w.Threat)
	assert.Equal(t, []string{"door", "user_1"}, w.Entities)

	resp = postJSON(t, ts, "/api/world", world.Cues{Environment: "pitch_black"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHardwareEndpointReflectsCommittedBody(t *testing.T) {
	ts := newTestServer(t)

	var hw map[string]any
	resp := getJSON(t, ts, "/api/hardware", &hw)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Default body: idle posture, dim light.
	assert.Equal(t, float64(10), hw["led_intensity"])

	postJSON(t, ts, "/api/turn", agent.TurnInput{
		Intent: world.Intent{Goal: "intimidate", Emotion: "hostile", Confidence: 0.9, Urgency: 0.8},
	}, nil)

	getJSON(t, ts, "/api/hardware", &hw)
	assert.Equal(t, float64(100), hw["led_intensity"])
}

func TestMethodsAreEnforced(t *testing.T) {
	ts := newTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/body", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = ts.Client().Get(ts.URL + "/api/turn")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

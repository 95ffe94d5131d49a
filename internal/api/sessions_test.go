package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rttrainer/pkg/model"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

type revealResponse struct {
	Accepted bool   `json:"accepted"`
	Expected string `json:"expected"`
}

func startSession(t *testing.T, env *testEnv, seed string) CreateSessionResponse {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/sessions", CreateSessionRequest{
		ScenarioRequest: ScenarioRequest{Seed: seed, Waypoints: testWaypoints(), Emergency: ptr(false)},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[CreateSessionResponse](t, resp)
}

func tuneIn(t *testing.T, env *testEnv, id string, p *model.ScenarioPoint) {
	t.Helper()
	resp := env.do(t, http.MethodPost, "/api/sessions/"+id+"/radio", equipmentRequest{
		Radio:       session.Radio{On: true, Frequency: p.UpdateData.CurrentTargetFrequency},
		Transponder: session.Transponder{On: true, Code: p.UpdateData.CurrentTransponderFrequency},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSession_Practice(t *testing.T) {
	env := newTestEnv(t)
	created := startSession(t, env, "KX81QP")
	id := created.Session.ID
	require.NotEmpty(t, id)
	require.NotNil(t, created.Session.Point)
	assert.Equal(t, len(created.Scenario.Points), created.Session.Points)
	assert.Equal(t, created.Session.Point.UpdateData.CurrentTargetFrequency, created.Session.Radio.Frequency, "radio preset")

	t.Run("radio off rejects the call", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/sessions/"+id+"/call", callRequest{Text: "hello"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "radio_off", decodeBody[errorResponse](t, resp).Code)
	})

	tuneIn(t, env, id, created.Session.Point)

	var turns []session.Turn
	for i := 0; i < 3; i++ {
		resp := env.do(t, http.MethodPost, "/api/sessions/"+id+"/call", callRequest{Text: "blah blah"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		turns = append(turns, decodeBody[session.Turn](t, resp))
	}
	assert.Equal(t, session.OutcomeSayAgain, turns[0].Outcome)
	assert.Equal(t, session.OutcomeSayAgain, turns[1].Outcome)
	assert.Equal(t, session.OutcomeOfferReveal, turns[2].Outcome)
	assert.True(t, strings.HasSuffix(turns[0].Reply, "say again"))

	resp := env.do(t, http.MethodPost, "/api/sessions/"+id+"/reveal", revealRequest{Accept: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reveal := decodeBody[revealResponse](t, resp)
	require.NotEmpty(t, reveal.Expected)

	resp = env.do(t, http.MethodPost, "/api/sessions/"+id+"/call", callRequest{Text: reveal.Expected})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	turn := decodeBody[session.Turn](t, resp)
	assert.Equal(t, session.OutcomeAdvance, turn.Outcome)
	assert.Equal(t, 1, turn.Cursor)

	resp = env.do(t, http.MethodGet, "/api/sessions/"+id+"/results", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeBody[session.Results](t, resp)
	require.NotEmpty(t, res.Points)
	assert.Equal(t, 4, res.Points[0].Attempts)
	assert.True(t, res.Points[0].Revealed)

	resp = env.do(t, http.MethodGet, "/api/sessions/"+id+"/attempts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	attempts := decodeBody[[]model.Attempt](t, resp)
	assert.Len(t, attempts, 4)

	resp = env.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = env.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/sessions/"+id+"/attempts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]model.Attempt](t, resp), 4, "attempts outlive the session")
}

func TestSession_FromStoredScenario(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/scenario", ScenarioRequest{Seed: "STORED", Waypoints: testWaypoints()})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sc := decodeBody[store.Scenario](t, resp)

	resp = env.do(t, http.MethodPost, "/api/sessions", CreateSessionRequest{ScenarioID: sc.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[CreateSessionResponse](t, resp)
	assert.Equal(t, sc.ID, created.Scenario.ID)

	resp = env.do(t, http.MethodPost, "/api/sessions", CreateSessionRequest{ScenarioID: "missing"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSession_PolicyFromSettings(t *testing.T) {
	env := newTestEnv(t)
	resp := env.do(t, http.MethodPut, "/api/settings", SettingsRequest{RevealThreshold: ptr(1)})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	created := startSession(t, env, "POLICY")
	tuneIn(t, env, created.Session.ID, created.Session.Point)

	resp = env.do(t, http.MethodPost, "/api/sessions/"+created.Session.ID+"/call", callRequest{Text: "blah"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, session.OutcomeOfferReveal, decodeBody[session.Turn](t, resp).Outcome)
}

func TestSession_Unknown(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/sessions/nope", "/api/sessions/nope/results", "/api/sessions/nope/ws"} {
		resp := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp := env.do(t, http.MethodPost, "/api/sessions/nope/call", callRequest{Text: "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodDelete, "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSession_WebSocket(t *testing.T) {
	env := newTestEnv(t)
	created := startSession(t, env, "WS1")
	id := created.Session.ID

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	tuneIn(t, env, id, created.Session.Point)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev session.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "radio", ev.Kind)
	assert.Equal(t, id, ev.Session)

	resp := env.do(t, http.MethodDelete, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"rttrainer/pkg/model"
	"rttrainer/pkg/session"
	"rttrainer/pkg/store"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// SessionHandler drives practice sessions over HTTP.
type SessionHandler struct {
	mgr       *session.Manager
	scenarios *ScenarioHandler
	attempts  store.AttemptStore
	upgrader  websocket.Upgrader
}

// NewSessionHandler creates a SessionHandler. attempts may be nil.
func NewSessionHandler(mgr *session.Manager, scenarios *ScenarioHandler, attempts store.AttemptStore) *SessionHandler {
	return &SessionHandler{
		mgr:       mgr,
		scenarios: scenarios,
		attempts:  attempts,
		upgrader:  websocket.Upgrader{EnableCompression: false},
	}
}

// CreateSessionRequest starts a session on a stored scenario or on a
// freshly generated one.
type CreateSessionRequest struct {
	ScenarioID string `json:"scenario_id,omitempty"`
	ScenarioRequest
}

// CreateSessionResponse is the new session with the scenario it runs.
type CreateSessionResponse struct {
	Session  session.Snapshot `json:"session"`
	Scenario *store.Scenario  `json:"scenario"`
}

type callRequest struct {
	Text string `json:"text"`
}

type revealRequest struct {
	Accept bool `json:"accept"`
}

type equipmentRequest struct {
	Radio       session.Radio       `json:"radio"`
	Transponder session.Transponder `json:"transponder"`
}

// HandleCreate serves POST /api/sessions.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		sc  *store.Scenario
		err error
	)
	if req.ScenarioID != "" {
		sc, err = h.scenarios.Lookup(r.Context(), req.ScenarioID)
	} else {
		sc, err = h.scenarios.Build(r.Context(), req.ScenarioRequest)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	s := h.mgr.Start(session.Scenario{
		Seed:         sc.Seed,
		Callsign:     sc.Callsign,
		Prefix:       sc.Prefix,
		AircraftType: sc.AircraftType,
		Points:       sc.Points,
		Waypoints:    sc.Waypoints,
	})
	snap, err := h.mgr.Snapshot(s.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{Session: snap, Scenario: sc})
}

// HandleGet serves GET /api/sessions/{id}.
func (h *SessionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.mgr.Snapshot(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleEnd serves DELETE /api/sessions/{id}.
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if !h.mgr.End(r.PathValue("id")) {
		writeError(w, r, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRadio serves POST /api/sessions/{id}/radio.
func (h *SessionHandler) HandleRadio(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := r.PathValue("id")
	if err := h.mgr.SetEquipment(id, req.Radio, req.Transponder); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.mgr.Snapshot(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleCall serves POST /api/sessions/{id}/call.
func (h *SessionHandler) HandleCall(w http.ResponseWriter, r *http.Request) {
	var req callRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	turn, err := h.mgr.Submit(r.Context(), r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, turn)
}

// HandleReveal serves POST /api/sessions/{id}/reveal.
func (h *SessionHandler) HandleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	expected, err := h.mgr.Reveal(r.PathValue("id"), req.Accept)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accepted": req.Accept, "expected": expected})
}

// HandleResults serves GET /api/sessions/{id}/results.
func (h *SessionHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.mgr.Results(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleAttempts serves GET /api/sessions/{id}/attempts from the store,
// so it works after the session itself has expired.
func (h *SessionHandler) HandleAttempts(w http.ResponseWriter, r *http.Request) {
	if h.attempts == nil {
		writeJSON(w, http.StatusOK, []model.Attempt{})
		return
	}
	list, err := h.attempts.ListAttempts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []model.Attempt{}
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleWS serves GET /api/sessions/{id}/ws: session events as JSON text
// frames until the session ends or the client goes away.
func (h *SessionHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	events, cancel, err := h.mgr.Subscribe(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Unable to upgrade session websocket", "session", id, "error", err)
		return
	}
	defer conn.Close()

	// the read side only exists to see pongs and the close frame
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				slog.Debug("Session websocket write failed", "session", id, "error", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

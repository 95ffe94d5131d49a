package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"rttrainer/pkg/config"
	"rttrainer/pkg/store"
)

// callsignRe accepts registrations like G-OFLY and N123AB.
var callsignRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{2,9}$`)

// SettingsHandler reads and updates the runtime settings kept in the
// state store.
type SettingsHandler struct {
	store   store.StateStore
	cfgProv config.Provider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(st store.StateStore, cfg config.Provider) *SettingsHandler {
	return &SettingsHandler{store: st, cfgProv: cfg}
}

// SettingsRequest updates some settings. Absent fields are left alone; an
// empty string resets a text setting to the configured default.
type SettingsRequest struct {
	Callsign        *string  `json:"callsign,omitempty"`
	Prefix          *string  `json:"callsign_prefix,omitempty"`
	AircraftType    *string  `json:"aircraft_type,omitempty"`
	RevealThreshold *int     `json:"reveal_threshold,omitempty"`
	DeclineCooldown *int     `json:"decline_cooldown,omitempty"`
	EmergencyChance *float64 `json:"emergency_chance,omitempty"`
}

// HandleSettings is a unified handler for all settings methods, facilitating CORS/OPTIONS.
func (h *SettingsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.cfgProv.Settings(r.Context()))
	case http.MethodPut, http.MethodPost:
		h.handleSet(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) handleSet(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updates, err := req.updates()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "bad_request"})
		return
	}

	ctx := r.Context()
	for key, val := range updates {
		if err := h.apply(ctx, key, val); err != nil {
			slog.Error("Failed to save setting", "key", key, "error", err)
			writeError(w, r, err)
			return
		}
		slog.Debug("Setting updated", "key", key, "value", val)
	}
	writeJSON(w, http.StatusOK, h.cfgProv.Settings(ctx))
}

func (h *SettingsHandler) apply(ctx context.Context, key, val string) error {
	if val == "" {
		return h.store.DeleteState(ctx, key)
	}
	return h.store.SetState(ctx, key, val)
}

// updates validates the request and returns the state to write.
func (req *SettingsRequest) updates() (map[string]string, error) {
	out := make(map[string]string)
	if req.Callsign != nil {
		cs := strings.TrimSpace(*req.Callsign)
		if cs != "" && !callsignRe.MatchString(cs) {
			return nil, fmt.Errorf("invalid callsign %q", cs)
		}
		out[config.KeyCallsign] = cs
	}
	if req.Prefix != nil {
		out[config.KeyPrefix] = strings.TrimSpace(*req.Prefix)
	}
	if req.AircraftType != nil {
		out[config.KeyAircraftType] = strings.TrimSpace(*req.AircraftType)
	}
	if req.RevealThreshold != nil {
		if *req.RevealThreshold < 1 {
			return nil, fmt.Errorf("reveal_threshold must be at least 1")
		}
		out[config.KeyRevealThreshold] = strconv.Itoa(*req.RevealThreshold)
	}
	if req.DeclineCooldown != nil {
		if *req.DeclineCooldown < 1 {
			return nil, fmt.Errorf("decline_cooldown must be at least 1")
		}
		out[config.KeyDeclineCooldown] = strconv.Itoa(*req.DeclineCooldown)
	}
	if req.EmergencyChance != nil {
		if *req.EmergencyChance < 0 || *req.EmergencyChance > 1 {
			return nil, fmt.Errorf("emergency_chance must be between 0 and 1")
		}
		out[config.KeyEmergencyChance] = strconv.FormatFloat(*req.EmergencyChance, 'f', -1, 64)
	}
	return out, nil
}

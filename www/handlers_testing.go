package www

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Load intensities and scenario names understood by the backend's testing
// surface.
var (
	bulkIntensities = []string{"light", "medium", "heavy", "stress"}
	scenarioNames   = []string{"morning-rush", "peak-season", "system-stress"}
)

func (h *Handlers) handleTesting(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessions.user(r)

	data := map[string]interface{}{
		"Page":        "testing",
		"User":        username,
		"Intensities": bulkIntensities,
		"Scenarios":   scenarioNames,
	}

	h.renderTemplate(w, "testing.html", data)
}

func (h *Handlers) apiBulkOrders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count     int    `json:"count"`
		Intensity string `json:"intensity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Count <= 0 {
		req.Count = 100
	}
	if req.Intensity == "" {
		req.Intensity = "medium"
	}

	resp, err := h.engine.GenerateBulkOrders(req.Count, req.Intensity, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, resp)
}

func (h *Handlers) apiRunScenario(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	resp, err := h.engine.RunScenario(name, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, resp)
}

package www

import (
	"net/http"
)

func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	eng := h.engine
	username, _ := h.sessions.user(r)

	metrics, _ := eng.Metrics().Snapshot()

	data := map[string]interface{}{
		"Page":         "metrics",
		"User":         username,
		"Metrics":      metrics,
		"MetricsState": string(eng.Metrics().Status()),
		"MetricsError": eng.Metrics().LastError(),
		"UpdatedAt":    eng.Metrics().UpdatedAt(),
	}

	h.renderTemplate(w, "metrics.html", data)
}

func (h *Handlers) apiHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.engine.Client().Health()
	if err != nil {
		writeJSON(w, map[string]string{"status": "DOWN"})
		return
	}
	writeJSON(w, health)
}

func (h *Handlers) apiMonitoringStart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.engine.SetMonitoring(true, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, resp)
}

func (h *Handlers) apiMonitoringStop(w http.ResponseWriter, r *http.Request) {
	resp, err := h.engine.SetMonitoring(false, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, resp)
}

func (h *Handlers) apiRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.engine.Client().Recommendations()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, recs)
}

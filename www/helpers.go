package www

import (
	"encoding/json"
	"net/http"
	"time"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// resourceView is the JSON shape of a monitored resource's local state.
type resourceView struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	Data      any       `json:"data,omitempty"`
}

// actor resolves the audit actor for a request: the logged-in admin if any,
// otherwise the anonymous operator.
func (h *Handlers) actor(r *http.Request) string {
	if username, ok := h.sessions.user(r); ok {
		return username
	}
	return "operator"
}

package www

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"logidash/backend"
	"logidash/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// buildVer is a stable per-restart value for cache-busting static assets.
var buildVer = time.Now().Format("20060102150405")

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	engine   *engine.Engine
	sessions *sessionStore
	tmpl     *template.Template
	eventHub *EventHub
}

// statusColors maps an order lifecycle status to its chip class.
var statusColors = map[string]string{
	backend.StatusReceived:  "info",
	backend.StatusValidated: "success",
	backend.StatusFulfilled: "warning",
	backend.StatusInTransit: "secondary",
	backend.StatusDelivered: "success",
	backend.StatusCancelled: "error",
}

// NewRouter creates the chi router and returns it along with a stop function.
func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		eventHub: newEventHub(eng.Events),
	}

	funcMap := template.FuncMap{
		"join": strings.Join,
		"statusColor": func(status string) string {
			if c, ok := statusColors[status]; ok {
				return c
			}
			return "default"
		},
		"statusLabel": func(status string) string {
			return strings.ReplaceAll(status, "_", " ")
		},
		"fmtTime": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Format("2006-01-02 15:04")
		},
		"buildVer": func() string { return buildVer },
	}
	h.tmpl = template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS(), "*.html", "partials/*.html"))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files (no auth)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(StaticFS()))))

	// SSE (no auth)
	r.Get("/events", h.eventHub.HandleSSE)

	// Public pages
	r.Get("/", h.handleDashboard)
	r.Get("/metrics", h.handleMetrics)

	// Login/logout
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	// Admin-only pages
	r.Group(func(r chi.Router) {
		r.Use(h.adminMiddleware)
		r.Get("/testing", h.handleTesting)
		r.Get("/setup", h.handleSetup)
	})

	// API endpoints
	r.Route("/api", func(r chi.Router) {
		// Local resource snapshots
		r.Get("/stats", h.apiStats)
		r.Get("/orders", h.apiOrders)
		r.Get("/metrics", h.apiMetrics)

		// Refresh triggers
		r.Post("/refresh", h.apiRefresh)
		r.Put("/auto-refresh", h.apiAutoRefresh)

		// Commands and lookups
		r.Post("/orders/submit", h.apiSubmitOrder)
		r.Get("/orders/lookup", h.apiLookupOrder)
		r.Post("/warehouse/op", h.apiWarehouseOp)

		// Backend proxies
		r.Get("/health", h.apiHealth)
		r.Post("/monitoring/start", h.apiMonitoringStart)
		r.Post("/monitoring/stop", h.apiMonitoringStop)
		r.Get("/recommendations", h.apiRecommendations)

		// Admin API (load testing)
		r.Group(func(r chi.Router) {
			r.Use(h.adminMiddleware)
			r.Post("/testing/bulk-orders", h.apiBulkOrders)
			r.Post("/testing/scenarios/{name}", h.apiRunScenario)
		})
	})

	return r, func() {
		h.eventHub.Stop()
	}
}

func (h *Handlers) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sessions.user(r); !ok {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeError(w, http.StatusUnauthorized, "login required")
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

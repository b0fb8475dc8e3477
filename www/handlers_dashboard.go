package www

import (
	"net/http"
	"time"
)

// productOption is one entry of the SKU dropdown on the submission form.
type productOption struct {
	SKU  string
	Name string
}

var productOptions = []productOption{
	{"TILE-001", "Ceramic Floor Tiles"},
	{"TILE-002", "Marble Wall Tiles"},
	{"CONC-001", "Portland Cement"},
	{"ROOF-001", "Clay Roof Tiles"},
	{"PLUMB-001", "PVC Pipes"},
}

// orderFormDefaults pre-fills the submission form the way the operators
// expect for smoke-testing: a known client and a delivery window three days
// out.
type orderFormDefaults struct {
	ClientID        string
	ClientName      string
	DeliveryAddress string
	DeliveryDate    string
	SKU             string
	Quantity        int
	UnitPrice       float64
}

func defaultOrderForm() orderFormDefaults {
	return orderFormDefaults{
		ClientID:        "CLIENT_DASHBOARD_001",
		ClientName:      "Dashboard Test Client",
		DeliveryAddress: "Hamburg Business District, Neuer Wall 50, 20354 Hamburg, Germany",
		DeliveryDate:    time.Now().Add(3 * 24 * time.Hour).Format("2006-01-02T15:04"),
		SKU:             "TILE-001",
		Quantity:        25,
		UnitPrice:       25.00,
	}
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	eng := h.engine
	username, _ := h.sessions.user(r)

	stats, _ := eng.Stats().Snapshot()
	orders, _ := eng.Orders().Snapshot()

	data := map[string]interface{}{
		"Page":        "dashboard",
		"User":        username,
		"Stats":       stats,
		"StatsState":  string(eng.Stats().Status()),
		"Orders":      orders,
		"OrdersState": string(eng.Orders().Status()),
		"AutoRefresh": eng.AutoRefresh(),
		"Form":        defaultOrderForm(),
		"Products":    productOptions,
	}

	h.renderTemplate(w, "dashboard.html", data)
}

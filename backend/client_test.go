package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestStats(t *testing.T) {
	var gotPath string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"totalOrders":12,"receivedOrders":3,"inTransitOrders":2,"deliveredOrders":7}`))
	}))
	defer srv.Close()

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if gotPath != "/api/orders/stats" {
		t.Errorf("path = %q, want %q", gotPath, "/api/orders/stats")
	}
	if stats.TotalOrders != 12 {
		t.Errorf("TotalOrders = %d, want 12", stats.TotalOrders)
	}
	if stats.DeliveredOrders != 7 {
		t.Errorf("DeliveredOrders = %d, want 7", stats.DeliveredOrders)
	}
}

func TestOrdersByStatus(t *testing.T) {
	var gotPath string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"orderId":101,"status":"RECEIVED","clientName":"Acme","orderDate":"2025-06-01T09:30:00"}]`))
	}))
	defer srv.Close()

	orders, err := c.OrdersByStatus(StatusReceived)
	if err != nil {
		t.Fatalf("OrdersByStatus() error = %v", err)
	}
	if gotPath != "/api/orders/status/RECEIVED" {
		t.Errorf("path = %q, want %q", gotPath, "/api/orders/status/RECEIVED")
	}
	if len(orders) != 1 {
		t.Fatalf("len(orders) = %d, want 1", len(orders))
	}
	if orders[0].OrderID != 101 {
		t.Errorf("OrderID = %d, want 101", orders[0].OrderID)
	}
	want := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	if !orders[0].OrderDate.Time.Equal(want) {
		t.Errorf("OrderDate = %v, want %v", orders[0].OrderDate.Time, want)
	}
}

func TestSubmitOrder(t *testing.T) {
	var gotMethod, gotPath string
	var gotReq OrderRequest
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"orderId":4821,"message":"created","trackingReference":"TRK-4821"}`))
	}))
	defer srv.Close()

	resp, err := c.SubmitOrder(&OrderRequest{
		ClientID:   "CLIENT_1",
		ClientName: "Acme",
		Items:      []OrderItemRequest{{SKU: "TILE-001", Quantity: 25, UnitPrice: 25.00}},
	})
	if err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/orders/submit" {
		t.Errorf("request = %s %s, want POST /api/orders/submit", gotMethod, gotPath)
	}
	if gotReq.ClientID != "CLIENT_1" || len(gotReq.Items) != 1 {
		t.Errorf("decoded request = %+v", gotReq)
	}
	if resp.OrderID != 4821 {
		t.Errorf("OrderID = %d, want 4821", resp.OrderID)
	}
	if resp.TrackingReference != "TRK-4821" {
		t.Errorf("TrackingReference = %q, want %q", resp.TrackingReference, "TRK-4821")
	}
}

func TestWarehouseOp(t *testing.T) {
	var gotMethod, gotPath string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte("Loading started for shipment 55\n"))
	}))
	defer srv.Close()

	msg, err := c.WarehouseOp("55", OpStartLoading)
	if err != nil {
		t.Fatalf("WarehouseOp() error = %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/warehouse/shipments/55/start-loading" {
		t.Errorf("request = %s %s, want POST /api/warehouse/shipments/55/start-loading", gotMethod, gotPath)
	}
	if msg != "Loading started for shipment 55" {
		t.Errorf("msg = %q, want trimmed body", msg)
	}
}

func TestWarehouseOpRejectsUnknownOp(t *testing.T) {
	called := false
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	if _, err := c.WarehouseOp("55", "explode"); err == nil {
		t.Fatal("WarehouseOp() with unknown op: expected error")
	}
	if called {
		t.Error("unknown op reached the backend")
	}
}

func TestGenerateBulkOrders(t *testing.T) {
	var gotQuery string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"message":"started","orderCount":250,"intensity":"heavy","status":"RUNNING"}`))
	}))
	defer srv.Close()

	resp, err := c.GenerateBulkOrders(250, "heavy")
	if err != nil {
		t.Fatalf("GenerateBulkOrders() error = %v", err)
	}
	if gotQuery != "count=250&intensity=heavy" {
		t.Errorf("query = %q, want %q", gotQuery, "count=250&intensity=heavy")
	}
	if resp.OrderCount != 250 || resp.Intensity != "heavy" {
		t.Errorf("response = %+v", resp)
	}
}

func TestErrorFromBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"invalid delivery date"}`, "invalid delivery date"},
		{"error field", 500, `{"error":"backend unavailable"}`, "backend unavailable"},
		{"plain text", 404, "Shipment not found", "Shipment not found"},
		{"empty body", 503, "", "request failed with status 503"},
		{"json without fields", 500, `{"detail":"x"}`, "request failed with status 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := c.Stats()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestTransportErrorWrapsPath(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Stats()
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "backend GET /api/orders/stats") {
		t.Errorf("error = %q, want path context", err.Error())
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"local datetime", `"2025-03-15T14:05:09"`, time.Date(2025, 3, 15, 14, 5, 9, 0, time.UTC)},
		{"rfc3339", `"2025-03-15T14:05:09Z"`, time.Date(2025, 3, 15, 14, 5, 9, 0, time.UTC)},
		{"offset", `"2025-03-15T14:05:09+02:00"`, time.Date(2025, 3, 15, 12, 5, 9, 0, time.UTC)},
		{"json-escaped offset", `"2025-03-15T14:05:09\u002b02:00"`, time.Date(2025, 3, 15, 12, 5, 9, 0, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}

	var ts Timestamp
	if err := json.Unmarshal([]byte(`"not-a-date"`), &ts); err == nil {
		t.Error("expected parse error for garbage input")
	}
}

func TestTimestampMarshal(t *testing.T) {
	ts := Timestamp{time.Date(2025, 3, 15, 14, 5, 9, 0, time.UTC)}
	data, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `"2025-03-15T14:05:09"` {
		t.Errorf("got %s, want %q", data, `"2025-03-15T14:05:09"`)
	}

	zero, _ := json.Marshal(Timestamp{})
	if string(zero) != "null" {
		t.Errorf("zero marshal = %s, want null", zero)
	}
}

func TestHealth(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/actuator/health" {
			t.Errorf("path = %q, want /actuator/health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"UP"}`))
	}))
	defer srv.Close()

	h, err := c.Health()
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if h.Status != "UP" {
		t.Errorf("Status = %q, want UP", h.Status)
	}
}

func TestBaseURLTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://example.com/", time.Second)
	if c.BaseURL() != "http://example.com" {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), "http://example.com")
	}
}

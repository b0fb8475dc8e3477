package engine

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"logidash/backend"
	"logidash/config"
	"logidash/store"
)

// countingBackend tallies requests by endpoint so tests can assert which
// re-fetches a command triggered.
type countingBackend struct {
	mu      sync.Mutex
	stats   int
	byState int
	handler http.HandlerFunc
}

func (cb *countingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cb.mu.Lock()
	switch {
	case r.URL.Path == "/api/orders/stats":
		cb.stats++
	case strings.HasPrefix(r.URL.Path, "/api/orders/status/"):
		cb.byState++
	}
	cb.mu.Unlock()
	if cb.handler != nil {
		cb.handler(w, r)
		return
	}
	switch {
	case r.URL.Path == "/api/orders/stats":
		w.Write([]byte(`{"totalOrders":1}`))
	case strings.HasPrefix(r.URL.Path, "/api/orders/status/"):
		w.Write([]byte(`[]`))
	case r.URL.Path == "/api/orders/submit":
		w.Write([]byte(`{"orderId":900,"message":"created"}`))
	case strings.HasPrefix(r.URL.Path, "/api/warehouse/shipments/"):
		w.Write([]byte("Dispatched"))
	case r.URL.Path == "/api/metrics/current":
		w.Write([]byte(`{"status":"HEALTHY"}`))
	default:
		w.Write([]byte(`{}`))
	}
}

func (cb *countingBackend) counts() (int, int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats, cb.byState
}

func newTestEngine(t *testing.T, cb *countingBackend) (*Engine, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(cb)
	t.Cleanup(srv.Close)

	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Defaults()
	cfg.Backend.BaseURL = srv.URL
	cfg.Refresh.DashboardInterval = time.Hour
	cfg.Refresh.MetricsInterval = time.Hour

	eng := New(Config{
		AppConfig: cfg,
		DB:        db,
		Client:    backend.NewClient(srv.URL, 5*time.Second),
	})
	t.Cleanup(eng.Stop)
	return eng, srv
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal(msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func lastCommand(t *testing.T, eng *Engine) *store.CommandEntry {
	t.Helper()
	entries, err := eng.DB().ListCommandLog(1)
	if err != nil {
		t.Fatalf("ListCommandLog: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("command log is empty")
	}
	return entries[0]
}

func TestSubmitOrderRefreshesDashboard(t *testing.T) {
	cb := &countingBackend{}
	eng, _ := newTestEngine(t, cb)

	resp, err := eng.SubmitOrder(&backend.OrderRequest{
		ClientID: "CLIENT_1",
		Items:    []backend.OrderItemRequest{{SKU: "TILE-001", Quantity: 1, UnitPrice: 9.99}},
	}, "operator")
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if resp.OrderID != 900 {
		t.Errorf("OrderID = %d, want 900", resp.OrderID)
	}

	waitFor(t, func() bool {
		stats, byState := cb.counts()
		return stats == 1 && byState == len(backend.ListableStatuses)
	}, "submit did not trigger the stats and orders re-fetch")

	entry := lastCommand(t, eng)
	if entry.Action != "submit-order" || entry.Outcome != "ok" {
		t.Errorf("audit entry = %s/%s, want submit-order/ok", entry.Action, entry.Outcome)
	}
	if entry.Detail != "orderId=900" {
		t.Errorf("audit detail = %q, want orderId=900", entry.Detail)
	}
	if entry.Target != "CLIENT_1" {
		t.Errorf("audit target = %q, want CLIENT_1", entry.Target)
	}
}

func TestSubmitOrderFailureSkipsRefresh(t *testing.T) {
	cb := &countingBackend{}
	cb.handler = func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/orders/submit" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"validation failed"}`))
			return
		}
		w.Write([]byte(`{}`))
	}
	eng, _ := newTestEngine(t, cb)

	_, err := eng.SubmitOrder(&backend.OrderRequest{ClientID: "C"}, "operator")
	if err == nil {
		t.Fatal("expected submit error")
	}
	if err.Error() != "validation failed" {
		t.Errorf("error = %q, want %q", err.Error(), "validation failed")
	}

	entry := lastCommand(t, eng)
	if entry.Outcome != "error" || entry.Detail != "validation failed" {
		t.Errorf("audit entry = %s/%q, want error/validation failed", entry.Outcome, entry.Detail)
	}

	time.Sleep(50 * time.Millisecond)
	stats, byState := cb.counts()
	if stats != 0 || byState != 0 {
		t.Errorf("failed submit triggered re-fetch: stats=%d byState=%d", stats, byState)
	}
}

func TestWarehouseOpRefreshesDashboard(t *testing.T) {
	cb := &countingBackend{}
	eng, _ := newTestEngine(t, cb)

	msg, err := eng.WarehouseOp("55", backend.OpDispatch, "alice")
	if err != nil {
		t.Fatalf("WarehouseOp: %v", err)
	}
	if msg != "Dispatched" {
		t.Errorf("msg = %q, want Dispatched", msg)
	}

	waitFor(t, func() bool {
		stats, byState := cb.counts()
		return stats == 1 && byState == len(backend.ListableStatuses)
	}, "warehouse op did not trigger the dashboard re-fetch")

	entry := lastCommand(t, eng)
	if entry.Action != "warehouse:dispatch" || entry.Target != "55" || entry.Actor != "alice" {
		t.Errorf("audit entry = %+v", entry)
	}
}

func TestWarehouseOpInvalidOpNeverReachesBackend(t *testing.T) {
	cb := &countingBackend{}
	var reached atomic.Bool
	cb.handler = func(w http.ResponseWriter, r *http.Request) {
		reached.Store(true)
		w.Write([]byte(`{}`))
	}
	eng, _ := newTestEngine(t, cb)

	if _, err := eng.WarehouseOp("55", "teleport", "operator"); err == nil {
		t.Fatal("expected error for unknown op")
	}
	if reached.Load() {
		t.Error("invalid op reached the backend")
	}
}

func TestSetAutoRefreshEmitsOnChangeOnly(t *testing.T) {
	cb := &countingBackend{}
	eng, _ := newTestEngine(t, cb)

	var events []bool
	eng.Events.SubscribeTypes(func(evt Event) {
		events = append(events, evt.Payload.(AutoRefreshChangedEvent).Enabled)
	}, EventAutoRefreshChanged)

	eng.SetAutoRefresh(true)
	eng.SetAutoRefresh(true)
	eng.SetAutoRefresh(false)

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0] != true || events[1] != false {
		t.Errorf("events = %v, want [true false]", events)
	}
	if eng.AutoRefresh() {
		t.Error("AutoRefresh() = true after disable")
	}
	if eng.Stats().AutoActive() || eng.Orders().AutoActive() {
		t.Error("resource tickers still armed after disable")
	}
}

func TestResourceEventsCarrySnapshot(t *testing.T) {
	cb := &countingBackend{}
	eng, _ := newTestEngine(t, cb)

	var mu sync.Mutex
	var got *ResourceUpdatedEvent
	eng.Events.SubscribeTypes(func(evt Event) {
		mu.Lock()
		defer mu.Unlock()
		payload := evt.Payload.(ResourceUpdatedEvent)
		got = &payload
	}, EventStatsUpdated)

	eng.Stats().Refresh()

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, "stats event never arrived")

	mu.Lock()
	defer mu.Unlock()
	if got.Resource != "stats" || got.Status != "ready" {
		t.Errorf("event = %+v, want ready stats", got)
	}
	stats, ok := got.Data.(*backend.Stats)
	if !ok || stats.TotalOrders != 1 {
		t.Errorf("event data = %#v, want stats snapshot", got.Data)
	}
}

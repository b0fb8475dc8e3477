package engine

import (
	"fmt"
	"sync"

	"logidash/backend"
	"logidash/config"
	"logidash/poll"
	"logidash/store"

	"github.com/google/uuid"
)

// LogFunc is the logging callback signature.
type LogFunc func(format string, args ...interface{})

// Engine owns the backend client, the three monitored resources and the
// command paths. The backend is the sole authority over order state; the
// engine only submits commands and re-fetches.
type Engine struct {
	cfg    *config.Config
	db     *store.DB
	client *backend.Client
	logFn  LogFunc

	Events *EventBus

	stats   *poll.Resource[*backend.Stats]
	orders  *poll.Resource[[]backend.Order]
	metrics *poll.Resource[*backend.MetricsSnapshot]

	autoMu      sync.Mutex
	autoRefresh bool
}

// Config holds the parameters needed to create an Engine.
type Config struct {
	AppConfig *config.Config
	DB        *store.DB
	Client    *backend.Client
	LogFunc   LogFunc
}

// New creates a new Engine. Call Start() to trigger the initial fetches and
// arm the metrics poller.
func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}
	client := c.Client
	if client == nil {
		client = backend.NewClient(c.AppConfig.Backend.BaseURL, c.AppConfig.Backend.Timeout)
	}

	e := &Engine{
		cfg:    c.AppConfig,
		db:     c.DB,
		client: client,
		logFn:  logFn,
		Events: NewEventBus(),
	}

	e.stats = poll.NewResource("stats", func() (*backend.Stats, error) {
		return client.Stats()
	})
	e.orders = poll.NewResource("orders", poll.OrdersFetcher(client))
	e.metrics = poll.NewResource("metrics", func() (*backend.MetricsSnapshot, error) {
		return client.CurrentMetrics()
	})

	e.stats.OnChange(func() { e.emitResource("stats") })
	e.orders.OnChange(func() { e.emitResource("orders") })
	e.metrics.OnChange(func() { e.emitResource("metrics") })

	return e
}

// Start fires the initial fetch of every resource and arms the always-on
// metrics poller. The dashboard auto-refresh starts only if configured.
func (e *Engine) Start() {
	e.stats.Refresh()
	e.orders.Refresh()
	e.metrics.Refresh()

	e.metrics.StartAuto(e.cfg.Refresh.MetricsInterval)
	if e.cfg.Refresh.AutoStart {
		e.SetAutoRefresh(true)
	}

	e.logFn("Engine started: backend=%s metrics_interval=%s", e.client.BaseURL(), e.cfg.Refresh.MetricsInterval)
}

// Stop cancels every auto-refresh ticker. In-flight fetches run to
// completion; their late results are applied but nothing re-arms.
func (e *Engine) Stop() {
	e.stats.StopAuto()
	e.orders.StopAuto()
	e.metrics.StopAuto()
	e.logFn("Engine stopped")
}

func (e *Engine) emitResource(name string) {
	evt := ResourceUpdatedEvent{Resource: name}
	switch name {
	case "stats":
		evt.Status = string(e.stats.Status())
		evt.Error = e.stats.LastError()
		evt.UpdatedAt = e.stats.UpdatedAt()
		if snap, ok := e.stats.Snapshot(); ok {
			evt.Data = snap
		}
		e.Events.Emit(Event{Type: EventStatsUpdated, Payload: evt})
	case "orders":
		evt.Status = string(e.orders.Status())
		evt.Error = e.orders.LastError()
		evt.UpdatedAt = e.orders.UpdatedAt()
		if snap, ok := e.orders.Snapshot(); ok {
			evt.Data = snap
		}
		e.Events.Emit(Event{Type: EventOrdersUpdated, Payload: evt})
	case "metrics":
		evt.Status = string(e.metrics.Status())
		evt.Error = e.metrics.LastError()
		evt.UpdatedAt = e.metrics.UpdatedAt()
		if snap, ok := e.metrics.Snapshot(); ok {
			evt.Data = snap
		}
		e.Events.Emit(Event{Type: EventMetricsUpdated, Payload: evt})
	}
}

// Stats returns the stats resource.
func (e *Engine) Stats() *poll.Resource[*backend.Stats] { return e.stats }

// Orders returns the orders-list aggregate resource.
func (e *Engine) Orders() *poll.Resource[[]backend.Order] { return e.orders }

// Metrics returns the metrics resource.
func (e *Engine) Metrics() *poll.Resource[*backend.MetricsSnapshot] { return e.metrics }

// DB returns the local store.
func (e *Engine) DB() *store.DB { return e.db }

// AppConfig returns the application configuration.
func (e *Engine) AppConfig() *config.Config { return e.cfg }

// Client returns the backend client.
func (e *Engine) Client() *backend.Client { return e.client }

// RefreshDashboard re-fetches stats and the orders aggregate. Used for the
// manual refresh action and after every successful mutation; no optimistic
// local patch is ever applied.
func (e *Engine) RefreshDashboard() {
	e.stats.Refresh()
	e.orders.Refresh()
}

// SetAutoRefresh arms or cancels the dashboard auto-refresh tickers.
func (e *Engine) SetAutoRefresh(enabled bool) {
	e.autoMu.Lock()
	changed := e.autoRefresh != enabled
	e.autoRefresh = enabled
	e.autoMu.Unlock()

	if enabled {
		e.stats.StartAuto(e.cfg.Refresh.DashboardInterval)
		e.orders.StartAuto(e.cfg.Refresh.DashboardInterval)
	} else {
		e.stats.StopAuto()
		e.orders.StopAuto()
	}
	if changed {
		e.logFn("auto-refresh %v", enabled)
		e.Events.Emit(Event{Type: EventAutoRefreshChanged, Payload: AutoRefreshChangedEvent{Enabled: enabled}})
	}
}

// AutoRefresh reports whether the dashboard auto-refresh toggle is on.
func (e *Engine) AutoRefresh() bool {
	e.autoMu.Lock()
	defer e.autoMu.Unlock()
	return e.autoRefresh
}

// audit records a command outcome and broadcasts it. Audit failures only log;
// they never fail the command.
func (e *Engine) audit(commandID, action, target string, cmdErr error, detail, actor string) {
	outcome := "ok"
	if cmdErr != nil {
		outcome = "error"
		detail = cmdErr.Error()
	}
	if err := e.db.AppendCommand(commandID, action, target, outcome, detail, actor); err != nil {
		e.logFn("audit %s: %v", action, err)
	}
	e.Events.Emit(Event{Type: EventCommandExecuted, Payload: CommandExecutedEvent{
		CommandID: commandID,
		Action:    action,
		Target:    target,
		Outcome:   outcome,
		Detail:    detail,
	}})
}

// SubmitOrder submits a new order. On success the stats and orders resources
// are unconditionally re-fetched.
func (e *Engine) SubmitOrder(req *backend.OrderRequest, actor string) (*backend.SubmitResponse, error) {
	cmdID := uuid.NewString()
	resp, err := e.client.SubmitOrder(req)
	detail := ""
	if err == nil {
		detail = fmt.Sprintf("orderId=%d", resp.OrderID)
	}
	e.audit(cmdID, "submit-order", req.ClientID, err, detail, actor)
	if err != nil {
		return nil, err
	}
	e.RefreshDashboard()
	return resp, nil
}

// WarehouseOp invokes one of the four shipment transitions. On success the
// stats and orders resources are unconditionally re-fetched. There is no
// idempotency guard here; repeat firing is the backend's problem.
func (e *Engine) WarehouseOp(shipmentID, op, actor string) (string, error) {
	cmdID := uuid.NewString()
	msg, err := e.client.WarehouseOp(shipmentID, op)
	e.audit(cmdID, "warehouse:"+op, shipmentID, err, msg, actor)
	if err != nil {
		return "", err
	}
	e.RefreshDashboard()
	return msg, nil
}

// LookupOrder fetches one order's detail. Reads are not audited.
func (e *Engine) LookupOrder(orderID string) (*backend.Order, error) {
	return e.client.OrderStatus(orderID)
}

// SetMonitoring toggles backend performance monitoring.
func (e *Engine) SetMonitoring(enabled bool, actor string) (*backend.MonitoringResponse, error) {
	cmdID := uuid.NewString()
	var resp *backend.MonitoringResponse
	var err error
	action := "monitoring:stop"
	if enabled {
		action = "monitoring:start"
		resp, err = e.client.StartMonitoring()
	} else {
		resp, err = e.client.StopMonitoring()
	}
	detail := ""
	if resp != nil {
		detail = resp.Status
	}
	e.audit(cmdID, action, "", err, detail, actor)
	return resp, err
}

// GenerateBulkOrders triggers synthetic order generation for load testing.
func (e *Engine) GenerateBulkOrders(count int, intensity, actor string) (*backend.BulkOrdersResponse, error) {
	cmdID := uuid.NewString()
	resp, err := e.client.GenerateBulkOrders(count, intensity)
	detail := fmt.Sprintf("count=%d intensity=%s", count, intensity)
	e.audit(cmdID, "bulk-orders", "", err, detail, actor)
	if err != nil {
		return nil, err
	}
	e.RefreshDashboard()
	return resp, nil
}

// RunScenario triggers a named backend test scenario.
func (e *Engine) RunScenario(name, actor string) (map[string]any, error) {
	cmdID := uuid.NewString()
	resp, err := e.client.RunScenario(name)
	e.audit(cmdID, "scenario:"+name, "", err, "", actor)
	if err != nil {
		return nil, err
	}
	e.RefreshDashboard()
	return resp, nil
}

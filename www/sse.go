package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"logidash/engine"
)

// streamNames maps engine events to the SSE stream each page listens on.
var streamNames = map[engine.EventType]string{
	engine.EventStatsUpdated:       "stats-update",
	engine.EventOrdersUpdated:      "orders-update",
	engine.EventMetricsUpdated:     "metrics-update",
	engine.EventAutoRefreshChanged: "auto-refresh",
	engine.EventCommandExecuted:    "command",
}

// replayStreams are re-sent to every new connection so a freshly opened
// page shows the current snapshots without waiting for the next poll
// cycle. Command notifications are transient and not replayed.
var replayStreams = []string{"stats-update", "orders-update", "metrics-update", "auto-refresh"}

type frame struct {
	stream string
	data   []byte
}

// EventHub fans engine events out to connected browsers. A frame is
// marshalled once at emit time; a slow client drops frames instead of
// blocking the bus.
type EventHub struct {
	bus   *engine.EventBus
	subID engine.SubscriberID

	mu      sync.Mutex
	clients map[chan frame]struct{}
	latest  map[string]frame
	closed  bool
}

func newEventHub(bus *engine.EventBus) *EventHub {
	h := &EventHub{
		bus:     bus,
		clients: make(map[chan frame]struct{}),
		latest:  make(map[string]frame),
	}
	h.subID = bus.SubscribeTypes(h.relay,
		engine.EventStatsUpdated,
		engine.EventOrdersUpdated,
		engine.EventMetricsUpdated,
		engine.EventAutoRefreshChanged,
		engine.EventCommandExecuted,
	)
	return h
}

// relay converts one engine event into a frame and fans it out.
func (h *EventHub) relay(evt engine.Event) {
	stream, ok := streamNames[evt.Type]
	if !ok {
		return
	}
	data, err := json.Marshal(evt.Payload)
	if err != nil {
		log.Printf("www: sse marshal %s: %v", stream, err)
		return
	}
	f := frame{stream: stream, data: data}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.latest[stream] = f
	for ch := range h.clients {
		select {
		case ch <- f:
		default:
		}
	}
}

// register adds a connection and queues the latest known frames.
func (h *EventHub) register() chan frame {
	ch := make(chan frame, 64)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	for _, stream := range replayStreams {
		if f, ok := h.latest[stream]; ok {
			ch <- f
		}
	}
	h.clients[ch] = struct{}{}
	return ch
}

func (h *EventHub) unregister(ch chan frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// Stop detaches from the event bus and closes every connection.
func (h *EventHub) Stop() {
	h.bus.Unsubscribe(h.subID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

// HandleSSE streams frames to one browser connection.
func (h *EventHub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.register()
	defer h.unregister(ch)

	fmt.Fprint(w, "retry: 5000\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case f, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.stream, f.data)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

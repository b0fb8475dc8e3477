package backend

import (
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses the backend enumerates for the per-status list endpoint.
// CANCELLED exists on orders but is never listed, so it is not part of this set.
const (
	StatusReceived  = "RECEIVED"
	StatusValidated = "VALIDATED"
	StatusFulfilled = "FULFILLED"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// ListableStatuses is the fixed enumeration used to build the orders aggregate.
var ListableStatuses = []string{
	StatusReceived,
	StatusValidated,
	StatusFulfilled,
	StatusInTransit,
	StatusDelivered,
}

// Warehouse operations accepted by the shipment transition endpoint.
const (
	OpStartLoading    = "start-loading"
	OpCompleteLoading = "complete-loading"
	OpDispatch        = "dispatch"
	OpDelivered       = "delivered"
)

// IsValidOp reports whether op is one of the four warehouse operations.
func IsValidOp(op string) bool {
	switch op {
	case OpStartLoading, OpCompleteLoading, OpDispatch, OpDelivered:
		return true
	}
	return false
}

// Timestamp handles the backend's zoneless LocalDateTime serialization
// alongside regular RFC 3339.
type Timestamp struct {
	time.Time
}

const localLayout = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(localLayout, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format(localLayout) + `"`), nil
}

// Stats is the aggregate order count snapshot.
type Stats struct {
	TotalOrders     int64 `json:"totalOrders"`
	ReceivedOrders  int64 `json:"receivedOrders"`
	ValidatedOrders int64 `json:"validatedOrders"`
	FulfilledOrders int64 `json:"fulfilledOrders"`
	InTransitOrders int64 `json:"inTransitOrders"`
	DeliveredOrders int64 `json:"deliveredOrders"`
	CancelledOrders int64 `json:"cancelledOrders"`
}

// ShipmentInfo is the shipment sub-record attached to an order.
type ShipmentInfo struct {
	ShipmentID        int64      `json:"shipmentId"`
	TruckID           string     `json:"truckId"`
	DriverID          string     `json:"driverId,omitempty"`
	Status            string     `json:"status,omitempty"`
	ScheduledPickup   *Timestamp `json:"scheduledPickup,omitempty"`
	EstimatedDelivery *Timestamp `json:"estimatedDelivery,omitempty"`
	ActualDelivery    *Timestamp `json:"actualDelivery,omitempty"`
}

// OrderItem is a fulfilled line item on an order detail.
type OrderItem struct {
	SKU         string  `json:"sku"`
	ProductName string  `json:"productName,omitempty"`
	Category    string  `json:"category,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Volume      float64 `json:"volume,omitempty"`
	Location    string  `json:"location,omitempty"`
}

// Order is the read-only order snapshot returned by the status and per-status
// list endpoints. Local copies are display caches only.
type Order struct {
	OrderID               int64         `json:"orderId"`
	Status                string        `json:"status"`
	StatusDescription     string        `json:"statusDescription,omitempty"`
	ClientID              string        `json:"clientId,omitempty"`
	ClientName            string        `json:"clientName"`
	OrderDate             Timestamp     `json:"orderDate"`
	RequestedDeliveryDate *Timestamp    `json:"requestedDeliveryDate,omitempty"`
	EstimatedDelivery     *Timestamp    `json:"estimatedDelivery,omitempty"`
	TotalItems            int           `json:"totalItems,omitempty"`
	TotalWeight           float64       `json:"totalWeight,omitempty"`
	TotalVolume           float64       `json:"totalVolume,omitempty"`
	ShipmentInfo          *ShipmentInfo `json:"shipmentInfo,omitempty"`
	Items                 []OrderItem   `json:"items,omitempty"`
}

// OrderItemRequest is one line of a submission.
type OrderItemRequest struct {
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderRequest is the order submission payload. The delivery date passes
// through as entered; the backend validates it.
type OrderRequest struct {
	ClientID              string             `json:"clientId"`
	ClientName            string             `json:"clientName"`
	DeliveryAddress       string             `json:"deliveryAddress"`
	RequestedDeliveryDate string             `json:"requestedDeliveryDate"`
	Items                 []OrderItemRequest `json:"items"`
}

// SubmitResponse is returned by a successful order submission.
type SubmitResponse struct {
	OrderID           int64      `json:"orderId"`
	Message           string     `json:"message,omitempty"`
	Status            string     `json:"status,omitempty"`
	SubmittedAt       *Timestamp `json:"submittedAt,omitempty"`
	TrackingReference string     `json:"trackingReference,omitempty"`
}

// SystemMetrics holds process-level resource figures.
type SystemMetrics struct {
	UsedMemory          string `json:"usedMemory"`
	TotalMemory         string `json:"totalMemory"`
	MemoryUsage         string `json:"memoryUsage"`
	AvailableProcessors int    `json:"availableProcessors"`
}

// AIMetrics is the optional automation-agent performance sub-record.
type AIMetrics struct {
	TotalOrdersProcessed  int64   `json:"totalOrdersProcessed"`
	AutomationSuccessRate float64 `json:"automationSuccessRate"`
	AverageProcessingTime string  `json:"averageProcessingTime"`
	CostSavings           string  `json:"costSavings"`
	Uptime                string  `json:"uptime"`
}

// MetricsSnapshot is the wholesale-replaced metrics resource.
type MetricsSnapshot struct {
	TotalOrdersProcessed  int64            `json:"totalOrdersProcessed"`
	TotalErrors           int64            `json:"totalErrors"`
	ErrorRate             string           `json:"errorRate"`
	AverageProcessingTime string           `json:"averageProcessingTime"`
	Throughput            string           `json:"throughput"`
	ElapsedTime           string           `json:"elapsedTime"`
	OrdersByStatus        map[string]int64 `json:"ordersByStatus"`
	SystemMetrics         SystemMetrics    `json:"systemMetrics"`
	Status                string           `json:"status"`
	Healthy               bool             `json:"healthy"`
	Timestamp             int64            `json:"timestamp,omitempty"`
	AIMetrics             *AIMetrics       `json:"aiMetrics,omitempty"`
}

// Health is the actuator health probe result.
type Health struct {
	Status string `json:"status"`
}

// MonitoringResponse acknowledges a monitoring start/stop toggle.
type MonitoringResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BulkOrdersResponse acknowledges an asynchronous bulk generation run.
type BulkOrdersResponse struct {
	Message           string `json:"message"`
	OrderCount        int    `json:"orderCount"`
	Intensity         string `json:"intensity"`
	Status            string `json:"status"`
	EstimatedDuration string `json:"estimatedDuration,omitempty"`
}

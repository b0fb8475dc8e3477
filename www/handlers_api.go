package www

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"logidash/backend"
)

// --- Resource snapshots ---

func (h *Handlers) apiStats(w http.ResponseWriter, r *http.Request) {
	res := h.engine.Stats()
	view := resourceView{
		Status:    string(res.Status()),
		Error:     res.LastError(),
		UpdatedAt: res.UpdatedAt(),
	}
	if snap, ok := res.Snapshot(); ok {
		view.Data = snap
	}
	writeJSON(w, view)
}

func (h *Handlers) apiOrders(w http.ResponseWriter, r *http.Request) {
	res := h.engine.Orders()
	view := resourceView{
		Status:    string(res.Status()),
		Error:     res.LastError(),
		UpdatedAt: res.UpdatedAt(),
	}
	if snap, ok := res.Snapshot(); ok {
		view.Data = snap
	}
	writeJSON(w, view)
}

func (h *Handlers) apiMetrics(w http.ResponseWriter, r *http.Request) {
	res := h.engine.Metrics()
	view := resourceView{
		Status:    string(res.Status()),
		Error:     res.LastError(),
		UpdatedAt: res.UpdatedAt(),
	}
	if snap, ok := res.Snapshot(); ok {
		view.Data = snap
	}
	writeJSON(w, view)
}

// --- Refresh triggers ---

func (h *Handlers) apiRefresh(w http.ResponseWriter, r *http.Request) {
	h.engine.RefreshDashboard()
	h.engine.Metrics().Refresh()
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) apiAutoRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.engine.SetAutoRefresh(req.Enabled)
	writeJSON(w, map[string]bool{"enabled": req.Enabled})
}

// --- Commands ---

func (h *Handlers) apiSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID              string  `json:"clientId"`
		ClientName            string  `json:"clientName"`
		DeliveryAddress       string  `json:"deliveryAddress"`
		RequestedDeliveryDate string  `json:"requestedDeliveryDate"`
		SKU                   string  `json:"sku"`
		Quantity              int     `json:"quantity"`
		UnitPrice             float64 `json:"unitPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The form carries exactly one line item; field validation is the
	// backend's job and any rejection comes back as its error message.
	order := &backend.OrderRequest{
		ClientID:              req.ClientID,
		ClientName:            req.ClientName,
		DeliveryAddress:       req.DeliveryAddress,
		RequestedDeliveryDate: req.RequestedDeliveryDate,
		Items: []backend.OrderItemRequest{
			{SKU: req.SKU, Quantity: req.Quantity, UnitPrice: req.UnitPrice},
		},
	}

	resp, err := h.engine.SubmitOrder(order, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error submitting order: "+err.Error())
		return
	}
	writeJSON(w, map[string]interface{}{
		"orderId":           resp.OrderID,
		"message":           fmt.Sprintf("Order submitted successfully! Order ID: %d", resp.OrderID),
		"trackingReference": resp.TrackingReference,
	})
}

func (h *Handlers) apiLookupOrder(w http.ResponseWriter, r *http.Request) {
	orderID := strings.TrimSpace(r.URL.Query().Get("id"))
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "Please enter an Order ID")
		return
	}

	order, err := h.engine.LookupOrder(orderID)
	if err != nil {
		// Not-found and other failures are indistinguishable to the user.
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, order)
}

func (h *Handlers) apiWarehouseOp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShipmentID string `json:"shipmentId"`
		Operation  string `json:"operation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ShipmentID) == "" {
		writeError(w, http.StatusBadRequest, "Please enter a Shipment ID")
		return
	}
	if !backend.IsValidOp(req.Operation) {
		writeError(w, http.StatusBadRequest, "unknown warehouse operation")
		return
	}

	msg, err := h.engine.WarehouseOp(req.ShipmentID, req.Operation, h.actor(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error: "+err.Error())
		return
	}
	label := strings.ReplaceAll(req.Operation, "-", " ")
	if msg == "" {
		msg = label + " completed successfully"
	}
	writeJSON(w, map[string]string{
		"message": label + " completed successfully",
		"detail":  msg,
	})
}

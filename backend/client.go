package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the single point of outbound communication with the order
// backend. Every method issues exactly one request: no retries, no batching,
// no in-flight de-duplication.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) get(path string, result any) error {
	log.Printf("backend: GET %s", path)
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		log.Printf("backend: GET %s: %v", path, err)
		return fmt.Errorf("backend GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(path, resp, result)
}

func (c *Client) post(path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	log.Printf("backend: POST %s", path)
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bodyReader)
	if err != nil {
		log.Printf("backend: POST %s: %v", path, err)
		return fmt.Errorf("backend POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	return c.decode(path, resp, result)
}

// postText issues a POST and returns the raw response body. The warehouse
// transition endpoints answer with plain text, not JSON.
func (c *Client) postText(path string) (string, error) {
	log.Printf("backend: POST %s", path)
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", nil)
	if err != nil {
		log.Printf("backend: POST %s: %v", path, err)
		return "", fmt.Errorf("backend POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("backend read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		log.Printf("backend: POST %s: HTTP %d", path, resp.StatusCode)
		return "", errorFromBody(resp.StatusCode, data)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *Client) decode(path string, resp *http.Response, result any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		log.Printf("backend: %s: HTTP %d", path, resp.StatusCode)
		return errorFromBody(resp.StatusCode, data)
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("backend decode: %w", err)
		}
	}
	return nil
}

// errorFromBody normalizes a non-success response to a single message:
// structured "message" field, then "error" field, then the raw body, then a
// generic status-line fallback.
func errorFromBody(status int, data []byte) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return fmt.Errorf("%s", body.Message)
		}
		if body.Error != "" {
			return fmt.Errorf("%s", body.Error)
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" && !strings.HasPrefix(text, "{") {
		return fmt.Errorf("%s", text)
	}
	return fmt.Errorf("request failed with status %d", status)
}

// Stats fetches the aggregate order counts.
func (c *Client) Stats() (*Stats, error) {
	var s Stats
	if err := c.get("/api/orders/stats", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// OrdersByStatus lists orders currently in one lifecycle status.
func (c *Client) OrdersByStatus(status string) ([]Order, error) {
	var orders []Order
	if err := c.get("/api/orders/status/"+url.PathEscape(status), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderStatus fetches one order's detail.
func (c *Client) OrderStatus(orderID string) (*Order, error) {
	var o Order
	if err := c.get("/api/orders/"+url.PathEscape(orderID)+"/status", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// SubmitOrder submits a new order and returns the assigned ID.
func (c *Client) SubmitOrder(req *OrderRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post("/api/orders/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WarehouseOp invokes a named transition on a shipment. The shipment ID is
// passed through as entered; the backend owns validation.
func (c *Client) WarehouseOp(shipmentID, op string) (string, error) {
	if !IsValidOp(op) {
		return "", fmt.Errorf("unknown warehouse operation %q", op)
	}
	return c.postText("/api/warehouse/shipments/" + url.PathEscape(shipmentID) + "/" + op)
}

// CurrentMetrics fetches the current performance snapshot.
func (c *Client) CurrentMetrics() (*MetricsSnapshot, error) {
	var m MetricsSnapshot
	if err := c.get("/api/metrics/current", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Health probes the backend health endpoint.
func (c *Client) Health() (*Health, error) {
	var h Health
	if err := c.get("/actuator/health", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// StartMonitoring enables backend performance monitoring.
func (c *Client) StartMonitoring() (*MonitoringResponse, error) {
	var resp MonitoringResponse
	if err := c.post("/api/metrics/monitoring/start", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopMonitoring disables backend performance monitoring.
func (c *Client) StopMonitoring() (*MonitoringResponse, error) {
	var resp MonitoringResponse
	if err := c.post("/api/metrics/monitoring/stop", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recommendations fetches performance recommendations. The shape is
// backend-defined, so it stays a free-form map.
func (c *Client) Recommendations() (map[string]any, error) {
	var recs map[string]any
	if err := c.get("/api/metrics/recommendations", &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// GenerateBulkOrders starts asynchronous synthetic order generation.
func (c *Client) GenerateBulkOrders(count int, intensity string) (*BulkOrdersResponse, error) {
	q := url.Values{}
	q.Set("count", fmt.Sprint(count))
	q.Set("intensity", intensity)
	var resp BulkOrdersResponse
	if err := c.post("/api/testing/bulk-orders?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunScenario triggers a named load-test scenario.
func (c *Client) RunScenario(name string) (map[string]any, error) {
	var resp map[string]any
	if err := c.post("/api/testing/scenarios/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

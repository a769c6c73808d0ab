// Package apiclient is a small Go client for the tableside HTTP API.
//
// Calls retry transport failures up to a fixed bound with no backoff and
// abort immediately on context cancellation. HTTP-level errors (400, 404)
// are never retried; they surface as *APIError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/tableside/tableside/internal/order"
)

// maxAttempts bounds transport retries per call.
const maxAttempts = 3

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ClientInfo is the customer identity attached to a submission.
type ClientInfo struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Date  string `json:"date,omitempty"`
}

// OrderLine is one menu item with its quantity.
type OrderLine struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	State    bool    `json:"state"`
	Quantity int     `json:"quantity"`
}

// OrderDetail is the full server-side order state.
type OrderDetail struct {
	ID        int64       `json:"id"`
	Cliente   ClientInfo  `json:"cliente"`
	Productos []OrderLine `json:"productos"`
	Estado    string      `json:"estado"`
	Total     float64     `json:"total"`
}

// MenuItem is one catalog entry.
type MenuItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	State    bool    `json:"state"`
}

// SubmitOrderRequest is the submission payload.
type SubmitOrderRequest struct {
	Name      string
	Phone     string
	Estado    string
	Productos []OrderLine
}

// FromCartLines converts domain cart lines into wire order lines.
func FromCartLines(lines []order.Line) []OrderLine {
	out := make([]OrderLine, len(lines))
	for i, l := range lines {
		out[i] = OrderLine{
			ID:       l.ItemID,
			Name:     l.Name,
			Price:    l.Price.InexactFloat64(),
			Image:    l.Image,
			Category: l.Category,
			State:    l.Available,
			Quantity: l.Quantity,
		}
	}
	return out
}

// Config holds client settings.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string
	// HTTPClient overrides the default client (10s timeout) when set.
	HTTPClient *http.Client
}

// Client talks to the tableside API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    hc,
	}
}

// CreateSession asks the server for a fresh client id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.call(ctx, http.MethodGet, "/sessions", nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// SubmitOrder submits the cart for clientID and returns the reservation
// code (the client id, echoed by the server).
func (c *Client) SubmitOrder(ctx context.Context, clientID string, req SubmitOrderRequest) (string, error) {
	body := struct {
		Cliente   ClientInfo  `json:"cliente"`
		Productos []OrderLine `json:"productos"`
		Estado    string      `json:"estado"`
	}{
		Cliente:   ClientInfo{Name: req.Name, Phone: req.Phone},
		Productos: req.Productos,
		Estado:    req.Estado,
	}

	var resp struct {
		Message     string `json:"message"`
		Reservation string `json:"reservation"`
	}
	if err := c.call(ctx, http.MethodPost, "/orders/"+clientID, body, &resp); err != nil {
		return "", err
	}
	return resp.Reservation, nil
}

// LookupReservation fetches the full order detail for clientID.
func (c *Client) LookupReservation(ctx context.Context, clientID string) (*OrderDetail, error) {
	var resp struct {
		Message string      `json:"message"`
		Pedido  OrderDetail `json:"pedido"`
	}
	if err := c.call(ctx, http.MethodGet, "/reservations/"+clientID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Pedido, nil
}

// Orders lists every order on the server.
func (c *Client) Orders(ctx context.Context) ([]OrderDetail, error) {
	var resp []OrderDetail
	if err := c.call(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Menu fetches the catalog.
func (c *Client) Menu(ctx context.Context) ([]MenuItem, error) {
	var resp []MenuItem
	if err := c.call(ctx, http.MethodGet, "/menu", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// call performs one API request with bounded transport retries, decoding a
// 2xx body into out and any other response into *APIError.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return errors.Wrap(err, "build request")
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Transport failure: retry immediately, no backoff.
			lastErr = err
			continue
		}

		return decodeResponse(resp, out)
	}

	return errors.Wrapf(lastErr, "request failed after %d attempts", maxAttempts)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// Package delhivery is the outbound adapter for the Delhivery shipping
// API. It is the only package that talks to the carrier; the rest of the
// backend sees the CreateShipment/CancelShipment pair and never the wire
// format.
package delhivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"kirana/models"
)

const (
	defaultBaseURL = "https://track.delhivery.com"
	defaultTimeout = 15 * time.Second
	maxAttempts    = 3
	retryBackoff   = 500 * time.Millisecond
)

type Client struct {
	BaseURL   string
	APIKey    string
	PickupPin string
	HTTP      *http.Client
}

// NewClientFromEnv builds a client from DELHIVERY_BASE_URL,
// DELHIVERY_API_KEY and PICKUP_PIN.
func NewClientFromEnv() *Client {
	baseURL := os.Getenv("DELHIVERY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pickupPin := os.Getenv("PICKUP_PIN")
	if pickupPin == "" {
		pickupPin = "600001"
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		APIKey:    os.Getenv("DELHIVERY_API_KEY"),
		PickupPin: pickupPin,
		HTTP:      &http.Client{Timeout: defaultTimeout},
	}
}

// Package is one manifested parcel in a create response.
type Package struct {
	Waybill string `json:"waybill"`
}

// CreateResponse mirrors the carrier's manifest reply. Remark carries the
// human-readable failure reason when Success is false.
type CreateResponse struct {
	Success  bool      `json:"success"`
	Packages []Package `json:"packages"`
	Remark   string    `json:"rmk"`
}

// CancelResponse mirrors the carrier's cancellation reply.
type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type shipmentPayload struct {
	Name         string  `json:"name"`
	Add          string  `json:"add"`
	Pin          string  `json:"pin"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	Phone        string  `json:"phone"`
	OrderID      string  `json:"order"`
	PaymentMode  string  `json:"payment_mode"`
	CodAmount    float64 `json:"cod_amount"`
	TotalAmount  float64 `json:"total_amount"`
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
	ProductsDesc string  `json:"products_desc"`
}

type createPayload struct {
	Shipments      []shipmentPayload `json:"shipments"`
	PickupLocation map[string]string `json:"pickup_location"`
}

// CreateShipment manifests the order with Delhivery. A carrier-side
// rejection comes back as Success=false with a remark, not as an error;
// errors mean the call itself failed after retries.
func (c *Client) CreateShipment(ctx context.Context, order *models.Order) (*CreateResponse, error) {
	addr := order.DeliveryAddress
	mode := "Prepaid"
	cod := 0.0
	if order.PaymentMethod == models.PaymentMethodCOD {
		mode = "COD"
		cod = order.TotalAmount
	}

	qty := 0
	titles := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		qty += item.Quantity
		titles = append(titles, item.Title)
	}

	payload := createPayload{
		Shipments: []shipmentPayload{{
			Name:         addr.FullName,
			Add:          strings.TrimSpace(addr.AddressLine1 + " " + addr.AddressLine2),
			Pin:          order.DeliveryPin,
			City:         addr.City,
			State:        addr.State,
			Country:      "India",
			Phone:        addr.Phone,
			OrderID:      order.OrderID,
			PaymentMode:  mode,
			CodAmount:    cod,
			TotalAmount:  order.TotalAmount,
			Weight:       order.TotalWeight,
			Quantity:     qty,
			ProductsDesc: strings.Join(titles, ", "),
		}},
		PickupLocation: map[string]string{"pin": order.PickupPin},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// Delhivery's manifest endpoint takes form-wrapped JSON.
	form := url.Values{}
	form.Set("format", "json")
	form.Set("data", string(data))

	var out CreateResponse
	if err := c.do(ctx, "/api/cmu/create.json", "application/x-www-form-urlencoded", form.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelShipment asks the carrier to cancel a previously issued waybill.
func (c *Client) CancelShipment(ctx context.Context, waybill string) (*CancelResponse, error) {
	body, err := json.Marshal(map[string]string{
		"waybill":      waybill,
		"cancellation": "true",
	})
	if err != nil {
		return nil, err
	}

	var out CancelResponse
	if err := c.do(ctx, "/api/p/edit", "application/json", string(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do posts to the carrier with bounded retries on transport errors and
// 5xx replies. 4xx replies are decoded, not retried: the carrier answered.
func (c *Client) do(ctx context.Context, path, contentType, body string, out any) error {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff << (attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Token "+c.APIKey)

		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("delhivery %s: status %d", path, resp.StatusCode)
			continue
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("delhivery %s: malformed response: %w", path, err)
		}
		return nil
	}
	return fmt.Errorf("delhivery %s: %w", path, lastErr)
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrOrderNotFound distinguishes a stale reference (drop it) from a
// transport problem (keep local state, maybe retry).
var ErrOrderNotFound = errors.New("order not found")

// Order is the client-side read model of a server order.
type Order struct {
	ID                  uint        `json:"id"`
	OrderCode           string      `json:"order_code"`
	TableID             *uint       `json:"table_id"`
	Status              string      `json:"status"`
	PaymentStatus       string      `json:"payment_status"`
	TotalAmount         float64     `json:"total_amount"`
	DiscountAmount      float64     `json:"discount_amount"`
	FinalAmount         float64     `json:"final_amount"`
	SpecialInstructions string      `json:"special_instructions"`
	Items               []OrderLine `json:"items"`
	CreatedAt           time.Time   `json:"created_at"`
}

type OrderLine struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	PriceAtTime float64 `json:"price_at_time"`
	Quantity    int     `json:"quantity"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

type SubmitOrderRequest struct {
	TableID             *uint      `json:"table_id"`
	Items               []CartLine `json:"items"`
	TotalAmount         float64    `json:"total_amount"`
	SpecialInstructions string     `json:"special_instructions"`
}

// OrderClient talks to the order API.
type OrderClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type apiEnvelope struct {
	Success bool   `json:"success"`
	Order   *Order `json:"order"`
	Error   string `json:"error"`
}

// SubmitOrder posts the cart. On any error the caller must keep its cart;
// only an observed success response justifies clearing it.
func (c *OrderClient) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	env, _, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, errors.New("malformed response: order missing")
	}
	return env.Order, nil
}

// GetOrder fetches the full current state of one order.
func (c *OrderClient) GetOrder(ctx context.Context, id uint) (*Order, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/orders/%d", c.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}

	env, status, err := c.do(httpReq)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if env.Order == nil {
		return nil, errors.New("malformed response: order missing")
	}
	return env.Order, nil
}

func (c *OrderClient) do(req *http.Request) (*apiEnvelope, int, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		// the server's error text is safe to surface verbatim
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, resp.StatusCode, errors.New(msg)
	}
	return &env, resp.StatusCode, nil
}

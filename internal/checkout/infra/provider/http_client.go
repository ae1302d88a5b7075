package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shanedle/cipher-cart/internal/checkout/domain"
)

const sessionsPath = "/v1/checkout/sessions"

var ErrNotConfigured = errors.New("checkout provider is not configured")

// Client creates hosted checkout sessions over the provider's JSON API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type lineItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int64  `json:"quantity"`
}

type metadata struct {
	OrderNumber   string `json:"orderNumber"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	UserID        string `json:"userId"`
}

type sessionRequest struct {
	Mode       string     `json:"mode"`
	Currency   string     `json:"currency"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
	Metadata   metadata   `json:"metadata"`
	LineItems  []lineItem `json:"line_items"`
}

type sessionResponse struct {
	URL string `json:"url"`
}

type sessionState struct {
	ID            string   `json:"id"`
	PaymentStatus string   `json:"payment_status"`
	Metadata      metadata `json:"metadata"`
}

const paymentStatusPaid = "paid"

func (c *Client) CreateCheckoutSession(ctx context.Context, req domain.SessionRequest) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	body := sessionRequest{
		Mode:       "payment",
		Currency:   req.Currency,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata: metadata{
			OrderNumber:   req.Metadata.OrderNumber,
			CustomerName:  req.Metadata.CustomerName,
			CustomerEmail: req.Metadata.CustomerEmail,
			UserID:        req.Metadata.UserID,
		},
		LineItems: make([]lineItem, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		body.LineItems = append(body.LineItems, lineItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			UnitAmount: l.UnitAmount,
			Quantity:   l.Quantity,
		})
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+sessionsPath, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)
	httpReq.Header.Set("Idempotency-Key", req.Metadata.OrderNumber)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("create checkout session: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode checkout session: %w", err)
	}
	return out.URL, nil
}

// GetCheckoutSession looks a session up by the id the provider substituted
// into the success url.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (domain.SessionState, error) {
	if c.endpoint == "" {
		return domain.SessionState{}, ErrNotConfigured
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+sessionsPath+"/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return domain.SessionState{}, err
	}
	c.authorize(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("get checkout session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.SessionState{}, fmt.Errorf("get checkout session: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out sessionState
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode checkout session: %w", err)
	}
	return domain.SessionState{
		ID:          out.ID,
		OrderNumber: out.Metadata.OrderNumber,
		Paid:        out.PaymentStatus == paymentStatusPaid,
	}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

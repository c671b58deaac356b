package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"food-dash/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Client talks to the external payment gateway over HTTP. Gateway failures
// are reported as model.ErrPaymentGateway so callers can decide whether the
// failure is fatal for their flow.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new payment gateway client.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With().Str("component", "payment").Logger(),
	}
}

// PaymentForOrder retrieves the gateway's payment record for an order.
// Returns (nil, nil) when the gateway knows no payment for the order, which
// is the normal case for cash orders.
func (c *Client) PaymentForOrder(ctx context.Context, orderID uuid.UUID) (*model.Payment, error) {
	url := fmt.Sprintf("%s/v1/payments?orderId=%s", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("payment lookup failed")
		return nil, fmt.Errorf("%w: %v", model.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("order_id", orderID.String()).
			Str("body", string(body)).
			Msg("payment lookup returned unexpected status")
		return nil, fmt.Errorf("%w: lookup returned status %d", model.ErrPaymentGateway, resp.StatusCode)
	}

	var payment model.Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode payment: %v", model.ErrPaymentGateway, err)
	}

	return &payment, nil
}

// Refund asks the gateway to return the given amount for an order.
func (c *Client) Refund(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, reason string) (*model.Refund, error) {
	payload, err := json.Marshal(map[string]any{
		"orderId": orderID,
		"amount":  amount,
		"reason":  reason,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode refund request: %w", err)
	}

	url := c.baseURL + "/v1/refunds"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build refund request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("refund request failed")
		return nil, fmt.Errorf("%w: %v", model.ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("order_id", orderID.String()).
			Str("body", string(body)).
			Msg("refund returned unexpected status")
		return nil, fmt.Errorf("%w: refund returned status %d", model.ErrPaymentGateway, resp.StatusCode)
	}

	var refund model.Refund
	if err := json.NewDecoder(resp.Body).Decode(&refund); err != nil {
		return nil, fmt.Errorf("%w: failed to decode refund: %v", model.ErrPaymentGateway, err)
	}

	c.logger.Info().
		Str("order_id", orderID.String()).
		Str("refund_id", refund.ID).
		Str("amount", amount.String()).
		Msg("refund issued")

	return &refund, nil
}

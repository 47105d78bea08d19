// Package gateway talks to the Pi platform payments API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/saulmartinx/wolk/internal/domain"
)

// DefaultBaseURL is the public Pi platform API
const DefaultBaseURL = "https://api.minepi.com"

// maxBodySize caps how much of a gateway response is read
const maxBodySize = 1 << 20

// Config holds payment gateway client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client issues authenticated requests to the payment network.
// Every call is a single attempt; callers decide whether to retry.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new gateway client. A nil httpClient gets a default one
// using cfg.Timeout.
func NewClient(cfg *Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gateway api key is required")
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *Client) paymentURL(paymentID string, suffix ...string) string {
	parts := append([]string{c.baseURL, "v2", "payments", url.PathEscape(paymentID)}, suffix...)
	return strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Payment gateway request failed",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.Any("error", err),
		)
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrGatewayUnavailable, err)
	}

	c.logger.Debug("Payment gateway responded",
		slog.String("method", method),
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
	)

	return resp.StatusCode, respBody, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Approve asks the payment network to approve paymentID.
// A non-2xx response yields domain.ErrPaymentApprovalRejected.
func (c *Client) Approve(ctx context.Context, paymentID string) error {
	status, body, err := c.do(ctx, http.MethodPost, c.paymentURL(paymentID, "approve"), []byte("{}"))
	if err != nil {
		return err
	}

	if !isSuccess(status) {
		c.logger.Warn("Payment approval rejected by gateway",
			slog.String("payment_id", paymentID),
			slog.Int("status", status),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("%w: gateway returned status %d", domain.ErrPaymentApprovalRejected, status)
	}

	return nil
}

// Verify fetches the authoritative payment details for paymentID.
// It returns nil details and no error when the gateway has nothing usable.
func (c *Client) Verify(ctx context.Context, paymentID string) (*domain.PaymentDetails, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.paymentURL(paymentID), nil)
	if err != nil {
		return nil, err
	}

	if !isSuccess(status) {
		c.logger.Warn("Payment verification returned no data",
			slog.String("payment_id", paymentID),
			slog.Int("status", status),
		)
		return nil, nil
	}

	var details domain.PaymentDetails
	if err := json.Unmarshal(body, &details); err != nil {
		c.logger.Warn("Payment verification payload is not valid JSON",
			slog.String("payment_id", paymentID),
			slog.Any("error", err),
		)
		return nil, nil
	}
	details.Raw = json.RawMessage(body)

	return &details, nil
}

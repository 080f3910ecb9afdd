// Package storefront pushes order status changes back to the upstream
// storefront's REST API so the shop reflects what the reconciliation engine
// decided.
package storefront

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

	"github.com/orderdesk/etransfer/internal/backoff"
	"github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/metrics"
)

// Config holds storefront API settings.
type Config struct {
	// BaseURL is the API root, e.g. "https://shop.example.com/wp-json/wc/v3".
	BaseURL  string
	Username string
	Password string
	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// RetryBaseDelay is the first retry delay; it doubles per attempt.
	RetryBaseDelay time.Duration
}

// maxRetryDelay caps the doubling retry delay.
const maxRetryDelay = 30 * time.Second

// Client is an HTTP client for the storefront order API.
type Client struct {
	config     Config
	httpClient *http.Client
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewClient creates a new Client.
func NewClient(config Config, businessMetrics metrics.BusinessMetrics, logger *slog.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		metrics:    businessMetrics,
		logger:     logger,
	}
}

type metaEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type orderUpdateRequest struct {
	Status   string      `json:"status"`
	MetaData []metaEntry `json:"meta_data"`
}

// SyncOrderStatus updates the storefront order's status. Transport errors and
// 5xx responses are retried with exponential backoff; 4xx responses are final.
func (c *Client) SyncOrderStatus(ctx context.Context, externalOrderID, status string) error {
	payload, err := json.Marshal(orderUpdateRequest{
		Status: status,
		MetaData: []metaEntry{
			{Key: "_etransfer_reconciled_at", Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		return errors.Wrap(err, "failed to encode order update")
	}

	endpoint := fmt.Sprintf("%s/orders/%s",
		strings.TrimRight(c.config.BaseURL, "/"),
		url.PathEscape(externalOrderID),
	)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries+1; attempt++ {
		if attempt > 1 {
			delay := backoff.Delay(attempt-1, c.config.RetryBaseDelay, maxRetryDelay)
			c.logger.Warn("retrying storefront sync",
				slog.String("external_order_id", externalOrderID),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.Any("error", lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		retryable, err := c.doUpdate(ctx, endpoint, payload)
		if err == nil {
			c.metrics.RecordOperation(ctx, "storefront", "sync_status", "success")
			return nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	c.metrics.RecordOperation(ctx, "storefront", "sync_status", "error")
	return errors.Wrap(lastErr, "storefront sync failed")
}

// doUpdate performs one PUT attempt. The bool reports whether the failure is
// worth retrying.
func (c *Client) doUpdate(ctx context.Context, endpoint string, payload []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return false, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused across retries.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return false, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, errors.Wrap(errors.ErrNotFound, "storefront order not found")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return false, errors.Wrap(errors.ErrUnauthorized, "storefront rejected credentials")
	case resp.StatusCode >= 500:
		return true, errors.New(fmt.Sprintf("storefront returned status %d", resp.StatusCode))
	default:
		return false, errors.New(fmt.Sprintf("storefront returned status %d", resp.StatusCode))
	}
}

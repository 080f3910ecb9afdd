package storefront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/metrics"
)

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(
		Config{
			BaseURL:        baseURL,
			Username:       "ck_test",
			Password:       "cs_test",
			Timeout:        time.Second,
			MaxRetries:     maxRetries,
			RetryBaseDelay: time.Millisecond,
		},
		metrics.NewNoOpBusinessMetrics(),
		slog.New(slog.DiscardHandler),
	)
}

func TestClient_SyncOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsAuthenticatedPut", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody orderUpdateRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path

			username, password, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "ck_test", username)
			assert.Equal(t, "cs_test", password)

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 0).SyncOrderStatus(ctx, "wc-100", "completed")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/orders/wc-100", gotPath)
		assert.Equal(t, "completed", gotBody.Status)
		require.Len(t, gotBody.MetaData, 1)
		assert.Equal(t, "_etransfer_reconciled_at", gotBody.MetaData[0].Key)
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		var attempts int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 3).SyncOrderStatus(ctx, "wc-100", "completed")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("GivesUpAfterMaxRetries", func(t *testing.T) {
		var attempts int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 2).SyncOrderStatus(ctx, "wc-100", "completed")
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("NotFoundIsNotRetried", func(t *testing.T) {
		var attempts int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 3).SyncOrderStatus(ctx, "wc-404", "completed")
		assert.ErrorIs(t, err, appErrors.ErrNotFound)
		assert.Equal(t, 1, attempts)
	})

	t.Run("BadCredentialsAreNotRetried", func(t *testing.T) {
		var attempts int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 3).SyncOrderStatus(ctx, "wc-100", "completed")
		assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
		assert.Equal(t, 1, attempts)
	})

	t.Run("TransportErrorIsRetried", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		err := newTestClient(server.URL, 1).SyncOrderStatus(ctx, "wc-100", "completed")
		require.Error(t, err)
	})

	t.Run("EscapesExternalOrderID", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := newTestClient(server.URL, 0).SyncOrderStatus(ctx, "a/b", "completed")
		require.NoError(t, err)
		assert.Equal(t, "/orders/a%2Fb", gotPath)
	})
}

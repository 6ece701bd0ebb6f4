package paymentapi

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pay", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req models.PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.PaymentRequest{RecipientNumber: "254712345678", Amount: 50, PayerNumber: "254798765432"}, req)

		_, _ = w.Write([]byte(`{"CheckoutRequestID":"abc123","message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	resp, err := c.InitiatePayment(context.Background(), models.PaymentRequest{
		RecipientNumber: "254712345678", Amount: 50, PayerNumber: "254798765432",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.ReferenceID())
}

func TestInitiatePaymentServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Invalid phone number"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).InitiatePayment(context.Background(), models.PaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.Server, errors.KindOf(err))
	assert.Equal(t, "Invalid phone number", errors.MessageOf(err))
}

func TestServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).TransactionStatus(context.Background(), "abc123")
	require.Error(t, err)
	assert.Equal(t, errors.Server, errors.KindOf(err))
	assert.Equal(t, "Server failed. Try again.", errors.MessageOf(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).InitiatePayment(context.Background(), models.PaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, errors.Network, errors.KindOf(err))
}

func TestTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction-status/ws_CO_1%2F2", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"status":"COMPLETED","completedAt":"2024-01-01T00:00:00Z","mpesaReceiptNumber":"QKL1ABC"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second).TransactionStatus(context.Background(), "ws_CO_1/2")
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", resp.Status)
	assert.True(t, resp.CompletedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "QKL1ABC", resp.MpesaReceiptNumber)
	assert.True(t, resp.CreatedAt.IsZero())
}

func TestTransactionStatusUnreadableTimestamps(t *testing.T) {
	for name, completedAt := range map[string]string{
		"null":        `null`,
		"empty":       `""`,
		"no timezone": `"2024-01-01 00:00:00"`,
		"epoch":       `1704067200000`,
		"object":      `{"seconds":1}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"COMPLETED","completedAt":` + completedAt + `,"createdAt":""}`))
			}))
			defer srv.Close()

			resp, err := NewClient(srv.URL, time.Second).TransactionStatus(context.Background(), "abc123")
			require.NoError(t, err)
			assert.Equal(t, "COMPLETED", resp.Status)
			assert.True(t, resp.CompletedAt.IsZero())
			assert.True(t, resp.CreatedAt.IsZero())
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewClient(srv.URL, 50*time.Millisecond).TransactionStatus(context.Background(), "slow")
	require.Error(t, err)
	assert.Equal(t, errors.Network, errors.KindOf(err))
}

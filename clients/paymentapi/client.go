package paymentapi

import (
	// Go Internal Packages
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"
)

const maxErrorBody = 4 << 10

// Client talks to the remote payment API that initiates M-Pesa prompts and
// owns the ground truth of every transaction.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitiatePayment sends POST /pay. A non-2xx reply yields a Server error
// carrying the API's own message when it sent one.
func (c *Client) InitiatePayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.E(errors.Internal, "cannot encode payment request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return nil, errors.E(errors.Internal, "cannot build payment request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	var resp models.PaymentResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransactionStatus sends GET /transaction-status/{referenceId}
func (c *Client) TransactionStatus(ctx context.Context, referenceID string) (*models.StatusResponse, error) {
	endpoint := fmt.Sprintf("%s/transaction-status/%s", c.baseURL, url.PathEscape(referenceID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.E(errors.Internal, "cannot build status request", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	var resp models.StatusResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NetworkErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.ServerErr(resp.StatusCode, errorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.E(errors.Server, "Server sent an unreadable response.", err)
	}
	return nil
}

// errorMessage pulls "error" or "message" out of a JSON error body
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var apiErr models.APIError
	if err := json.Unmarshal(raw, &apiErr); err != nil {
		return ""
	}
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return apiErr.Message
}

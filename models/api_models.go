package models

import (
	// Go Internal Packages
	"encoding/json"
	"strings"
	"time"
)

// PaymentRequest is the body of POST /pay on the payment API
type PaymentRequest struct {
	RecipientNumber string  `json:"recipientNumber"`
	Amount          float64 `json:"amount"`
	PayerNumber     string  `json:"payerNumber"`
}

// PaymentResponse is what POST /pay answers. CheckoutRequestID is the
// canonical reference field; TransID is accepted from older deployments.
type PaymentResponse struct {
	CheckoutRequestID string `json:"CheckoutRequestID"`
	TransID           string `json:"transID"`
	Message           string `json:"message"`
	Error             string `json:"error"`
}

// ReferenceID returns the identifier the API assigned, or "".
func (p *PaymentResponse) ReferenceID() string {
	if p.CheckoutRequestID != "" {
		return p.CheckoutRequestID
	}
	return p.TransID
}

// StatusResponse is the body of GET /transaction-status/{referenceId}
type StatusResponse struct {
	Status             string    `json:"status"`
	CompletedAt        Timestamp `json:"completedAt"`
	CreatedAt          Timestamp `json:"createdAt"`
	MpesaReceiptNumber string    `json:"mpesaReceiptNumber,omitempty"`
}

// Timestamp is a time reported by the payment API. Only RFC 3339 strings are
// understood; null, empty strings, numbers and other layouts decode to the
// zero time so a bad timestamp never hides the status next to it.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s)); err == nil {
		t.Time = parsed
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// APIError is the error shape the payment API uses on non-2xx replies
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusEvent is published whenever reconciliation moves a record to a
// terminal state
type StatusEvent struct {
	ReferenceID   string    `json:"reference_id"`
	Status        Status    `json:"status"`
	Amount        string    `json:"amount"`
	ReceiptNumber string    `json:"receipt_number,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ProducerConfig struct {
	Brokers []string
	Topic   string
	Name    string
}

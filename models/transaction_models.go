package models

import (
	// Go Internal Packages
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	// External Packages
	"github.com/google/uuid"
)

// SchemaVersion is the version of the stored record layout. Version 1 keyed
// records by "transID"; version 2 keys them by referenceId.
const SchemaVersion = 2

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// ParseStatus upper-cases and trims a status reported by the payment API.
// Unknown values are kept as-is so they can be rendered literally.
func ParseStatus(s string) Status {
	return Status(strings.ToUpper(strings.TrimSpace(s)))
}

func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsTerminal reports whether s is a final state. Anything the API reports
// other than PENDING counts as terminal.
func (s Status) IsTerminal() bool {
	return s != "" && s != StatusPending
}

type TransactionRecord struct {
	ReferenceID     string     `json:"referenceId" bson:"_id"`
	RecipientNumber string     `json:"recipientNumber" bson:"recipient_number"`
	PayerNumber     string     `json:"payerNumber,omitempty" bson:"payer_number,omitempty"`
	Amount          string     `json:"amount" bson:"amount"`
	Status          Status     `json:"status" bson:"status"`
	ReceiptNumber   string     `json:"receiptNumber,omitempty" bson:"receipt_number,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty" bson:"updated_at,omitempty"`
}

// AmountValue parses the stored amount. ok is false for anything that is not
// a finite number.
func (t *TransactionRecord) AmountValue() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.Amount), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// LastActivity is UpdatedAt when set, CreatedAt otherwise.
func (t *TransactionRecord) LastActivity() time.Time {
	if t.UpdatedAt != nil && !t.UpdatedAt.IsZero() {
		return *t.UpdatedAt
	}
	return t.CreatedAt
}

// Transition returns a copy of the record moved to status at updatedAt.
// A terminal record never goes back to PENDING.
func (t TransactionRecord) Transition(status Status, updatedAt time.Time, receipt string) (TransactionRecord, error) {
	if t.Status.IsTerminal() && status.IsPending() {
		return t, fmt.Errorf("record %s: cannot move from %s back to %s", t.ReferenceID, t.Status, status)
	}
	t.Status = status
	ts := updatedAt.UTC()
	t.UpdatedAt = &ts
	if receipt != "" {
		t.ReceiptNumber = receipt
	}
	return t, nil
}

// LocalReferenceID is the placeholder key used when the payment API did not
// hand back an identifier. The random suffix keeps two placeholders created in
// the same millisecond from replacing each other.
func LocalReferenceID(now time.Time) string {
	return fmt.Sprintf("local-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}

// TransactionStore is a durable key-value table of transaction records keyed
// by ReferenceID.
type TransactionStore interface {
	// Put upserts rec by ReferenceID, replacing any previous record.
	Put(ctx context.Context, rec TransactionRecord) error
	// GetAll returns every stored record in no particular order.
	GetAll(ctx context.Context) ([]TransactionRecord, error)
}

package history

import (
	// Go Internal Packages
	"context"
	"sort"
	"strconv"
	"time"

	// Local Packages
	models "daimapay/models"

	// External Packages
	"go.uber.org/zap"
)

const (
	EmptyMessage    = "No local transactions yet."
	NotAvailable    = "N/A"
	CurrencyPrefix  = "KES "
	timestampLayout = "02 Jan 2006, 15:04:05"
)

// Item is one rendered history row
type Item struct {
	ReferenceID string `json:"referenceId"`
	To          string `json:"to"`
	From        string `json:"from,omitempty"`
	Amount      string `json:"amount"`
	Status      string `json:"status"`
	Receipt     string `json:"receipt,omitempty"`
	Time        string `json:"time"`
}

type History struct {
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`
	Items   []Item `json:"items"`
}

type Renderer struct {
	Logger   *zap.Logger
	Store    models.TransactionStore
	Location *time.Location
}

func NewRenderer(logger *zap.Logger, store models.TransactionStore, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{Logger: logger, Store: store, Location: loc}
}

// Render reads every stored transaction and returns them newest first
func (r *Renderer) Render(ctx context.Context) (History, error) {
	records, err := r.Store.GetAll(ctx)
	if err != nil {
		r.Logger.Error("failed to load local transactions", zap.Error(err))
		return History{}, err
	}
	return r.Build(records), nil
}

// Build turns records into a display list. It never fails: bad amounts show
// as N/A and unknown statuses are shown as they are.
func (r *Renderer) Build(records []models.TransactionRecord) History {
	if len(records) == 0 {
		return History{Empty: true, Message: EmptyMessage, Items: []Item{}}
	}

	sorted := make([]models.TransactionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].LastActivity(), sorted[j].LastActivity()
		if !a.Equal(b) {
			return a.After(b)
		}
		return sorted[i].ReferenceID > sorted[j].ReferenceID
	})

	items := make([]Item, 0, len(sorted))
	for _, rec := range sorted {
		items = append(items, Item{
			ReferenceID: rec.ReferenceID,
			To:          rec.RecipientNumber,
			From:        rec.PayerNumber,
			Amount:      formatAmount(rec),
			Status:      string(rec.Status),
			Receipt:     rec.ReceiptNumber,
			Time:        r.formatTime(rec.LastActivity()),
		})
	}
	return History{Items: items}
}

func formatAmount(rec models.TransactionRecord) string {
	v, ok := rec.AmountValue()
	if !ok {
		return NotAvailable
	}
	return CurrencyPrefix + strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Renderer) formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.In(r.Location).Format(timestampLayout)
}

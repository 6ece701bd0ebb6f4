package memory

import (
	// Go Internal Packages
	"context"
	"sync"

	// Local Packages
	models "daimapay/models"
)

// TxRepository is an in-process transaction store. Nothing survives a
// restart; it backs the "memory" store driver and the tests.
type TxRepository struct {
	mu  sync.RWMutex
	txs map[string]models.TransactionRecord

	// Err, when set, is returned by every operation.
	Err error
}

func NewTxRepository() *TxRepository {
	return &TxRepository{txs: map[string]models.TransactionRecord{}}
}

func (r *TxRepository) Put(_ context.Context, rec models.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if rec.UpdatedAt != nil {
		ts := *rec.UpdatedAt
		rec.UpdatedAt = &ts
	}
	r.txs[rec.ReferenceID] = rec
	return nil
}

func (r *TxRepository) GetAll(_ context.Context) ([]models.TransactionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	txs := make([]models.TransactionRecord, 0, len(r.txs))
	for _, rec := range r.txs {
		txs = append(txs, rec)
	}
	return txs, nil
}

// Get returns the record stored under referenceID
func (r *TxRepository) Get(referenceID string) (models.TransactionRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.txs[referenceID]
	return rec, ok
}

// Len returns the number of stored records
func (r *TxRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.txs)
}

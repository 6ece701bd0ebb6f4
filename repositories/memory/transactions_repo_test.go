package memory

import (
	// Go Internal Packages
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	// Local Packages
	models "daimapay/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTxRepository()
	rec := models.TransactionRecord{
		ReferenceID:     "abc123",
		RecipientNumber: "254712345678",
		Amount:          "50",
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	require.NoError(t, repo.Put(ctx, rec))
	require.NoError(t, repo.Put(ctx, rec))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, rec, all[0])
}

func TestPutReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewTxRepository()
	require.NoError(t, repo.Put(ctx, models.TransactionRecord{ReferenceID: "a", Status: models.StatusPending, ReceiptNumber: "R1"}))
	require.NoError(t, repo.Put(ctx, models.TransactionRecord{ReferenceID: "a", Status: models.StatusCompleted}))

	got, ok := repo.Get("a")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Empty(t, got.ReceiptNumber)
}

func TestStoreUnavailable(t *testing.T) {
	repo := NewTxRepository()
	repo.Err = errors.New("quota exceeded")

	assert.Error(t, repo.Put(context.Background(), models.TransactionRecord{ReferenceID: "a"}))
	_, err := repo.GetAll(context.Background())
	assert.Error(t, err)
}

func TestConcurrentPuts(t *testing.T) {
	repo := NewTxRepository()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := "a"
			if i%2 == 0 {
				id = "b"
			}
			_ = repo.Put(context.Background(), models.TransactionRecord{ReferenceID: id})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 2, repo.Len())
}

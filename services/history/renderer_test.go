package history

import (
	// Go Internal Packages
	"context"
	"errors"
	"testing"
	"time"

	// Local Packages
	models "daimapay/models"
	memory "daimapay/repositories/memory"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRenderer(store models.TransactionStore) *Renderer {
	return NewRenderer(zap.NewNop(), store, time.UTC)
}

func TestEmptyStore(t *testing.T) {
	h, err := newRenderer(memory.NewTxRepository()).Render(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Empty)
	assert.Equal(t, EmptyMessage, h.Message)
	assert.Empty(t, h.Items)
}

func TestNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTxRepository()
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	updated := base.Add(3 * time.Hour)

	require.NoError(t, store.Put(ctx, models.TransactionRecord{ReferenceID: "old", Amount: "10", Status: models.StatusPending, CreatedAt: base}))
	require.NoError(t, store.Put(ctx, models.TransactionRecord{ReferenceID: "new", Amount: "20", Status: models.StatusPending, CreatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, store.Put(ctx, models.TransactionRecord{ReferenceID: "touched", Amount: "30", Status: models.StatusCompleted, CreatedAt: base.Add(time.Hour), UpdatedAt: &updated}))

	h, err := newRenderer(store).Render(ctx)
	require.NoError(t, err)
	require.False(t, h.Empty)
	require.Len(t, h.Items, 3)
	assert.Equal(t, "touched", h.Items[0].ReferenceID)
	assert.Equal(t, "new", h.Items[1].ReferenceID)
	assert.Equal(t, "old", h.Items[2].ReferenceID)
	assert.Equal(t, "01 Jan 2024, 11:00:00", h.Items[0].Time)
}

func TestMalformedAmountAndUnknownStatus(t *testing.T) {
	h := newRenderer(memory.NewTxRepository()).Build([]models.TransactionRecord{
		{ReferenceID: "a", RecipientNumber: "254712345678", Amount: "fifty", Status: models.Status("REVERSED"), CreatedAt: time.Now()},
		{ReferenceID: "b", RecipientNumber: "254712345678", Amount: "50.5", Status: models.StatusPending},
	})

	require.Len(t, h.Items, 2)
	assert.Equal(t, NotAvailable, h.Items[0].Amount)
	assert.Equal(t, "REVERSED", h.Items[0].Status)
	assert.Equal(t, "KES 50.5", h.Items[1].Amount)
	assert.Equal(t, NotAvailable, h.Items[1].Time)
}

func TestStoreFailure(t *testing.T) {
	store := memory.NewTxRepository()
	store.Err = errors.New("storage disabled")

	_, err := newRenderer(store).Render(context.Background())
	assert.Error(t, err)
}

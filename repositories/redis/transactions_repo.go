package redis

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"strconv"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	transactionsKey  = "daimapay:transactions"
	schemaVersionKey = "daimapay:schema_version"
)

// TxRepository keeps every transaction as one field of a single redis hash,
// the field being the reference id and the value the JSON record.
type TxRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewTxRepository(client *redis.Client, logger *zap.Logger) *TxRepository {
	return &TxRepository{client: client, logger: logger}
}

// Migrate wipes the hash when the stored schema version is not the current one
func (r *TxRepository) Migrate(ctx context.Context) error {
	stored, err := r.client.Get(ctx, schemaVersionKey).Result()
	if err != nil && err != redis.Nil {
		return errors.StorageUnavailableErr("migrate", err)
	}
	current := strconv.Itoa(models.SchemaVersion)
	if stored == current {
		return nil
	}
	if stored != "" {
		r.logger.Warn("transaction schema version mismatch, wiping local store",
			zap.String("stored", stored), zap.String("current", current))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, transactionsKey)
		pipe.Set(ctx, schemaVersionKey, current, 0)
		return nil
	})
	if err != nil {
		return errors.StorageUnavailableErr("migrate", err)
	}
	return nil
}

// Put upserts a transaction keyed by its reference id
func (r *TxRepository) Put(ctx context.Context, rec models.TransactionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.E(errors.Internal, "cannot encode transaction", err)
	}
	if err := r.client.HSet(ctx, transactionsKey, rec.ReferenceID, data).Err(); err != nil {
		return errors.StorageUnavailableErr("put", err)
	}
	return nil
}

// GetAll returns every stored transaction. Entries that no longer decode are
// logged and skipped.
func (r *TxRepository) GetAll(ctx context.Context) ([]models.TransactionRecord, error) {
	entries, err := r.client.HGetAll(ctx, transactionsKey).Result()
	if err != nil {
		return nil, errors.StorageUnavailableErr("get all", err)
	}

	txs := make([]models.TransactionRecord, 0, len(entries))
	for key, value := range entries {
		var rec models.TransactionRecord
		if err := json.Unmarshal([]byte(value), &rec); err != nil {
			r.logger.Error("failed to decode stored transaction", zap.String("key", key), zap.Error(err))
			continue
		}
		txs = append(txs, rec)
	}
	return txs, nil
}

package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"

	// External Packages
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	transactionsCollection = "transactions"
	metaCollection         = "meta"
	schemaDocID            = "schema"
)

type TxRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

type schemaDoc struct {
	ID      string `bson:"_id"`
	Version int    `bson:"version"`
}

// NewTxRepository returns a transaction store backed by the given database.
// Call Migrate before first use.
func NewTxRepository(client *mongo.Client, database string, logger *zap.Logger) *TxRepository {
	return &TxRepository{db: client.Database(database), logger: logger}
}

func (r *TxRepository) collection() *mongo.Collection {
	return r.db.Collection(transactionsCollection)
}

// Migrate compares the stored schema version with models.SchemaVersion and
// wipes the transactions collection on mismatch.
func (r *TxRepository) Migrate(ctx context.Context) error {
	meta := r.db.Collection(metaCollection)

	var doc schemaDoc
	err := meta.FindOne(ctx, bson.M{"_id": schemaDocID}).Decode(&doc)
	switch {
	case err == nil && doc.Version == models.SchemaVersion:
		return nil
	case err != nil && err != mongo.ErrNoDocuments:
		return errors.StorageUnavailableErr("migrate", err)
	}

	if err == nil {
		r.logger.Warn("transaction schema version mismatch, wiping local store",
			zap.Int("stored", doc.Version), zap.Int("current", models.SchemaVersion))
	}
	if err := r.collection().Drop(ctx); err != nil {
		return errors.StorageUnavailableErr("migrate", err)
	}

	opts := options.Replace().SetUpsert(true)
	_, err = meta.ReplaceOne(ctx, bson.M{"_id": schemaDocID}, schemaDoc{ID: schemaDocID, Version: models.SchemaVersion}, opts)
	if err != nil {
		return errors.StorageUnavailableErr("migrate", err)
	}
	return nil
}

// Put upserts a transaction keyed by its reference id
func (r *TxRepository) Put(ctx context.Context, rec models.TransactionRecord) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection().ReplaceOne(ctx, bson.M{"_id": rec.ReferenceID}, rec, opts)
	if err != nil {
		return errors.StorageUnavailableErr("put", err)
	}
	return nil
}

// GetAll returns every stored transaction
func (r *TxRepository) GetAll(ctx context.Context) ([]models.TransactionRecord, error) {
	cursor, err := r.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.StorageUnavailableErr("get all", err)
	}

	txs := []models.TransactionRecord{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, errors.StorageUnavailableErr("get all", err)
	}
	return txs, nil
}

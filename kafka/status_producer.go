package kafka

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	models "daimapay/models"

	// External Packages
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
)

type Producer struct {
	Client *kgo.Client
	Config *models.ProducerConfig
	Logger *zap.Logger
}

// NewStatusProducer creates a producer that writes status events to the
// configured topic, keyed by reference id.
func NewStatusProducer(conf *models.ProducerConfig, metrics *kprom.Metrics, logger *zap.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),    // Connects to Kafka brokers
		kgo.ClientID(conf.Name),             // Identifies this producer
		kgo.DefaultProduceTopic(conf.Topic), // Every record goes to a single topic
		kgo.WithHooks(metrics),              // Attaches monitoring hooks
		kgo.RequiredAcks(kgo.AllISRAcks()),  // Waits for all in-sync replicas
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &Producer{Client: client, Config: conf, Logger: logger}, nil
}

// Publish synchronously produces one status event
func (p *Producer) Publish(ctx context.Context, event models.StatusEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	record := &kgo.Record{Key: []byte(event.ReferenceID), Value: value}
	if err := p.Client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to produce status event: %w", err)
	}

	p.Logger.Debug("published status event",
		zap.String("reference_id", event.ReferenceID),
		zap.String("status", string(event.Status)))
	return nil
}

// Close flushes buffered records and closes the client
func (p *Producer) Close(ctx context.Context) {
	if err := p.Client.Flush(ctx); err != nil {
		p.Logger.Warn("failed to flush status events", zap.Error(err))
	}
	p.Client.Close()
}

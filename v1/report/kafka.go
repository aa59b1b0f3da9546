package report

import (
	"context"

	sarama "github.com/IBM/sarama"

	"github.com/mirkobrombin/go-spinlocks/v1/bench"
)

// DefaultKafkaTopic is the topic used when none is given.
const DefaultKafkaTopic = "spinlocks-results"

// Kafka sends every result as JSON to a topic, keyed by variant so results
// of one variant stay ordered within a partition.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafka connects a synchronous producer to brokers. A nil cfg uses
// sarama defaults.
func NewKafka(brokers []string, topic string, cfg *sarama.Config) (*Kafka, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	if !cfg.Producer.Return.Successes {
		cfg.Producer.Return.Successes = true
	}
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewKafkaWithProducer(producer, topic), nil
}

// NewKafkaWithProducer returns a Kafka sink using an existing producer.
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *Kafka {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	return &Kafka{producer: producer, topic: topic}
}

// Publish implements Sink.
func (s *Kafka) Publish(ctx context.Context, r bench.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(r)
	if err != nil {
		return err
	}
	_, _, err = s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(r.Variant.String()),
		Value: sarama.ByteEncoder(b),
	})
	return err
}

// Close closes the underlying producer.
func (s *Kafka) Close() error {
	return s.producer.Close()
}

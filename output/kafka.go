package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/queue-sim/sim"
)

// KafkaConfig selects the brokers and topic that receive JSON reports.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers" yaml:"brokers"` // comma-separated host:port list
	Topic   string `mapstructure:"topic" yaml:"topic"`
}

// DefaultKafkaTopic is used when no topic is configured.
const DefaultKafkaTopic = "queue-sim.reports"

// KafkaSink publishes the JSON report as one message keyed by run ID.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSink connects a synchronous producer to the configured brokers.
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = 30 * time.Second

	brokers := strings.Split(cfg.Brokers, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}
	logrus.Debugf("Sarama producer created with brokers %v", brokers)
	return NewKafkaSinkWithProducer(producer, cfg.Topic), nil
}

// NewKafkaSinkWithProducer uses an existing producer. An empty topic
// selects DefaultKafkaTopic.
func NewKafkaSinkWithProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	return &KafkaSink{producer: producer, topic: topic}
}

func (k *KafkaSink) Write(_ context.Context, r *sim.Report) error {
	data, err := marshalReport(r)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.ByteEncoder(data),
	}
	if r.RunID != "" {
		msg.Key = sarama.StringEncoder(r.RunID)
	}
	partition, offset, err := k.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send report to topic %s: %w", k.topic, err)
	}
	logrus.Debugf("report published to %s[%d]@%d", k.topic, partition, offset)
	return nil
}

func (k *KafkaSink) Close() error { return k.producer.Close() }

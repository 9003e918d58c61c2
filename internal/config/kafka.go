package config

import "github.com/segmentio/kafka-go"

// NewKafkaWriter returns a writer for the configured user topic, or nil when
// no brokers are configured.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{}, // same username, same partition
		AllowAutoTopicCreation: true,
	}
}

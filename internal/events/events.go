package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"staff-service/internal/entity"
)

const (
	UserCreated = "created"
	UserDeleted = "deleted"
)

// UserEvent describes a change to a stored user.
type UserEvent struct {
	Type       string      `json:"type"`
	User       entity.User `json:"user"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Publisher delivers user events somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, evt UserEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, UserEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }

// KafkaPublisher writes events to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt UserEvent) error {
	msg, err := message(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// message encodes evt. Keys look like user-created-alice so every event for
// one username lands on the same partition.
func message(evt UserEvent) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%s-%s", evt.Type, evt.User.Username)),
		Value: value,
		Time:  evt.OccurredAt,
	}, nil
}

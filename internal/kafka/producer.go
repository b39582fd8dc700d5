package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Bakar31/ai-task-manager/internal/app/models"
)

// TaskEvent is the wire format for task mutation events.
type TaskEvent struct {
	Action string      `json:"action"`
	Task   models.Task `json:"task"`
	At     time.Time   `json:"at"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(broker, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish emits one task event keyed by task id.
func (p *Producer) Publish(ctx context.Context, action string, task models.Task) error {
	value, err := json.Marshal(TaskEvent{Action: action, Task: task, At: time.Now()})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(task.ID.String()),
		Value: value,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Println("failed to write kafka message:", err)
		return err
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

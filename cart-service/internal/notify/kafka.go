package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fjod/rocketshoes/cart-service/internal/session"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "cart-notifications"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type notification struct {
	SessionID string    `json:"session_id"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// KafkaNotifier publishes messages keyed by session id so one session's
// notifications stay ordered on a partition.
type KafkaNotifier struct {
	writer messageWriter
	log    *logger.Logger
	now    func() time.Time
}

func NewKafkaNotifier(log *logger.Logger, topic string, brokers ...string) *KafkaNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.From(context.Background()).Error().Err(err).
					Int("count", len(messages)).
					Msg("failed to publish cart notifications")
			}
		},
	}
	return newKafkaNotifier(w, log)
}

func newKafkaNotifier(w messageWriter, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: w, log: log, now: time.Now}
}

func (n *KafkaNotifier) Notify(ctx context.Context, message string) {
	id, _ := session.FromContext(ctx)
	payload, err := json.Marshal(notification{
		SessionID: id,
		Message:   message,
		At:        n.now().UTC(),
	})
	if err != nil {
		n.log.Error(ctx, "failed to encode cart notification", err)
		return
	}

	// The request may be gone before an async batch flushes.
	err = n.writer.WriteMessages(context.WithoutCancel(ctx), kafka.Message{
		Key:   []byte(id),
		Value: payload,
	})
	if err != nil {
		n.log.Error(ctx, "failed to publish cart notification", err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

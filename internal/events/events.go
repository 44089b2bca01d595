// Package events streams match lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	RoomCreated  = "room_created"
	PlayerJoined = "player_joined"
	GameStarted  = "game_started"
	GameFinished = "game_finished"
	RoomClosed   = "room_closed"
)

type Event struct {
	Type     string    `json:"type"`
	RoomCode string    `json:"roomCode"`
	At       time.Time `json:"at"`
	Data     any       `json:"data,omitempty"`
}

//go:generate mockgen -package=mocks -destination=mocks/mock_publisher.go github.com/DoyleJ11/typerace-backend/internal/events Publisher

// Publisher emits events without blocking the caller.
type Publisher interface {
	Publish(e Event)
	Close() error
}

type Nop struct{}

func (Nop) Publish(Event) {}
func (Nop) Close() error  { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Kafka publishes through an async writer keyed by room code, so one
// room's events stay ordered on a single partition.
type Kafka struct {
	w   messageWriter
	log *zap.Logger
}

func NewKafka(cfg *KafkaConfig, log *zap.Logger) (*Kafka, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic cannot be empty")
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Warn("kafka delivery failed", zap.Int("messages", len(msgs)), zap.Error(err))
			}
		},
	}
	return &Kafka{w: w, log: log}, nil
}

func (k *Kafka) Publish(e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		k.log.Error("marshal event", zap.String("type", e.Type), zap.Error(err))
		return
	}
	// Async writer: this only enqueues.
	err = k.w.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(e.RoomCode),
		Value: value,
		Time:  e.At,
	})
	if err != nil {
		k.log.Warn("publish event", zap.String("type", e.Type), zap.String("room", e.RoomCode), zap.Error(err))
	}
}

func (k *Kafka) Close() error { return k.w.Close() }

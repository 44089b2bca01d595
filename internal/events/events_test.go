package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewKafka_Validation(t *testing.T) {
	_, err := NewKafka(nil, nil)
	assert.Error(t, err)

	_, err = NewKafka(&KafkaConfig{Topic: "t"}, nil)
	assert.Error(t, err)

	_, err = NewKafka(&KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)

	k, err := NewKafka(&KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "typerace.matches"}, nil)
	require.NoError(t, err)
	assert.NoError(t, k.Close())
}

func TestPublish_KeysByRoom(t *testing.T) {
	w := &fakeWriter{}
	k := &Kafka{w: w, log: zap.NewNop()}
	at := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	k.Publish(Event{Type: GameStarted, RoomCode: "ROOM2345", At: at})

	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("ROOM2345"), w.msgs[0].Key)
	assert.Equal(t, at, w.msgs[0].Time)

	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, GameStarted, decoded.Type)
	assert.Equal(t, "ROOM2345", decoded.RoomCode)

	require.NoError(t, k.Close())
	assert.True(t, w.closed)
}

func TestPublish_WriteErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	k := &Kafka{w: &fakeWriter{err: errors.New("broker down")}, log: zap.New(core)}

	k.Publish(Event{Type: RoomClosed, RoomCode: "ROOM2345"})

	assert.Equal(t, 1, logs.FilterMessage("publish event").Len())
}

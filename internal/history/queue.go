package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 64
	saveTimeout      = 5 * time.Second
)

// Queue is a Recorder that hands matches to a single background writer.
// When the buffer is full the match is dropped and logged.
type Queue struct {
	store Store
	in    chan Match
	log   *zap.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func NewQueue(store Store, size int, log *zap.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	q := &Queue{
		store: store,
		in:    make(chan Match, size),
		log:   log,
		done:  make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *Queue) Record(m Match) {
	select {
	case q.in <- m:
	default:
		q.log.Warn("history queue full, dropping match", zap.String("room", m.RoomCode))
	}
}

func (q *Queue) loop() {
	defer close(q.done)
	for m := range q.in {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := q.store.Save(ctx, m); err != nil {
			q.log.Error("save match", zap.String("room", m.RoomCode), zap.Error(err))
		}
		cancel()
	}
}

// Close drains pending matches, then closes the store.
// Record must not be called after Close.
func (q *Queue) Close() error {
	var err error
	q.closeOnce.Do(func() {
		close(q.in)
		<-q.done
		err = q.store.Close()
	})
	return err
}

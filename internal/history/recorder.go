package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokertable/internal/events"
)

// Writer is the sink the recorder appends to. *DB satisfies it; tests plug
// in a fake.
type Writer interface {
	InsertEvent(ctx context.Context, tableID, eventType string, payload []byte) error
}

const (
	recorderBuffer = 256
	writeTimeout   = 5 * time.Second
)

// Recorder subscribes to a table's event bus and persists every event. Bus
// delivery happens under the table lock, so writes are handed off to a
// background goroutine and never block play. A full buffer drops the event
// with a logged warning rather than stalling the table.
type Recorder struct {
	tableID string
	writer  Writer
	log     *log.Logger
	queue   chan queued
	done    chan struct{}
}

type queued struct {
	eventType string
	payload   []byte
}

// NewRecorder starts a recorder for one table. Call Close to flush and stop.
func NewRecorder(tableID string, w Writer, logger *log.Logger) *Recorder {
	r := &Recorder{
		tableID: tableID,
		writer:  w,
		log:     logger.WithPrefix("history"),
		queue:   make(chan queued, recorderBuffer),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// OnEvent implements events.Subscriber.
func (r *Recorder) OnEvent(e events.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		r.log.Error("marshaling event", "type", e.EventType(), "err", err)
		return
	}
	select {
	case r.queue <- queued{eventType: e.EventType().String(), payload: payload}:
	default:
		r.log.Warn("event log buffer full, dropping event", "type", e.EventType())
	}
}

// Close drains any queued events and stops the recorder.
func (r *Recorder) Close() {
	close(r.queue)
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for q := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.writer.InsertEvent(ctx, r.tableID, q.eventType, q.payload); err != nil {
			r.log.Error("persisting event", "type", q.eventType, "err", err)
		}
		cancel()
	}
}

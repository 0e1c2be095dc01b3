package history

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertable/internal/events"
	"github.com/lox/pokertable/poker"
)

type fakeWriter struct {
	mu   sync.Mutex
	rows []fakeRow
	err  error
}

type fakeRow struct {
	tableID   string
	eventType string
	payload   []byte
}

func (f *fakeWriter) InsertEvent(ctx context.Context, tableID, eventType string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, fakeRow{tableID, eventType, payload})
	return nil
}

func (f *fakeWriter) all() []fakeRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeRow(nil), f.rows...)
}

func TestRecorderPersistsEvents(t *testing.T) {
	w := &fakeWriter{}
	r := NewRecorder("table-1", w, log.New(io.Discard))

	bus := events.NewBus()
	bus.Subscribe(r)

	bus.Publish(events.GameStarted{Button: "p0", SmallBlind: "p1", BigBlind: "p2"})
	bus.Publish(events.Bet{Player: "p1", Amount: 1})
	bus.Publish(events.CardsUnfolded{Player: "p1", Cards: poker.MustParseHand("Ks", "Kh")})
	r.Close()

	rows := w.all()
	require.Len(t, rows, 3)
	assert.Equal(t, "table-1", rows[0].tableID)
	assert.Equal(t, "game_started", rows[0].eventType)
	assert.Equal(t, "bet", rows[1].eventType)

	var bet events.Bet
	require.NoError(t, json.Unmarshal(rows[1].payload, &bet))
	assert.Equal(t, events.Bet{Player: "p1", Amount: 1}, bet)
}

func TestRecorderSurvivesWriterErrors(t *testing.T) {
	w := &fakeWriter{err: context.DeadlineExceeded}
	r := NewRecorder("table-1", w, log.New(io.Discard))

	r.OnEvent(events.NoWinnersToAward{})
	r.OnEvent(events.Bet{Player: "p1", Amount: 2})
	r.Close()

	assert.Empty(t, w.all())
}

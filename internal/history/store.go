// Package history persists the table's event stream to Postgres so hands can
// be audited after the fact.
package history

import (
	"context"
	"embed"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

// DB wraps a pgx pool with the event log helpers.
type DB struct{ *pgxpool.Pool }

// Open connects to Postgres with the given DSN.
func Open(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &DB{pool}, nil
}

// Migrate applies the embedded schema. Idempotent.
func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

// InsertEvent appends one event to a table's log.
func (db *DB) InsertEvent(ctx context.Context, tableID, eventType string, payload []byte) error {
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := db.Exec(ctx, `
		INSERT INTO table_events(table_id, event_type, payload)
		VALUES ($1, $2, $3)
	`, tableID, eventType, payload)
	return err
}

// StoredEvent is one row of a table's event log.
type StoredEvent struct {
	ID        int64           `json:"id"`
	TableID   string          `json:"table_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
}

// RecentEvents returns up to limit events for a table, newest first.
func (db *DB) RecentEvents(ctx context.Context, tableID string, limit int) ([]StoredEvent, error) {
	rows, err := db.Query(ctx, `
		SELECT id, table_id, event_type, payload
		  FROM table_events
		 WHERE table_id = $1
		 ORDER BY id DESC
		 LIMIT $2
	`, tableID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var ev StoredEvent
		if err := rows.Scan(&ev.ID, &ev.TableID, &ev.EventType, &ev.Payload); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

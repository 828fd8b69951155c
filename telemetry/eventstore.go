package telemetry

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const eventSchema = `
CREATE TABLE IF NOT EXISTS events (
	tick       INTEGER NOT NULL,
	type       TEXT    NOT NULL,
	agent_id   INTEGER NOT NULL,
	generation INTEGER NOT NULL,
	age        REAL,
	cause      TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
`

// EventStore persists agent lifecycle events to a sqlite database for
// offline charting and aggregation.
type EventStore struct {
	db     *sql.DB
	insert *sql.Stmt
}

// OpenEventStore opens (or creates) the event database at path.
func OpenEventStore(path string) (*EventStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}
	if _, err := db.Exec(eventSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating event schema: %w", err)
	}
	insert, err := db.Prepare(
		"INSERT INTO events (tick, type, agent_id, generation, age, cause) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("preparing event insert: %w", err)
	}
	return &EventStore{db: db, insert: insert}, nil
}

// Record persists one event.
func (s *EventStore) Record(e Event) error {
	_, err := s.insert.Exec(e.Tick, e.Type.String(), e.AgentID, e.Generation, e.Age, e.Cause)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *EventStore) Close() error {
	if s.insert != nil {
		_ = s.insert.Close()
	}
	return s.db.Close()
}

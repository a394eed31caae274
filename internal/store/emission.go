package store

import (
	"database/sql"
	"log"
	"time"

	"github.com/ayusman/mudra/internal/counter"
)

// EmissionRecord is a journaled emission.
type EmissionRecord struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Value     int       `json:"value"`
	Heartbeat bool      `json:"heartbeat"`
	EmittedAt time.Time `json:"emitted_at"`
}

// EmissionRepository provides operations for the emission journal.
type EmissionRepository struct {
	db *sql.DB
}

// Emissions returns the emission repository for this store.
func (s *Store) Emissions() *EmissionRepository {
	return &EmissionRepository{db: s.db}
}

// Record appends an emission to a session's journal.
func (r *EmissionRepository) Record(sessionID string, e counter.Emission) error {
	_, err := r.db.Exec(
		`INSERT INTO emissions (session_id, value, heartbeat, emitted_at) VALUES (?, ?, ?, ?)`,
		sessionID, e.Value, e.Heartbeat, e.At,
	)
	return err
}

// ListBySession returns the most recent emissions of a session, newest
// first. A limit of zero or less returns all of them.
func (r *EmissionRepository) ListBySession(sessionID string, limit int) ([]EmissionRecord, error) {
	query := `SELECT id, session_id, value, heartbeat, emitted_at
		 FROM emissions
		 WHERE session_id = ?
		 ORDER BY id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EmissionRecord
	for rows.Next() {
		var rec EmissionRecord
		var heartbeat int
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Value, &heartbeat, &rec.EmittedAt); err != nil {
			return nil, err
		}
		rec.Heartbeat = heartbeat != 0
		records = append(records, rec)
	}

	return records, rows.Err()
}

// CountBySession returns how many emissions a session has journaled.
func (r *EmissionRepository) CountBySession(sessionID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM emissions WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

// Journal is a sink that records every emission for one session. Each
// insert runs on its own goroutine; failures are logged.
type Journal struct {
	repo      *EmissionRepository
	sessionID string
}

// NewJournal returns a Journal writing to the given session.
func (s *Store) NewJournal(sessionID string) *Journal {
	return &Journal{repo: s.Emissions(), sessionID: sessionID}
}

// SessionID returns the session the journal writes to.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Send journals the emission without blocking the caller.
func (j *Journal) Send(e counter.Emission) {
	go func() {
		if err := j.repo.Record(j.sessionID, e); err != nil {
			log.Printf("Failed to journal emission %d: %v", e.Value, err)
		}
	}()
}

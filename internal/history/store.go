// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     history
// Description: SQLite-backed persistence for session records
// Author:      rdittrich
// License:     MIT
// ============================================================================

package history

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rdittrich/recap/internal/session"
	"github.com/rdittrich/recap/pkg/core/apperr"
	"github.com/rdittrich/recap/pkg/core/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id                 TEXT PRIMARY KEY,
	recording_date     TIMESTAMP NOT NULL,
	meeting_name       TEXT NOT NULL DEFAULT '',
	recording_location TEXT NOT NULL DEFAULT '',
	transcript         TEXT NOT NULL DEFAULT '',
	ai_summary         TEXT NOT NULL DEFAULT '',
	saved_file_path    TEXT NOT NULL DEFAULT '',
	stage              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_date ON records(recording_date DESC);
`

// Store keeps session records in a local SQLite database.
type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	log *logging.Logger
}

// Open opens (or creates) the history database at path. An unreadable or
// corrupt database file is moved aside to <path>.corrupt and a fresh one
// is created so the recorder stays usable; the incident is logged.
func Open(path string) (*Store, error) {
	log := logging.New("history")

	db, err := openAt(path)
	if err != nil {
		corrupt := path + ".corrupt"
		log.Error("history database unusable, starting fresh",
			"path", path, "moved_to", corrupt, "error", err)
		if renameErr := os.Rename(path, corrupt); renameErr != nil {
			return nil, apperr.Wrap(err, apperr.CodePersistence, "opening history database")
		}
		db, err = openAt(path)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodePersistence, "recreating history database")
		}
	}

	return &Store{db: db, log: log}, nil
}

func openAt(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return db, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Add inserts a new record.
func (s *Store) Add(rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO records
		(id, recording_date, meeting_name, recording_location, transcript, ai_summary, saved_file_path, stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RecordingDate.UTC(), rec.MeetingName, rec.RecordingLocation,
		rec.Transcript, rec.AISummary, rec.SavedFilePath, rec.Stage.String())
	if err != nil {
		return apperr.Wrap(err, apperr.CodePersistence, "inserting record")
	}
	return nil
}

// Update overwrites an existing record. Updating an id that does not
// exist is a silent no-op.
func (s *Store) Update(rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE records SET
		recording_date = ?, meeting_name = ?, recording_location = ?,
		transcript = ?, ai_summary = ?, saved_file_path = ?, stage = ?
		WHERE id = ?`,
		rec.RecordingDate.UTC(), rec.MeetingName, rec.RecordingLocation,
		rec.Transcript, rec.AISummary, rec.SavedFilePath, rec.Stage.String(),
		rec.ID)
	if err != nil {
		return apperr.Wrap(err, apperr.CodePersistence, "updating record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.Debug("update for unknown record ignored", "id", rec.ID)
	}
	return nil
}

// Delete removes a record by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM records WHERE id = ?`, id); err != nil {
		return apperr.Wrap(err, apperr.CodePersistence, "deleting record")
	}
	return nil
}

// Get fetches a record by id, returning (nil, nil) when none exists.
func (s *Store) Get(id string) (*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`SELECT id, recording_date, meeting_name, recording_location,
		transcript, ai_summary, saved_file_path, stage
		FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodePersistence, "reading record")
	}
	return rec, nil
}

// List returns all records, newest recording first.
func (s *Store) List() ([]*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, recording_date, meeting_name, recording_location,
		transcript, ai_summary, saved_file_path, stage
		FROM records ORDER BY recording_date DESC, id`)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodePersistence, "listing records")
	}
	defer rows.Close()

	var recs []*session.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.CodePersistence, "scanning record")
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, apperr.CodePersistence, "iterating records")
	}
	return recs, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*session.Record, error) {
	var rec session.Record
	var date time.Time
	var stage string
	err := row.Scan(&rec.ID, &date, &rec.MeetingName, &rec.RecordingLocation,
		&rec.Transcript, &rec.AISummary, &rec.SavedFilePath, &stage)
	if err != nil {
		return nil, err
	}
	rec.RecordingDate = date.Local()
	rec.Stage = session.Stage(stage)
	return &rec, nil
}

// ============================================================================
// recap - Meeting Recorder & AI Summarizer
// ============================================================================
//
// Package:     history
// Description: Tests for the SQLite session record store
// Author:      rdittrich
// License:     MIT
// ============================================================================

package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rdittrich/recap/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(name string, at time.Time) *session.Record {
	rec := session.NewRecord()
	rec.MeetingName = name
	rec.RecordingDate = at
	return rec
}

func TestStoreAddGet(t *testing.T) {
	store := openTestStore(t)

	rec := sampleRecord("Planning", time.Date(2026, 8, 20, 10, 0, 0, 0, time.Local))
	rec.Transcript = "we discussed the roadmap"
	rec.Stage = session.StageComplete

	if err := store.Add(rec); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := store.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for existing record")
	}
	if got.MeetingName != "Planning" || got.Transcript != rec.Transcript {
		t.Errorf("Get() = %+v, want fields of %+v", got, rec)
	}
	if got.Stage != session.StageComplete {
		t.Errorf("Stage = %q, want %q", got.Stage, session.StageComplete)
	}
	if !got.RecordingDate.Equal(rec.RecordingDate) {
		t.Errorf("RecordingDate = %v, want %v", got.RecordingDate, rec.RecordingDate)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get("no-such-id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestStoreUpdate(t *testing.T) {
	store := openTestStore(t)

	rec := sampleRecord("Before", time.Now())
	if err := store.Add(rec); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rec.MeetingName = "After"
	rec.Stage = session.StageError
	if err := store.Update(rec); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := store.Get(rec.ID)
	if got.MeetingName != "After" || got.Stage != session.StageError {
		t.Errorf("after update got %q/%q, want After/%q", got.MeetingName, got.Stage, session.StageError)
	}
}

func TestStoreUpdateMissingIsNoop(t *testing.T) {
	store := openTestStore(t)

	rec := sampleRecord("Ghost", time.Now())
	if err := store.Update(rec); err != nil {
		t.Fatalf("Update() of missing record should be silent, got %v", err)
	}

	recs, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("List() returned %d records, want 0", len(recs))
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	rec := sampleRecord("Gone", time.Now())
	store.Add(rec)
	if err := store.Delete(rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := store.Get(rec.ID); got != nil {
		t.Error("record still present after Delete()")
	}

	if err := store.Delete("no-such-id"); err != nil {
		t.Errorf("Delete() of unknown id should be a no-op, got %v", err)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.Local)
	older := sampleRecord("Older", base)
	newer := sampleRecord("Newer", base.Add(48*time.Hour))
	store.Add(older)
	store.Add(newer)

	recs, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(recs))
	}
	if recs[0].MeetingName != "Newer" || recs[1].MeetingName != "Older" {
		t.Errorf("List() order = [%s, %s], want newest first", recs[0].MeetingName, recs[1].MeetingName)
	}
}

func TestStoreCorruptFileRecovered(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")
	if err := os.WriteFile(path, []byte("this is not a database"), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() should recover from corruption, got %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("corrupt file was not moved aside: %v", err)
	}

	rec := sampleRecord("Fresh start", time.Now())
	if err := store.Add(rec); err != nil {
		t.Errorf("Add() on recovered store error = %v", err)
	}
}

package service

import (
	"sync"
	"testing"

	"github.com/dawnlab-io/dreamweave/internal/domain"
	"github.com/google/uuid"
)

func TestSessionManager_CreateAndSnapshot(t *testing.T) {
	m := NewSessionManager()

	s := m.Create()
	if s.ID == uuid.Nil {
		t.Fatal("expected a session ID")
	}
	if s.State != domain.StateIdle {
		t.Fatalf("expected idle state, got %s", s.State)
	}

	got, err := m.Snapshot(s.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != s.ID {
		t.Fatal("snapshot returned the wrong session")
	}
	if m.Count() != 1 {
		t.Fatalf("expected 1 session, got %d", m.Count())
	}
}

func TestSessionManager_SnapshotIsACopy(t *testing.T) {
	m := NewSessionManager()
	s := m.Create()

	snap, err := m.Snapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	snap.Transcript = "mutated"

	again, err := m.Snapshot(s.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again.Transcript != "" {
		t.Fatal("mutating a snapshot must not affect the stored session")
	}
}

func TestSessionManager_Do(t *testing.T) {
	m := NewSessionManager()
	s := m.Create()

	err := m.Do(s.ID, func(s *domain.Session) error {
		s.Transcript = "hello"
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	snap, _ := m.Snapshot(s.ID)
	if snap.Transcript != "hello" {
		t.Fatal("mutation inside Do was not applied")
	}
}

func TestSessionManager_UnknownID(t *testing.T) {
	m := NewSessionManager()

	if err := m.Do(uuid.New(), func(s *domain.Session) error { return nil }); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := m.Snapshot(uuid.New()); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := m.Delete(uuid.New()); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionManager_Delete(t *testing.T) {
	m := NewSessionManager()
	s := m.Create()

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := m.Snapshot(s.ID); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
	if m.Count() != 0 {
		t.Fatalf("expected 0 sessions, got %d", m.Count())
	}
}

func TestSessionManager_ConcurrentSessions(t *testing.T) {
	m := NewSessionManager()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 20)
	for i := range ids {
		ids[i] = m.Create().ID
	}

	// Each session is hammered from its own goroutine; per-session locking
	// must keep every counter consistent.
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Do(id, func(s *domain.Session) error {
					s.Transcript += "x"
					return nil
				})
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		snap, err := m.Snapshot(id)
		if err != nil {
			t.Fatal(err)
		}
		if len(snap.Transcript) != 100 {
			t.Fatalf("expected 100 appends, got %d", len(snap.Transcript))
		}
	}
}

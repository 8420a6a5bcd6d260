package server

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := NewServer(zerolog.Nop())

	a := s.Register("alice")
	b := s.Register("bob")
	if a.ID == b.ID {
		t.Fatalf("duplicate session IDs: %d", a.ID)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	s.Unregister(a.ID)
	s.Unregister(a.ID)
	s.Unregister(999)
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := NewServer(zerolog.Nop())
	s.pollInterval = time.Millisecond
	h := s.Register("alice")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.Unregister(h.ID)
		}
	}()

	if remaining := s.Shutdown(5 * time.Second); remaining != 0 {
		t.Errorf("Shutdown left %d sessions", remaining)
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := NewServer(zerolog.Nop())
	s.pollInterval = time.Millisecond
	h := s.Register("stubborn")

	if remaining := s.Shutdown(20 * time.Millisecond); remaining != 1 {
		t.Errorf("Shutdown returned %d, want 1", remaining)
	}
	select {
	case ev := <-h.EventsCh:
		if ev.Type != EventServerShutdown {
			t.Errorf("event = %v", ev)
		}
	default:
		t.Error("session was not notified")
	}
}

func TestShutdownWithNoSessions(t *testing.T) {
	s := NewServer(zerolog.Nop())
	start := time.Now()
	if remaining := s.Shutdown(time.Second); remaining != 0 {
		t.Errorf("remaining = %d", remaining)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("empty shutdown should return immediately")
	}
}

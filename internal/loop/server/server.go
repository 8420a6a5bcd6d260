// Package server tracks the game sessions running in one process so they
// can be told about a shutdown and drained before the process exits.
package server

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SessionRegistry is the interface sessions use to announce themselves.
// Decouples the SSH handler from the concrete Server, enabling testing.
type SessionRegistry interface {
	Register(username string) *SessionHandle
	Unregister(id int)
}

// Server keeps the set of live sessions. Each session runs its own match;
// nothing about the game itself is shared.
type Server struct {
	mu       sync.RWMutex
	sessions map[int]*SessionHandle
	nextID   int
	logger   zerolog.Logger

	// pollInterval is how often Shutdown checks for drained sessions.
	pollInterval time.Duration
}

// Compile-time check that Server implements SessionRegistry.
var _ SessionRegistry = (*Server)(nil)

// SessionHandle represents one session's connection to the server.
type SessionHandle struct {
	ID       int
	Username string
	Started  time.Time
	EventsCh chan Event // Events sent to the session (shutdown, etc.)
}

// Event is a notification sent from the server to a session.
type Event struct {
	Type EventType
}

// EventType identifies the type of session event.
type EventType int

const (
	EventServerShutdown EventType = iota
)

// NewServer creates an empty session registry.
func NewServer(logger zerolog.Logger) *Server {
	return &Server{
		sessions:     make(map[int]*SessionHandle),
		nextID:       1,
		logger:       logger,
		pollInterval: 200 * time.Millisecond,
	}
}

// Register adds a session and returns its handle.
func (s *Server) Register(username string) *SessionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &SessionHandle{
		ID:       s.nextID,
		Username: username,
		Started:  time.Now(),
		EventsCh: make(chan Event, 4),
	}
	s.nextID++
	s.sessions[handle.ID] = handle

	s.logger.Info().Int("session", handle.ID).Str("user", username).Int("active", len(s.sessions)).Msg("session registered")
	return handle
}

// Unregister removes a session. Unknown IDs are ignored.
func (s *Server) Unregister(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.sessions[id]
	if !ok {
		return
	}
	delete(s.sessions, id)

	s.logger.Info().
		Int("session", id).
		Str("user", handle.Username).
		Dur("duration", time.Since(handle.Started)).
		Int("active", len(s.sessions)).
		Msg("session unregistered")
}

// Count returns the number of live sessions.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown gracefully shuts down the server by notifying all connected sessions
// and waiting for them to disconnect (up to the given timeout).
// Returns the number of sessions still connected when it gave up.
func (s *Server) Shutdown(timeout time.Duration) int {
	// Notify all connected sessions about the shutdown
	s.mu.RLock()
	for _, handle := range s.sessions {
		select {
		case handle.EventsCh <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all sessions to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if remaining := s.Count(); remaining == 0 {
			return 0
		}
		select {
		case <-deadline:
			remaining := s.Count()
			s.logger.Warn().Int("remaining", remaining).Msg("shutdown timed out with sessions still connected")
			return remaining
		case <-ticker.C:
		}
	}
}

package loop

import "time"

// Mode is the session-level screen, layered above the match phases.
type Mode int

const (
	ModePlaying  Mode = iota // Match running
	ModeShutdown             // Server is shutting down
)

// ClientState holds per-session state that is not part of the match.
type ClientState struct {
	Mode          Mode
	Running       bool          // Session loop running
	delta         time.Duration // Frame delta time
	lastInput     time.Time     // Last time any byte arrived
	isInactive    bool          // Whether the inactivity warning is showing
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	prevOverlay   string        // Overlay drawn last frame; a change forces a full clear
}

// NewClientState creates a new initialized session state.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		Mode:      ModePlaying,
		Running:   true,
		lastInput: now,
	}
}

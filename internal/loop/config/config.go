// Package config centralizes all tunable game parameters.
package config

import "time"

// Court resolution - the play area in logical units.
// Actual rendering scales to fit terminal size.
const (
	CourtWidth  = 800
	CourtHeight = 500
)

// Max render resolution - terminal area is clamped to this and centered.
const (
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// Paddles
const (
	PaddleWidth  = 12
	PaddleHeight = 80
	PaddleMargin = 10 // Gap between court edge and paddle face
	KeyboardStep = 12 // Logical units per frame when steering with keys
)

// Ball
const (
	BallSize   = 16
	BallSpeedX = 5 // Units per tick
	BallSpeedY = 3 // Units per tick
)

// AI
const (
	AISpeed = 3 // Units per tick
)

// Scoring
const (
	WinScore = 10
)

// Phase timing
const (
	StartupDelay  = 300 * time.Millisecond
	CountdownStep = 700 * time.Millisecond
	ScoringDelay  = 500 * time.Millisecond
	ResultHold    = 3000 * time.Millisecond
)

// Sound
const (
	ToneDuration = 120 * time.Millisecond
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity warning shows once this fraction of the timeout has passed.
const InactivityWarnFraction = 0.75

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Physics tick rate. Ball and AI speeds are per tick.
const (
	TickRate       = 60
	TickTime       = time.Second / TickRate
	MaxTickBacklog = 5 // Ticks run per update before the rest is dropped
)

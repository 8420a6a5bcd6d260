// Package match runs a single Pong match: phases, scores and the rally tick.
//
// The match is advanced by Update with the time elapsed since the previous
// call. Phase delays are measured against that elapsed budget rather than
// wall-clock timers, so a test can drive a whole match with a virtual clock.
package match

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomz197/termpong/internal/ai"
	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/object"
	"github.com/tomz197/termpong/internal/sound"
)

// Options configures a match. Zero values fall back to the defaults in
// internal/loop/config.
type Options struct {
	WinScore int
	AISpeed  float64
	Sound    sound.Player
	Rand     *rand.Rand
	Logger   zerolog.Logger
}

// Match holds all state for one player-versus-AI match.
type Match struct {
	Court object.Court
	Ball  object.Ball
	Left  object.Paddle // Human
	Right object.Paddle // AI

	LeftScore  int
	RightScore int
	WinScore   int
	AISpeed    float64

	phase   Phase
	count   int           // Countdown step, 1..CountdownGo
	winner  object.Side   // Valid in PhaseResult
	elapsed time.Duration // Time banked in the current phase

	sound  sound.Player
	rng    *rand.Rand
	logger zerolog.Logger
}

// New creates a match in the startup phase.
func New(court object.Court, opts Options) *Match {
	if opts.WinScore <= 0 {
		opts.WinScore = config.WinScore
	}
	if opts.AISpeed <= 0 {
		opts.AISpeed = config.AISpeed
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &Match{
		Court:    court,
		WinScore: opts.WinScore,
		AISpeed:  opts.AISpeed,
		sound:    opts.Sound,
		rng:      opts.Rand,
		logger:   opts.Logger,
		phase:    PhaseStartup,
	}
	m.resetField()
	return m
}

// Phase returns the current phase.
func (m *Match) Phase() Phase {
	return m.phase
}

// Countdown returns the countdown step (1..CountdownGo). Only meaningful in
// PhaseCountdown.
func (m *Match) Countdown() int {
	return m.count
}

// Winner returns the side that won. Only meaningful in PhaseResult.
func (m *Match) Winner() object.Side {
	return m.winner
}

// Score returns the score for a side.
func (m *Match) Score(side object.Side) int {
	if side == object.SideLeft {
		return m.LeftScore
	}
	return m.RightScore
}

// MovePointer steers the human paddle to a pointer's vertical position.
// Works in every phase.
func (m *Match) MovePointer(y float64) {
	m.Left.FollowPointer(y, m.Court)
}

// NudgeLeft moves the human paddle by dy, clamped to the court.
func (m *Match) NudgeLeft(dy float64) {
	m.Left.Y += dy
	m.Left.Clamp(m.Court)
}

// Restart zeroes the scores, recenters everything and starts a new countdown.
func (m *Match) Restart() {
	m.LeftScore = 0
	m.RightScore = 0
	m.elapsed = 0
	m.resetField()
	m.enterCountdown()
}

// Update advances the match by dt. Leftover time carries across phase
// changes, so several phases may pass in one call.
func (m *Match) Update(dt time.Duration) {
	m.elapsed += dt

	for {
		switch m.phase {
		case PhaseStartup:
			if !m.spend(config.StartupDelay) {
				return
			}
			m.enterCountdown()

		case PhaseCountdown:
			if !m.spend(config.CountdownStep) {
				return
			}
			if m.count < CountdownGo {
				m.count++
			} else {
				m.enter(PhaseActive)
			}

		case PhaseActive:
			ticks := 0
			for m.phase == PhaseActive && m.elapsed >= config.TickTime {
				if ticks == config.MaxTickBacklog {
					m.elapsed = 0
					return
				}
				m.elapsed -= config.TickTime
				m.Tick()
				ticks++
			}
			if m.phase == PhaseActive {
				return
			}

		case PhaseScoring:
			if !m.spend(config.ScoringDelay) {
				return
			}
			m.enterCountdown()

		case PhaseResult:
			if !m.spend(config.ResultHold) {
				return
			}
			m.logger.Info().Msg("starting new match")
			m.Restart()

		default:
			return
		}
	}
}

// Tick runs one rally step: ball, then AI. It does nothing outside
// PhaseActive and returns the ball events of the step.
func (m *Match) Tick() []object.Event {
	if m.phase != PhaseActive {
		return nil
	}

	res := m.Ball.Advance(m.Left, m.Right, m.Court, m.rng)
	for _, e := range res.Events {
		switch e.Kind {
		case object.EventWallHit:
			m.play(sound.KindWall)
		case object.EventPaddleHit:
			m.play(sound.KindPaddle)
		}
	}

	if side, ok := res.Scored(); ok {
		m.pointTo(side)
		return res.Events
	}

	ai.Update(&m.Right, m.Ball, m.Court, m.AISpeed)
	return res.Events
}

// pointTo awards a point and moves to scoring or result.
func (m *Match) pointTo(side object.Side) {
	if side == object.SideLeft {
		m.LeftScore++
	} else {
		m.RightScore++
	}
	m.play(sound.KindMiss)

	m.logger.Debug().
		Stringer("side", side).
		Int("left", m.LeftScore).
		Int("right", m.RightScore).
		Msg("point scored")

	if m.Score(side) >= m.WinScore {
		m.winner = side
		m.enter(PhaseResult)
		m.logger.Info().
			Stringer("winner", side).
			Int("left", m.LeftScore).
			Int("right", m.RightScore).
			Msg("match over")
		return
	}
	m.enter(PhaseScoring)
}

// spend consumes d from the banked time if enough has accumulated.
func (m *Match) spend(d time.Duration) bool {
	if m.elapsed < d {
		return false
	}
	m.elapsed -= d
	return true
}

func (m *Match) enter(p Phase) {
	m.phase = p
}

func (m *Match) enterCountdown() {
	m.count = 1
	m.enter(PhaseCountdown)
}

func (m *Match) resetField() {
	m.Ball = object.NewBall(m.Court, m.rng)
	m.Left = object.NewPaddle(object.SideLeft, m.Court)
	m.Right = object.NewPaddle(object.SideRight, m.Court)
}

func (m *Match) play(kind sound.Kind) {
	if m.sound != nil {
		m.sound.Play(kind)
	}
}

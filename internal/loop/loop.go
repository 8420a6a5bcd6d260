// Package loop runs one player's Pong session in a terminal: the
// Input → Update → Draw cycle around a match.
package loop

import (
	"bufio"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	appconfig "github.com/tomz197/termpong/internal/config"
	"github.com/tomz197/termpong/internal/draw"
	"github.com/tomz197/termpong/internal/input"
	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/loop/server"
	"github.com/tomz197/termpong/internal/match"
	"github.com/tomz197/termpong/internal/object"
	"github.com/tomz197/termpong/internal/sound"
)

// Options configures a session.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     appconfig.Settings
	// Sound overrides the backend chosen from Settings.Sound.
	Sound    sound.Backend
	Renderer *lipgloss.Renderer
	Logger   zerolog.Logger
	// Events delivers server notifications. Nil for a local game.
	Events <-chan server.Event
	// InactivityTimeout disconnects an idle player. Zero disables it.
	InactivityTimeout time.Duration
	Rand              *rand.Rand
}

// Session handles rendering and input for a single player.
type Session struct {
	match        *match.Match
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	styles       styles
	events       <-chan server.Event
	inactivity   time.Duration
	termSizeFunc draw.TermSizeFunc
	logger       zerolog.Logger
}

// Run plays Pong on w, reading keys and mouse reports from r, until the
// player quits, idles out or the server shuts down.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	return NewSession(r, w, opts).Run()
}

// NewSession creates a session with a fresh match.
func NewSession(r *bufio.Reader, w io.Writer, opts Options) *Session {
	return newSession(input.StartStream(r), w, opts)
}

func newSession(stream *input.Stream, w io.Writer, opts Options) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	if opts.Settings == (appconfig.Settings{}) {
		opts.Settings = appconfig.DefaultSettings()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	backend := opts.Sound
	if backend == nil && opts.Settings.Sound == appconfig.SoundBell {
		backend = sound.NewBell(w)
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	court := object.Court{Width: config.CourtWidth, Height: config.CourtHeight}
	m := match.New(court, match.Options{
		WinScore: opts.Settings.WinScore,
		AISpeed:  opts.Settings.AISpeed,
		Sound:    sound.NewEmitter(backend, rng, opts.Logger),
		Rand:     rng,
		Logger:   opts.Logger,
	})

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.CourtWidth, config.CourtHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Session{
		match:        m,
		state:        NewClientState(time.Now()),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  stream,
		styles:       newStyles(renderer),
		events:       opts.Events,
		inactivity:   opts.InactivityTimeout,
		termSizeFunc: termSizeFunc,
		logger:       opts.Logger,
	}
}

// Match returns the session's match.
func (s *Session) Match() *match.Match {
	return s.match
}

// Run starts the session loop. Blocks until the session ends.
func (s *Session) Run() error {
	draw.HideCursor(s.writer)
	draw.EnableMouse(s.writer)
	defer draw.ShowCursor(s.writer)
	defer draw.DisableMouse(s.writer)
	defer s.inputStream.Close()
	draw.ClearScreen(s.writer)

	lastTime := time.Now()

	for s.state.Running {
		frameStart := time.Now()
		s.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := s.step(frameStart); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(s.writer)
	return nil
}

// step runs one Input → Update → Draw cycle.
func (s *Session) step(now time.Time) error {
	s.processInput(now)
	s.processServerEvents()
	s.updateScreen()

	switch s.state.Mode {
	case ModePlaying:
		s.match.Update(s.state.delta)
	case ModeShutdown:
		s.updateShutdownState()
	}

	return s.drawFrame(now)
}

// processInput reads all pending input for this frame.
func (s *Session) processInput(now time.Time) {
	s.applyInput(input.ReadInput(s.inputStream), now)
}

// applyInput tracks inactivity and steers the left paddle.
func (s *Session) applyInput(in input.Input, now time.Time) {
	if len(in.Pressed) > 0 {
		s.state.lastInput = now
		s.state.isInactive = false
	} else if s.inactivity > 0 {
		idle := now.Sub(s.state.lastInput)
		if idle > s.inactivity {
			s.logger.Info().Dur("idle", idle).Msg("disconnecting inactive player")
			s.state.Running = false
		} else if idle > time.Duration(float64(s.inactivity)*config.InactivityWarnFraction) {
			s.state.isInactive = true
		}
	}

	if in.Quit {
		s.state.Running = false
		return
	}
	if s.state.Mode != ModePlaying {
		return
	}

	if in.Pointer {
		_, y := s.canvas.TerminalToLogical(in.PointerCol, in.PointerRow)
		s.match.MovePointer(y)
	}
	if in.Up {
		s.match.NudgeLeft(-config.KeyboardStep)
	}
	if in.Down {
		s.match.NudgeLeft(config.KeyboardStep)
	}

	if s.match.Phase() == match.PhaseResult && (in.Space || in.Enter) {
		s.match.Restart()
		input.ResetKeyInput(s.inputStream)
	}
}

// processServerEvents handles events from the server.
func (s *Session) processServerEvents() {
	if s.events == nil {
		return
	}
	for {
		select {
		case event, ok := <-s.events:
			if !ok {
				// Server closed the channel
				s.state.Running = false
				return
			}
			if event.Type == server.EventServerShutdown && s.state.Mode != ModeShutdown {
				s.state.Mode = ModeShutdown
				s.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(s.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		draw.ClearScreen(s.writer)
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (s *Session) updateShutdownState() {
	s.state.shutdownTimer -= s.state.delta.Seconds()
	if s.state.shutdownTimer <= 0 {
		s.state.Running = false
	}
}

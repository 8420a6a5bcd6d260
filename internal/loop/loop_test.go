package loop

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	appconfig "github.com/tomz197/termpong/internal/config"
	"github.com/tomz197/termpong/internal/input"
	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/loop/server"
	"github.com/tomz197/termpong/internal/match"
	"github.com/tomz197/termpong/internal/object"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions() Options {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.Ascii)
	return Options{
		TermSizeFunc: fixedSize(120, 40),
		Settings:     appconfig.Settings{WinScore: 1, AISpeed: 3, Sound: appconfig.SoundOff},
		Renderer:     r,
		Logger:       zerolog.Nop(),
		Rand:         rand.New(rand.NewSource(1)),
	}
}

func newTestSession(t *testing.T, opts Options) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	stream := input.StartStream(bufio.NewReader(strings.NewReader("")))
	return newSession(stream, &out, opts), &out
}

// toActive advances the match until the rally starts.
func toActive(t *testing.T, m *match.Match) {
	t.Helper()
	for i := 0; i < 1000 && m.Phase() != match.PhaseActive; i++ {
		m.Update(config.TickTime)
	}
	if m.Phase() != match.PhaseActive {
		t.Fatalf("match never became active, phase %s", m.Phase())
	}
}

// missLeft places the ball past the human paddle so the next tick scores.
func missLeft(m *match.Match) {
	m.Ball.X = -10
	m.Ball.Y = 400
	m.Ball.VX = -config.BallSpeedX
	m.Ball.VY = 0
	m.Left.Y = 0
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"small", 80, 24, 80, 24, 0, 0},
		{"exact", 120, 40, 120, 40, 0, 0},
		{"wide", 200, 40, 120, 40, 40, 0},
		{"tall", 100, 61, 100, 40, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := clampTermSize(tt.w, tt.h)
			if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
				t.Errorf("clampTermSize(%d, %d) = %d %d %d %d, want %d %d %d %d",
					tt.w, tt.h, rw, rh, oc, or, tt.rw, tt.rh, tt.offCol, tt.offRow)
			}
		})
	}
}

func TestRunQuitsOnClosedInput(t *testing.T) {
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(bufio.NewReader(strings.NewReader("")), &out, testOptions())
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after input closed")
	}

	got := out.String()
	if !strings.Contains(got, "\033[?1003h") {
		t.Error("mouse reporting was not enabled")
	}
	if !strings.Contains(got, "\033[?1003l") {
		t.Error("mouse reporting was not disabled")
	}
	if !strings.HasSuffix(got, "\033[?25h") {
		t.Errorf("cursor not restored at exit, output ends %q", got[max(0, len(got)-20):])
	}
}

func TestQuitKeyStopsSession(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	s.applyInput(input.Input{Quit: true, Pressed: []byte{'q'}}, time.Now())
	if s.state.Running {
		t.Error("session still running after quit")
	}
}

func TestPointerSteersLeftPaddle(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	m := s.Match()

	_, wantY := s.canvas.TerminalToLogical(10, 30)
	s.applyInput(input.Input{Pointer: true, PointerCol: 10, PointerRow: 30, Pressed: []byte{0x1b}}, time.Now())

	if got := m.Left.CenterY(); math.Abs(got-wantY) > 1e-9 {
		t.Errorf("left center = %v, want %v", got, wantY)
	}
	if m.Right.CenterY() != m.Court.CenterY() {
		t.Error("pointer moved the AI paddle")
	}
}

func TestPointerHonorsOffset(t *testing.T) {
	opts := testOptions()
	opts.TermSizeFunc = fixedSize(200, 80) // offset 40 cols, 20 rows
	s, _ := newTestSession(t, opts)
	m := s.Match()

	// Top row of the render area.
	s.applyInput(input.Input{Pointer: true, PointerCol: 41, PointerRow: 21, Pressed: []byte{0x1b}}, time.Now())
	if m.Left.Y != 0 {
		t.Errorf("left Y = %v, want clamped to 0", m.Left.Y)
	}

	// Bottom row of the render area.
	s.applyInput(input.Input{Pointer: true, PointerCol: 41, PointerRow: 60, Pressed: []byte{0x1b}}, time.Now())
	if want := m.Court.Height - m.Left.Height; m.Left.Y != want {
		t.Errorf("left Y = %v, want clamped to %v", m.Left.Y, want)
	}
}

func TestKeyboardNudgesLeftPaddle(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	m := s.Match()
	start := m.Left.Y

	s.applyInput(input.Input{Up: true, Pressed: []byte{'w'}}, time.Now())
	if want := start - config.KeyboardStep; m.Left.Y != want {
		t.Errorf("after up Y = %v, want %v", m.Left.Y, want)
	}
	s.applyInput(input.Input{Down: true, Pressed: []byte{'s'}}, time.Now())
	s.applyInput(input.Input{Down: true, Pressed: []byte{'s'}}, time.Now())
	if want := start + config.KeyboardStep; m.Left.Y != want {
		t.Errorf("after down Y = %v, want %v", m.Left.Y, want)
	}
}

func TestSpaceRestartsFromResult(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	m := s.Match()
	toActive(t, m)
	missLeft(m)
	m.Update(config.TickTime)

	if m.Phase() != match.PhaseResult || m.Winner() != object.SideRight {
		t.Fatalf("phase %s winner %s, want result for right", m.Phase(), m.Winner())
	}

	s.applyInput(input.Input{Space: true, Pressed: []byte{' '}}, time.Now())
	if m.Phase() != match.PhaseCountdown || m.Countdown() != 1 {
		t.Errorf("phase %s count %d, want countdown 1", m.Phase(), m.Countdown())
	}
	if m.LeftScore != 0 || m.RightScore != 0 {
		t.Errorf("scores %d-%d, want 0-0", m.LeftScore, m.RightScore)
	}
}

func TestSpaceIgnoredOutsideResult(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	m := s.Match()
	toActive(t, m)
	s.applyInput(input.Input{Space: true, Pressed: []byte{' '}}, time.Now())
	if m.Phase() != match.PhaseActive {
		t.Errorf("phase %s, space must not interrupt a rally", m.Phase())
	}
}

func TestInactivity(t *testing.T) {
	opts := testOptions()
	opts.InactivityTimeout = 4 * time.Second
	s, _ := newTestSession(t, opts)
	start := s.state.lastInput

	s.applyInput(input.Input{}, start.Add(2*time.Second))
	if s.state.isInactive {
		t.Error("warned too early")
	}

	s.applyInput(input.Input{}, start.Add(3500*time.Millisecond))
	if !s.state.isInactive || !s.state.Running {
		t.Error("expected warning while still running")
	}

	// Any byte clears the warning and restarts the clock.
	s.applyInput(input.Input{Pressed: []byte{'x'}}, start.Add(3600*time.Millisecond))
	if s.state.isInactive {
		t.Error("warning not cleared by input")
	}

	s.applyInput(input.Input{}, start.Add(7*time.Second))
	if !s.state.Running || !s.state.isInactive {
		t.Error("expected a fresh warning before the timeout since last input")
	}

	s.applyInput(input.Input{}, start.Add(7700*time.Millisecond))
	if s.state.Running {
		t.Error("still running after inactivity timeout")
	}
}

func TestNoInactivityTimeoutWhenDisabled(t *testing.T) {
	s, _ := newTestSession(t, testOptions())
	s.applyInput(input.Input{}, s.state.lastInput.Add(time.Hour))
	if !s.state.Running || s.state.isInactive {
		t.Error("idle session affected with timeout disabled")
	}
}

func TestServerShutdownEvent(t *testing.T) {
	events := make(chan server.Event, 1)
	opts := testOptions()
	opts.Events = events
	s, out := newTestSession(t, opts)

	events <- server.Event{Type: server.EventServerShutdown}
	s.processServerEvents()
	if s.state.Mode != ModeShutdown {
		t.Fatalf("mode = %d, want shutdown", s.state.Mode)
	}

	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Error("shutdown notice not drawn")
	}

	// Input no longer reaches the match.
	y := s.Match().Left.Y
	s.applyInput(input.Input{Up: true, Pressed: []byte{'w'}}, time.Now())
	if s.Match().Left.Y != y {
		t.Error("paddle moved during shutdown")
	}

	s.state.delta = 5 * time.Second
	s.updateShutdownState()
	if !s.state.Running {
		t.Fatal("disconnected too early")
	}
	s.state.delta = 6 * time.Second
	s.updateShutdownState()
	if s.state.Running {
		t.Error("still running after shutdown notice")
	}
}

func TestClosedEventsStopsSession(t *testing.T) {
	events := make(chan server.Event)
	close(events)
	opts := testOptions()
	opts.Events = events
	s, _ := newTestSession(t, opts)

	s.processServerEvents()
	if s.state.Running {
		t.Error("session running after events channel closed")
	}
}

func TestEscapeDoesNotDefeatInactivity(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	opts := testOptions()
	opts.InactivityTimeout = 4 * time.Second
	var out bytes.Buffer
	s := newSession(input.StartStream(bufio.NewReader(pr)), &out, opts)
	defer s.inputStream.Close()
	start := s.state.lastInput
	pressedAt := start.Add(time.Second)

	go pw.Write([]byte{0x1b})
	deadline := time.Now().Add(2 * time.Second)
	for !s.state.lastInput.Equal(pressedAt) {
		if time.Now().After(deadline) {
			t.Fatal("ESC never arrived")
		}
		time.Sleep(time.Millisecond)
		s.processInput(pressedAt)
	}

	s.processInput(pressedAt.Add(2 * time.Second))
	if s.state.isInactive || !s.state.Running {
		t.Fatal("warned too early")
	}
	s.processInput(pressedAt.Add(3500 * time.Millisecond))
	if !s.state.isInactive {
		t.Error("no warning after ESC and idle frames")
	}
	s.processInput(pressedAt.Add(5 * time.Second))
	if s.state.Running {
		t.Error("still running after inactivity timeout")
	}
}

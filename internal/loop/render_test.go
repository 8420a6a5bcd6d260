package loop

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/termpong/internal/input"
	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/match"
)

const clearSeq = "\033[H\033[2J"

func TestDrawCountdownArt(t *testing.T) {
	s, out := newTestSession(t, testOptions())
	m := s.Match()

	// Past the startup delay, countdown shows "1".
	m.Update(config.StartupDelay)
	if m.Phase() != match.PhaseCountdown {
		t.Fatalf("phase = %s, want countdown", m.Phase())
	}
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, line := range countdownArt["1"] {
		if !strings.Contains(got, line) {
			t.Errorf("countdown art line %q missing", line)
		}
	}
	if !strings.Contains(got, "Q to quit") {
		t.Error("controls hint missing during countdown")
	}

	out.Reset()
	m.Update(3 * config.CountdownStep)
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), countdownArt["GO!"][2]) {
		t.Error("GO! art missing")
	}
}

func TestStartupDrawsNothing(t *testing.T) {
	s, out := newTestSession(t, testOptions())
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(out.String(), "█▀▄") {
		t.Error("court drawn during startup")
	}
}

func TestDrawActiveCourtAndScores(t *testing.T) {
	s, out := newTestSession(t, testOptions())
	m := s.Match()
	toActive(t, m)
	m.RightScore = 7

	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.ContainsAny(got, "█▀▄") {
		t.Error("court not drawn while active")
	}

	// Scores sit either side of the net on the same row.
	lcol, row := s.canvas.LogicalToTerminal(m.Court.CenterX()-scoreOffsetX, scoreY)
	rcol, _ := s.canvas.LogicalToTerminal(m.Court.CenterX()+scoreOffsetX, scoreY)
	if !strings.Contains(got, cursorAt(lcol, row)+"0") {
		t.Errorf("left score not drawn at %d,%d", lcol, row)
	}
	if !strings.Contains(got, cursorAt(rcol, row)+"7") {
		t.Errorf("right score not drawn at %d,%d", rcol, row)
	}
}

func TestDrawResultBanners(t *testing.T) {
	s, out := newTestSession(t, testOptions())
	m := s.Match()
	toActive(t, m)
	missLeft(m)
	m.Update(config.TickTime)

	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "YOU LOST!") || !strings.Contains(got, "try again : )") {
		t.Errorf("loss banner missing in %q", got)
	}
	if strings.Contains(got, "YOU WIN!!!") {
		t.Error("win banner drawn for a loss")
	}

	// Restart and let the player win.
	s.applyInput(input.Input{Enter: true, Pressed: []byte{'\r'}}, time.Now())
	toActive(t, m)
	m.Ball.X = m.Court.Width + 5
	m.Ball.Y = 400
	m.Ball.VX = config.BallSpeedX
	m.Ball.VY = 0
	m.Right.Y = 0
	m.Update(config.TickTime)
	if m.Phase() != match.PhaseResult {
		t.Fatalf("phase = %s, want result", m.Phase())
	}

	out.Reset()
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	got = out.String()
	if !strings.Contains(got, "YOU WIN!!!") || !strings.Contains(got, "maybe it was just luck? ;p") {
		t.Errorf("win banner missing in %q", got)
	}
}

func TestOverlayChangeClearsScreen(t *testing.T) {
	s, out := newTestSession(t, testOptions())
	m := s.Match()

	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), clearSeq) {
		t.Error("first frame did not clear")
	}

	out.Reset()
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), clearSeq) {
		t.Error("unchanged overlay cleared the screen")
	}

	out.Reset()
	m.Update(config.StartupDelay)
	if err := s.drawFrame(time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), clearSeq) {
		t.Error("phase change did not clear")
	}
}

func TestDrawInactivityWarning(t *testing.T) {
	opts := testOptions()
	opts.InactivityTimeout = 4 * time.Second
	s, out := newTestSession(t, opts)

	now := s.state.lastInput.Add(3500 * time.Millisecond)
	s.applyInput(input.Input{}, now)
	if err := s.drawFrame(now); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "INACTIVITY WARNING") {
		t.Error("inactivity warning missing")
	}
	if !strings.Contains(got, "disconnected in  0 seconds") {
		t.Errorf("unexpected countdown in %q", got)
	}
}

func cursorAt(col, row int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

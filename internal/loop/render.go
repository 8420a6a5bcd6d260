package loop

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/termpong/internal/draw"
	"github.com/tomz197/termpong/internal/match"
	"github.com/tomz197/termpong/internal/object"
)

// Score labels sit this far either side of the net, near the top of the court.
const (
	scoreOffsetX = 48
	scoreY       = 40
)

// Net dashes, in logical units.
const (
	netDash = 15
	netGap  = 15
)

// Countdown glyphs (figlet "small" font).
var countdownArt = map[string][]string{
	"1": {
		` _ `,
		`/ |`,
		`| |`,
		`|_|`,
	},
	"2": {
		` ___ `,
		`|_  )`,
		` / / `,
		`/___|`,
	},
	"3": {
		` ____`,
		`|__ /`,
		` |_ \`,
		`|___/`,
	},
	"GO!": {
		`  ___  ___  _ `,
		` / __|/ _ \| |`,
		`| (_ | (_) |_|`,
		` \___|\___/(_)`,
	},
}

type styles struct {
	countdown lipgloss.Style
	win       lipgloss.Style
	lose      lipgloss.Style
	score     lipgloss.Style
	hint      lipgloss.Style
	warn      lipgloss.Style
	plain     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		countdown: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		win:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("#32CD32")),
		lose:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		score:     r.NewStyle().Bold(true),
		hint:      r.NewStyle().Faint(true),
		warn:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500")),
		plain:     r.NewStyle(),
	}
}

// drawFrame draws the current frame.
func (s *Session) drawFrame(now time.Time) error {
	// When the overlay changes, do a full terminal clear so text from the
	// previous screen doesn't persist.
	if key := s.overlayKey(); key != s.state.prevOverlay {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		s.state.prevOverlay = key
	}

	s.canvas.Clear()

	if s.showCourt() {
		ctx := object.DrawContext{
			Canvas: s.canvas,
			Writer: s.chunkWriter,
		}
		if err := s.drawCourt(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	if err := s.canvas.Render(s.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	if err := s.canvas.RenderBorder(s.chunkWriter); err != nil {
		return err
	}

	s.drawUI(now)

	return s.chunkWriter.Flush()
}

// overlayKey identifies the text overlay on screen. Text is only rewritten,
// never erased, so any change here needs a clear.
func (s *Session) overlayKey() string {
	m := s.match
	return fmt.Sprintf("%d/%t/%s/%d/%d-%d",
		s.state.Mode, s.state.isInactive, m.Phase(), m.Countdown(),
		m.LeftScore, m.RightScore)
}

// showCourt reports whether the paddles and ball are on screen.
func (s *Session) showCourt() bool {
	switch s.match.Phase() {
	case match.PhaseActive, match.PhaseScoring:
		return true
	}
	return false
}

// drawCourt draws the net, both paddles and the ball.
func (s *Session) drawCourt(ctx object.DrawContext) error {
	m := s.match
	x := m.Court.CenterX()
	for y := 0.0; y < m.Court.Height; y += netDash + netGap {
		ctx.Canvas.DrawLine(draw.Point{X: x, Y: y}, draw.Point{X: x, Y: y + netDash})
	}
	if err := m.Left.Draw(ctx); err != nil {
		return err
	}
	if err := m.Right.Draw(ctx); err != nil {
		return err
	}
	return m.Ball.Draw(ctx)
}

// drawUI draws the text overlay.
func (s *Session) drawUI(now time.Time) {
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	if s.state.Mode == ModeShutdown {
		s.drawShutdownScreen(centerX, centerY)
		return
	}

	if s.state.isInactive {
		s.drawInactivityScreen(now, centerX, centerY)
		return
	}

	switch s.match.Phase() {
	case match.PhaseCountdown:
		s.drawCountdown(centerX, centerY)
	case match.PhaseActive, match.PhaseScoring:
		s.drawScores()
	case match.PhaseResult:
		s.drawResult(centerX, centerY)
	}
}

// writeCentered writes text centered on centerX, styled with st.
func (s *Session) writeCentered(centerX, row int, text string, st lipgloss.Style) {
	s.chunkWriter.WriteAt(centerX-lipgloss.Width(text)/2, row, st.Render(text))
}

// drawCountdown draws the current countdown step in large glyphs.
func (s *Session) drawCountdown(centerX, centerY int) {
	label := match.CountdownLabel(s.match.Countdown())
	art, ok := countdownArt[label]
	if !ok {
		s.writeCentered(centerX, centerY, label, s.styles.countdown)
		return
	}

	top := centerY - len(art)/2
	for i, line := range art {
		s.writeCentered(centerX, top+i, line, s.styles.countdown)
	}

	hint := "Mouse or W/S to move, Q to quit"
	s.writeCentered(centerX, s.canvas.TerminalHeight()-1, hint, s.styles.hint)
}

// drawScores draws both scores above the court, either side of the net.
func (s *Session) drawScores() {
	m := s.match
	for _, side := range []object.Side{object.SideLeft, object.SideRight} {
		x := m.Court.CenterX() - scoreOffsetX
		if side == object.SideRight {
			x = m.Court.CenterX() + scoreOffsetX
		}
		col, row := s.canvas.LogicalToTerminal(x, scoreY)
		s.writeCentered(col, row, fmt.Sprintf("%d", m.Score(side)), s.styles.score)
	}
}

// drawResult draws the win or loss banner.
func (s *Session) drawResult(centerX, centerY int) {
	title, sub, st := "YOU LOST!", "try again : )", s.styles.lose
	if s.match.Winner() == object.SideLeft {
		title, sub, st = "YOU WIN!!!", "congrats!!, maybe it was just luck? ;p", s.styles.win
	}
	s.writeCentered(centerX, centerY-1, title, st)
	s.writeCentered(centerX, centerY+1, sub, s.styles.plain)

	score := fmt.Sprintf("%d - %d", s.match.LeftScore, s.match.RightScore)
	s.writeCentered(centerX, centerY+3, score, s.styles.score)

	prompt := "Press SPACE to play again"
	s.writeCentered(centerX, centerY+5, prompt, s.styles.hint)
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen(now time.Time, centerX, centerY int) {
	s.writeCentered(centerX, centerY-2, "INACTIVITY WARNING", s.styles.warn)

	left := int((s.inactivity - now.Sub(s.state.lastInput)).Seconds())
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %2d seconds.", max(left, 0))
	s.writeCentered(centerX, centerY, msg, s.styles.plain)

	s.writeCentered(centerX, centerY+2, "Press any key to continue", s.styles.hint)
}

// drawShutdownScreen draws the server shutdown notice.
func (s *Session) drawShutdownScreen(centerX, centerY int) {
	s.writeCentered(centerX, centerY-2, "SERVER SHUTTING DOWN", s.styles.warn)

	msg := fmt.Sprintf("The server is going away. You will be disconnected in %2d seconds.", int(max(s.state.shutdownTimer, 0)))
	s.writeCentered(centerX, centerY, msg, s.styles.plain)

	s.writeCentered(centerX, centerY+2, "Thanks for playing!", s.styles.hint)
}

// Package object defines the court, ball and paddles and how they draw.
package object

import (
	"io"

	"github.com/tomz197/termpong/internal/draw"
)

// Side identifies one half of the court.
type Side int

const (
	SideLeft  Side = iota // Human player
	SideRight             // AI
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Court is the play area in logical units. It is set once at startup.
type Court struct {
	Width  float64
	Height float64
}

// CenterX returns the horizontal center of the court.
func (c Court) CenterX() float64 {
	return c.Width / 2
}

// CenterY returns the vertical center of the court.
func (c Court) CenterY() float64 {
	return c.Height / 2
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas // High-resolution canvas (2x vertical)
	Writer io.Writer    // Direct terminal output (for text)
}

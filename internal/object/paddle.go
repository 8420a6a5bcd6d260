package object

import (
	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/physics"
)

// Paddle is a vertical bat fixed at one side of the court.
// Only Y moves; X is set by the side it guards.
type Paddle struct {
	X, Y   float64 // Top-left corner
	Width  float64
	Height float64
}

// NewPaddle creates a paddle for the given side, vertically centered.
func NewPaddle(side Side, court Court) Paddle {
	p := Paddle{
		Width:  config.PaddleWidth,
		Height: config.PaddleHeight,
	}
	if side == SideLeft {
		p.X = config.PaddleMargin
	} else {
		p.X = court.Width - config.PaddleMargin - config.PaddleWidth
	}
	p.Y = court.CenterY() - p.Height/2
	return p
}

// CenterY returns the vertical center of the paddle.
func (p Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// Face returns the x coordinate of the surface the ball bounces off.
func (p Paddle) Face(side Side) float64 {
	if side == SideLeft {
		return p.X + p.Width
	}
	return p.X
}

// Bounds returns the paddle's bounding rectangle.
func (p Paddle) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// Clamp keeps the paddle inside the court vertically.
func (p *Paddle) Clamp(court Court) {
	p.Y = physics.Clamp(p.Y, 0, court.Height-p.Height)
}

// FollowPointer centers the paddle on a pointer's vertical position.
func (p *Paddle) FollowPointer(pointerY float64, court Court) {
	p.Y = pointerY - p.Height/2
	p.Clamp(court)
}

// Draw renders the paddle as a filled rectangle.
func (p Paddle) Draw(ctx DrawContext) error {
	ctx.Canvas.FillRect(p.X, p.Y, p.Width, p.Height)
	return nil
}

package object

import (
	"math/rand"

	"github.com/tomz197/termpong/internal/loop/config"
	"github.com/tomz197/termpong/internal/physics"
)

// Ball is the square-bounded ball. X and Y are the top-left corner of its
// bounding box; velocities are in logical units per tick.
type Ball struct {
	X, Y   float64
	VX, VY float64
	Size   float64
}

// NewBall creates a ball at the court center with a random serve direction.
func NewBall(court Court, rng *rand.Rand) Ball {
	b := Ball{Size: config.BallSize}
	b.Reset(court, rng)
	return b
}

// Reset moves the ball back to the court center and serves it again.
// Speeds keep their fixed magnitudes; only the signs are random.
func (b *Ball) Reset(court Court, rng *rand.Rand) {
	b.X = court.CenterX() - b.Size/2
	b.Y = court.CenterY() - b.Size/2
	b.VX = config.BallSpeedX * randomSign(rng)
	b.VY = config.BallSpeedY * randomSign(rng)
}

func randomSign(rng *rand.Rand) float64 {
	if rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

// CenterX returns the horizontal center of the ball.
func (b Ball) CenterX() float64 {
	return b.X + b.Size/2
}

// CenterY returns the vertical center of the ball.
func (b Ball) CenterY() float64 {
	return b.Y + b.Size/2
}

// Bounds returns the ball's bounding square.
func (b Ball) Bounds() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, Width: b.Size, Height: b.Size}
}

// Advance moves the ball one tick and resolves walls, paddles and misses.
//
// Collisions use the ball's bounding square, so a paddle corner can
// register before the round ball visibly touches it. Wall and paddle
// checks are independent and may both fire in one tick. When a point is
// scored the ball is already reset to the center on return.
func (b *Ball) Advance(left, right Paddle, court Court, rng *rand.Rand) AdvanceResult {
	var res AdvanceResult

	b.X += b.VX
	b.Y += b.VY

	if b.Y <= 0 || b.Y+b.Size >= court.Height {
		b.VY = -b.VY
		res.add(Event{Kind: EventWallHit})
	}

	if b.X <= left.Face(SideLeft) && b.spans(left) {
		b.bounce(rng)
		b.X = left.Face(SideLeft)
		res.add(Event{Kind: EventPaddleHit, Side: SideLeft})
	}

	if b.X+b.Size >= right.Face(SideRight) && b.spans(right) {
		b.bounce(rng)
		b.X = right.Face(SideRight) - b.Size
		res.add(Event{Kind: EventPaddleHit, Side: SideRight})
	}

	if b.X < 0 {
		res.add(Event{Kind: EventPointScored, Side: SideRight})
		b.Reset(court, rng)
	} else if b.X > court.Width {
		res.add(Event{Kind: EventPointScored, Side: SideLeft})
		b.Reset(court, rng)
	}

	return res
}

// spans reports whether the ball's vertical extent overlaps the paddle's.
func (b Ball) spans(p Paddle) bool {
	return physics.RangesOverlap(b.Y, b.Y+b.Size, p.Y, p.Y+p.Height)
}

// bounce reverses horizontal travel and nudges the vertical speed by a
// random amount in [-1, 1).
func (b *Ball) bounce(rng *rand.Rand) {
	b.VX = -b.VX
	b.VY += (rng.Float64() - 0.5) * 2
}

// Draw renders the ball as a filled circle inscribed in its bounding box.
func (b Ball) Draw(ctx DrawContext) error {
	ctx.Canvas.FillCircle(b.CenterX(), b.CenterY(), b.Size/2)
	return nil
}

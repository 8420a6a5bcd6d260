// Package ai steers the computer-controlled paddle.
package ai

import "github.com/tomz197/termpong/internal/object"

// Update moves the paddle one fixed step toward the ball's vertical center.
// There is no prediction or easing; when the centers line up it stays put.
func Update(p *object.Paddle, ball object.Ball, court object.Court, speed float64) {
	switch pc, bc := p.CenterY(), ball.CenterY(); {
	case pc < bc:
		p.Y += speed
	case pc > bc:
		p.Y -= speed
	}
	p.Clamp(court)
}

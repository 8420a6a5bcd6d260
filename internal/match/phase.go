package match

import "strconv"

// Phase is the current stage of a match.
type Phase int

const (
	PhaseStartup   Phase = iota // Short pause before the first countdown
	PhaseCountdown              // 1, 2, 3, GO!
	PhaseActive                 // Ball in play
	PhaseScoring                // Point just scored, frame holds
	PhaseResult                 // Someone reached the win score
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "startup"
	case PhaseCountdown:
		return "countdown"
	case PhaseActive:
		return "active"
	case PhaseScoring:
		return "scoring"
	case PhaseResult:
		return "result"
	default:
		return "unknown"
	}
}

// CountdownGo is the countdown step that shows "GO!" instead of a number.
const CountdownGo = 4

// CountdownLabel returns the text shown for a countdown step.
func CountdownLabel(count int) string {
	if count >= CountdownGo {
		return "GO!"
	}
	return strconv.Itoa(count)
}

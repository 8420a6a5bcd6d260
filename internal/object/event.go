package object

// EventKind identifies something that happened during a ball tick.
type EventKind int

const (
	EventWallHit EventKind = iota
	EventPaddleHit
	EventPointScored
)

func (k EventKind) String() string {
	switch k {
	case EventWallHit:
		return "wall_hit"
	case EventPaddleHit:
		return "paddle_hit"
	case EventPointScored:
		return "point_scored"
	default:
		return "unknown"
	}
}

// Event is a single tick outcome. Side is the paddle that was hit for
// EventPaddleHit and the side awarded the point for EventPointScored.
type Event struct {
	Kind EventKind
	Side Side
}

// AdvanceResult collects the events produced by one Ball.Advance call.
type AdvanceResult struct {
	Events []Event
}

func (r *AdvanceResult) add(e Event) {
	r.Events = append(r.Events, e)
}

// Scored returns the side awarded a point this tick, if any.
func (r AdvanceResult) Scored() (Side, bool) {
	for _, e := range r.Events {
		if e.Kind == EventPointScored {
			return e.Side, true
		}
	}
	return 0, false
}

// Has reports whether an event of the given kind occurred.
func (r AdvanceResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

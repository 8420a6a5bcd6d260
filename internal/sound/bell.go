package sound

import (
	"io"
	"time"
)

// Bell plays tones by ringing the terminal bell.
// A terminal can't pick a pitch, so tones that start while the previous
// one would still be sounding fold into a single ring.
type Bell struct {
	w     io.Writer
	now   func() time.Time
	until time.Time
}

// NewBell creates a bell backend writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w, now: time.Now}
}

// Play rings the bell unless the previous tone is still sounding.
func (b *Bell) Play(t Tone) error {
	now := b.now()
	if now.Before(b.until) {
		return nil
	}
	b.until = now.Add(t.Duration)
	_, err := io.WriteString(b.w, "\a")
	return err
}

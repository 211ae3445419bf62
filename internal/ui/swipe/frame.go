package swipe

import (
	"math"
	"time"
)

// Frame describes how to draw the current page and, while the offset is
// non-zero, the neighbour sliding in from the side of the gesture.
type Frame struct {
	Offset          float64
	Adjacent        Direction
	CurrentX        float64
	AdjacentX       float64
	CurrentOpacity  float64
	AdjacentOpacity float64
}

// Visible reports whether the adjacent page has to be drawn.
func (f Frame) Visible() bool { return f.Adjacent != None }

func (s *Switcher) Frame(now time.Time) Frame {
	o := s.Offset(now)
	f := Frame{Offset: o, CurrentX: o, CurrentOpacity: 1}
	if o == 0 {
		return f
	}
	share := math.Min(1, math.Abs(o)/s.width)
	f.Adjacent = directionOf(o)
	f.CurrentOpacity = 1 - share
	f.AdjacentOpacity = share
	if f.Adjacent == Next {
		f.AdjacentX = o + s.width
	} else {
		f.AdjacentX = o - s.width
	}
	return f
}

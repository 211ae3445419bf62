// Package swipe tracks a horizontal drag across a ring of pages, classifies
// how the drag ended and animates the switch, return or quick switch that
// follows. Time is always passed in so the machine can be driven from a
// frame ticker or a test.
package swipe

import (
	"math"
	"time"
)

const (
	maxDragFraction    = 0.8
	edgeOffsetFraction = 0.5
	edgeDeltaFraction  = 0.2
	interruptFraction  = 0.5

	quickVelocity  = 3.0 // px per ms
	quickProgress  = 0.1
	switchProgress = 0.3
)

type Phase int

const (
	Idle Phase = iota
	Dragging
	Animating
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Animating:
		return "animating"
	default:
		return "idle"
	}
}

type Kind int

const (
	KindNone Kind = iota
	Switch
	QuickSwitch
	Return
)

func (k Kind) String() string {
	switch k {
	case Switch:
		return "switch"
	case QuickSwitch:
		return "quick-switch"
	case Return:
		return "return"
	default:
		return "none"
	}
}

// Duration of the animation for k.
func (k Kind) Duration() time.Duration {
	switch k {
	case Switch:
		return 300 * time.Millisecond
	case QuickSwitch:
		return 150 * time.Millisecond
	case Return:
		return 200 * time.Millisecond
	default:
		return 0
	}
}

// Direction of a switch. A drag to the left (negative offset) reveals Next.
type Direction int

const (
	None Direction = iota
	Next
	Prev
)

func directionOf(offset float64) Direction {
	switch {
	case offset < 0:
		return Next
	case offset > 0:
		return Prev
	default:
		return None
	}
}

// Navigator receives committed switches. *pager.Pager satisfies it.
type Navigator interface {
	Next()
	Prev()
}

// State is a read-only view of the machine at one instant.
type State struct {
	Phase             Phase
	Kind              Kind
	Direction         Direction
	Offset            float64
	GestureInProgress bool
	// Pending is set when an animation was requested during a gesture and
	// waits for the gesture to end.
	Pending bool
}

type animation struct {
	kind    Kind
	dir     Direction
	from    float64
	to      float64
	start   time.Time
	started bool
}

type Switcher struct {
	nav   Navigator
	width float64

	phase  Phase
	offset float64
	anim   animation

	gesture      bool
	gestureStart time.Time
	travelled    float64
}

func New(width float64, nav Navigator) *Switcher {
	return &Switcher{nav: nav, width: clampWidth(width)}
}

// Classify decides what a finished drag turns into.
func Classify(progress, velocity float64) Kind {
	switch {
	case velocity > quickVelocity && progress > quickProgress:
		return QuickSwitch
	case progress > switchProgress:
		return Switch
	default:
		return Return
	}
}

func (s *Switcher) Width() float64 { return s.width }

// Resize rescales the offsets in flight to the new viewport width.
func (s *Switcher) Resize(width float64) {
	width = clampWidth(width)
	if width == s.width {
		return
	}
	ratio := width / s.width
	s.offset *= ratio
	s.anim.from *= ratio
	s.anim.to *= ratio
	s.width = width
}

func (s *Switcher) GestureStart(now time.Time) {
	if s.gesture {
		return
	}
	if s.phase == Animating {
		s.interrupt(now)
	}
	s.phase = Dragging
	s.gesture = true
	s.gestureStart = now
	s.travelled = 0
}

// GestureMove applies a horizontal delta in px.
func (s *Switcher) GestureMove(delta float64, now time.Time) {
	if !s.gesture {
		return
	}
	s.travelled += math.Abs(delta)
	if s.phase != Dragging {
		return
	}
	limit := s.width * maxDragFraction
	s.offset = math.Max(-limit, math.Min(limit, s.offset+delta))
	if math.Abs(s.offset) > s.width*edgeOffsetFraction && math.Abs(delta) > s.width*edgeDeltaFraction {
		s.phase = Animating
		s.anim = animation{kind: QuickSwitch, dir: directionOf(s.offset)}
	}
}

func (s *Switcher) GestureEnd(now time.Time) {
	if !s.gesture {
		return
	}
	s.gesture = false
	if s.phase == Animating && !s.anim.started {
		s.animate(s.anim.kind, s.anim.dir, now)
		return
	}
	s.animate(Classify(s.progress(), s.velocity(now)), directionOf(s.offset), now)
}

func (s *Switcher) GestureCancel(now time.Time) {
	if !s.gesture {
		return
	}
	s.gesture = false
	s.animate(Return, None, now)
}

// Request starts a Switch towards dir, as from a keyboard binding. It is
// refused while a gesture is in progress.
func (s *Switcher) Request(dir Direction, now time.Time) bool {
	if s.gesture || dir == None {
		return false
	}
	if s.phase == Animating {
		s.interrupt(now)
	}
	s.animate(Switch, dir, now)
	return true
}

// Tick completes a finished animation and reports whether one is still
// running.
func (s *Switcher) Tick(now time.Time) bool {
	if s.phase != Animating || !s.anim.started {
		return s.phase == Animating
	}
	if now.Sub(s.anim.start) < s.anim.kind.Duration() {
		return true
	}
	if s.anim.kind != Return {
		s.commit(s.anim.dir)
	}
	s.phase = Idle
	s.offset = 0
	s.anim = animation{}
	return false
}

// Offset is the displayed offset at now.
func (s *Switcher) Offset(now time.Time) float64 {
	if s.phase == Animating && s.anim.started {
		return s.animatedOffset(now)
	}
	return s.offset
}

func (s *Switcher) State(now time.Time) State {
	st := State{
		Phase:             s.phase,
		Offset:            s.Offset(now),
		GestureInProgress: s.gesture,
	}
	if s.phase == Animating {
		st.Kind = s.anim.kind
		st.Direction = s.anim.dir
		st.Pending = !s.anim.started
	}
	return st
}

// interrupt stops the running animation. Past the halfway mark a switch is
// committed and the offset is rebased onto the new page so the strip does
// not move.
func (s *Switcher) interrupt(now time.Time) {
	current := s.Offset(now)
	if s.anim.started && s.anim.kind != Return && math.Abs(current) > s.width*interruptFraction {
		s.commit(s.anim.dir)
		if s.anim.dir == Next {
			current += s.width
		} else {
			current -= s.width
		}
	}
	s.offset = current
	s.anim = animation{}
	s.phase = Idle
}

func (s *Switcher) animate(kind Kind, dir Direction, now time.Time) {
	if kind == Return && s.offset == 0 {
		s.phase = Idle
		s.anim = animation{}
		return
	}
	s.phase = Animating
	s.anim = animation{
		kind:    kind,
		dir:     dir,
		from:    s.offset,
		to:      s.target(kind, dir),
		start:   now,
		started: true,
	}
}

func (s *Switcher) target(kind Kind, dir Direction) float64 {
	if kind == Return {
		return 0
	}
	switch dir {
	case Next:
		return -s.width
	case Prev:
		return s.width
	default:
		return 0
	}
}

func (s *Switcher) animatedOffset(now time.Time) float64 {
	d := s.anim.kind.Duration()
	t := 1.0
	if d > 0 {
		t = float64(now.Sub(s.anim.start)) / float64(d)
	}
	t = math.Max(0, math.Min(1, t))
	return s.anim.from + (s.anim.to-s.anim.from)*FastOutSlowIn.Ease(t)
}

func (s *Switcher) commit(dir Direction) {
	if s.nav == nil {
		return
	}
	switch dir {
	case Next:
		s.nav.Next()
	case Prev:
		s.nav.Prev()
	}
}

func (s *Switcher) progress() float64 {
	return math.Abs(s.offset) / s.width
}

func (s *Switcher) velocity(now time.Time) float64 {
	ms := float64(now.Sub(s.gestureStart)) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return s.travelled / ms
}

func clampWidth(w float64) float64 {
	if w < 1 || math.IsNaN(w) {
		return 1
	}
	return w
}

// Package pager fakes an endless ring of pages with a finite virtual index
// space. The position is kept away from both ends by silent jumps of whole
// ring multiples, which move the virtual index without changing the page.
package pager

import "fmt"

const (
	DefaultMultiplier = 100
	DefaultBufferZone = 5
)

type Pager struct {
	size        int
	multiplier  int
	bufferZone  int
	position    int
	corrections int
}

// New builds a pager over size logical pages. Twice the buffer zone must fit
// in the half ring a correction jumps over, otherwise a recentred position
// could land inside the opposite buffer.
func New(size, multiplier, bufferZone int) (*Pager, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pager: size must be positive, got %d", size)
	}
	if multiplier < 2 {
		return nil, fmt.Errorf("pager: multiplier must be at least 2, got %d", multiplier)
	}
	if bufferZone < 0 || 2*bufferZone > multiplier-multiplier/2 {
		return nil, fmt.Errorf("pager: buffer zone %d too large for multiplier %d", bufferZone, multiplier)
	}
	p := &Pager{size: size, multiplier: multiplier, bufferZone: bufferZone}
	p.position = p.Total() / 2
	return p, nil
}

// Total is the size of the virtual index space.
func (p *Pager) Total() int { return p.size * p.multiplier }

// Size is the number of logical pages.
func (p *Pager) Size() int { return p.size }

func (p *Pager) CurrentVirtualIndex() int { return p.position }

// CurrentPage is the logical page index, CurrentVirtualIndex() mod Size().
func (p *Pager) CurrentPage() int { return p.position % p.size }

// Corrections counts the silent recentring jumps performed so far.
func (p *Pager) Corrections() int { return p.corrections }

// GoToPage moves to a virtual index, clamped into the index space, then
// applies edge correction.
func (p *Pager) GoToPage(virtualIndex int) {
	if virtualIndex < 0 {
		virtualIndex = 0
	}
	if last := p.Total() - 1; virtualIndex > last {
		virtualIndex = last
	}
	p.position = virtualIndex
	p.correct()
}

// GoToLogical moves to the nearest virtual index showing logical page n.
func (p *Pager) GoToLogical(n int) {
	n %= p.size
	if n < 0 {
		n += p.size
	}
	delta := n - p.CurrentPage()
	if delta > p.size/2 {
		delta -= p.size
	} else if delta < -p.size/2 {
		delta += p.size
	}
	p.GoToPage(p.position + delta)
}

func (p *Pager) Next() { p.GoToPage(p.position + 1) }

func (p *Pager) Prev() { p.GoToPage(p.position - 1) }

// Corrected returns the position edge correction would move pos to.
func (p *Pager) Corrected(pos int) int {
	edge := p.size * p.bufferZone
	jump := p.size * (p.multiplier / 2)
	switch {
	case pos < edge:
		return pos + jump
	case pos > p.Total()-edge:
		return pos - jump
	default:
		return pos
	}
}

func (p *Pager) correct() {
	if next := p.Corrected(p.position); next != p.position {
		p.position = next
		p.corrections++
	}
}

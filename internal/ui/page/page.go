// Package page defines the closed, ordered set of top-level destinations and
// their cyclic adjacency.
package page

import (
	"math"
	"strings"
)

type Page int

const (
	Planner Page = iota
	Notes
	Statistics
	Settings
	Server
	Count int = iota
)

var labels = [Count]string{"Planner", "Notes", "Statistics", "Settings", "Server"}

var adjacency = [Count]struct{ next, prev Page }{
	Planner:    {next: Notes, prev: Server},
	Notes:      {next: Statistics, prev: Planner},
	Statistics: {next: Settings, prev: Notes},
	Settings:   {next: Server, prev: Statistics},
	Server:     {next: Planner, prev: Settings},
}

// All returns the pages in display order.
func All() []Page {
	return []Page{Planner, Notes, Statistics, Settings, Server}
}

func (p Page) Valid() bool { return p >= 0 && int(p) < Count }

func (p Page) Next() Page { return adjacency[p.normalized()].next }

func (p Page) Prev() Page { return adjacency[p.normalized()].prev }

func (p Page) Label() string { return labels[p.normalized()] }

func (p Page) String() string { return p.Label() }

// FromIndex maps any integer, negative included, onto a page by i mod Count.
func FromIndex(i int) Page {
	m := i % Count
	if m < 0 {
		m += Count
	}
	return Page(m)
}

// Parse resolves a page by case-insensitive label.
func Parse(s string) (Page, bool) {
	s = strings.TrimSpace(s)
	for i, l := range labels {
		if strings.EqualFold(l, s) {
			return Page(i), true
		}
	}
	return Planner, false
}

// CyclicDistance is the shortest distance between two fractional positions on
// a ring of n slots.
func CyclicDistance(a, b float64, n int) float64 {
	direct := math.Abs(a - b)
	if n <= 0 {
		return direct
	}
	direct = math.Mod(direct, float64(n))
	return math.Min(direct, float64(n)-direct)
}

func (p Page) normalized() Page {
	if p.Valid() {
		return p
	}
	return FromIndex(int(p))
}

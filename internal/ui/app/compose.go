package app

import (
	"math"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"planote/internal/ui/swipe"
)

// fitLines cuts or pads every line of block to exactly width cells and the
// block to exactly height lines.
func fitLines(block string, width, height int) []string {
	lines := strings.Split(block, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		w := ansi.StringWidth(l)
		switch {
		case w > width:
			lines[i] = ansi.Truncate(l, width, "")
		case w < width:
			lines[i] = l + strings.Repeat(" ", width-w)
		}
	}
	return lines
}

// Compose draws current shifted by the frame offset with adjacent filling
// the uncovered side. Offsets are in columns.
func Compose(current, adjacent string, frame swipe.Frame, width, height int) string {
	cur := fitLines(current, width, height)
	if !frame.Visible() || width <= 0 {
		return strings.Join(cur, "\n")
	}
	adj := fitLines(adjacent, width, height)
	shift := int(math.Round(math.Abs(frame.Offset)))
	if shift > width {
		shift = width
	}
	out := make([]string, height)
	for i := range out {
		if frame.Adjacent == swipe.Next {
			// Current slides left, next enters from the right.
			out[i] = ansi.Cut(cur[i], shift, width) + ansi.Cut(adj[i], 0, shift)
		} else {
			out[i] = ansi.Cut(adj[i], width-shift, width) + ansi.Cut(cur[i], 0, width-shift)
		}
	}
	return strings.Join(out, "\n")
}

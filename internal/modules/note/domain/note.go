package domain

import (
	"strings"
	"time"
)

const Table = "note"

// Note is a free-form markdown page. An empty ID marks a note that was never
// stored.
type Note struct {
	ID        string
	Title     string
	Body      string
	UpdatedAt time.Time
}

func (n Note) IsNew() bool { return n.ID == "" }

// IsBlank reports a note with neither title nor body; saving one removes it.
func (n Note) IsBlank() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Body) == ""
}

// DisplayTitle falls back to the first non-empty body line.
func (n Note) DisplayTitle() string {
	if t := strings.TrimSpace(n.Title); t != "" {
		return t
	}
	for _, line := range strings.Split(n.Body, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return line
		}
	}
	return "untitled"
}

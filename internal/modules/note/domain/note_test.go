package domain

import "testing"

func TestBlankAndDisplayTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		note  Note
		blank bool
		title string
	}{
		{name: "empty", note: Note{Title: "  ", Body: "\n"}, blank: true, title: "untitled"},
		{name: "title", note: Note{Title: "Trip"}, title: "Trip"},
		{name: "heading body", note: Note{Body: "\n## Packing list\n- socks"}, title: "Packing list"},
	}
	for _, tt := range tests {
		if got := tt.note.IsBlank(); got != tt.blank {
			t.Fatalf("%s: IsBlank = %v", tt.name, got)
		}
		if got := tt.note.DisplayTitle(); got != tt.title {
			t.Fatalf("%s: DisplayTitle = %q, want %q", tt.name, got, tt.title)
		}
	}
}

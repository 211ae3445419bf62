package dto

import "time"

type NoteInput struct {
	ID    string
	Title string
	Body  string
}

type NoteOutput struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
	Deleted   bool      `json:"-"`
}

type ExportOutput struct {
	Dir   string
	Files []string
}

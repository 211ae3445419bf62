package in

import (
	"context"

	"planote/internal/modules/note/dto"
	"planote/internal/platform/live"
)

type Usecase interface {
	SaveNote(ctx context.Context, input dto.NoteInput) (dto.NoteOutput, error)
	DeleteNote(ctx context.Context, id string) error
	GetNote(ctx context.Context, id string) (dto.NoteOutput, error)
	ListNotes(ctx context.Context) ([]dto.NoteOutput, error)
	WatchNotes(ctx context.Context) <-chan live.Result[[]dto.NoteOutput]
	ExportNotes(ctx context.Context, dir string) (dto.ExportOutput, error)
}

package out

import (
	"context"

	"planote/internal/modules/note/domain"
)

type NoteStore interface {
	Upsert(ctx context.Context, note domain.Note) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (domain.Note, error)
	List(ctx context.Context) ([]domain.Note, error)
}

// Exporter writes notes somewhere outside the database and returns the
// paths it produced.
type Exporter interface {
	Export(ctx context.Context, dir string, notes []domain.Note) ([]string, error)
}

type Notifier interface {
	Publish(topics ...string)
}

package usecase

import (
	"context"

	"planote/internal/modules/note/domain"
	"planote/internal/modules/note/dto"
	notein "planote/internal/modules/note/port/in"
	"planote/internal/modules/note/service"
	"planote/internal/platform/live"
)

type Interactor struct {
	svc *service.NoteService
	hub *live.Hub
}

var _ notein.Usecase = (*Interactor)(nil)

func NewInteractor(svc *service.NoteService, hub *live.Hub) *Interactor {
	if hub == nil {
		hub = live.NewHub()
	}
	return &Interactor{svc: svc, hub: hub}
}

func (i *Interactor) SaveNote(ctx context.Context, input dto.NoteInput) (dto.NoteOutput, error) {
	note, kept, err := i.svc.Save(ctx, domain.Note{ID: input.ID, Title: input.Title, Body: input.Body})
	if err != nil {
		return dto.NoteOutput{}, err
	}
	out := toOutput(note)
	out.Deleted = !kept
	return out, nil
}

func (i *Interactor) DeleteNote(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) GetNote(ctx context.Context, id string) (dto.NoteOutput, error) {
	note, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return toOutput(note), nil
}

func (i *Interactor) ListNotes(ctx context.Context) ([]dto.NoteOutput, error) {
	notes, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(notes), nil
}

func (i *Interactor) WatchNotes(ctx context.Context) <-chan live.Result[[]dto.NoteOutput] {
	return live.Query(ctx, i.hub, []string{domain.Table}, i.ListNotes)
}

func (i *Interactor) ExportNotes(ctx context.Context, dir string) (dto.ExportOutput, error) {
	files, err := i.svc.Export(ctx, dir)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Dir: dir, Files: files}, nil
}

func toOutput(n domain.Note) dto.NoteOutput {
	return dto.NoteOutput{ID: n.ID, Title: n.Title, Body: n.Body, UpdatedAt: n.UpdatedAt}
}

func toOutputs(notes []domain.Note) []dto.NoteOutput {
	out := make([]dto.NoteOutput, 0, len(notes))
	for _, n := range notes {
		out = append(out, toOutput(n))
	}
	return out
}

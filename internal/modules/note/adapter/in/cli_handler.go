package in

import (
	"context"
	"fmt"
	"strings"

	"planote/internal/modules/note/dto"
	notein "planote/internal/modules/note/port/in"
	apperrors "planote/internal/platform/errors"
)

type CLIHandler struct {
	usecase notein.Usecase
}

func NewCLIHandler(usecase notein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, title, body string) (dto.NoteOutput, error) {
	return h.usecase.SaveNote(ctx, dto.NoteInput{Title: title, Body: body})
}

// Edit replaces the title and body of the note matching ref. Blank values
// keep the stored ones.
func (h CLIHandler) Edit(ctx context.Context, ref, title, body string) (dto.NoteOutput, error) {
	note, err := h.Resolve(ctx, ref)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	if strings.TrimSpace(title) != "" {
		note.Title = title
	}
	if strings.TrimSpace(body) != "" {
		note.Body = body
	}
	return h.usecase.SaveNote(ctx, dto.NoteInput{ID: note.ID, Title: note.Title, Body: note.Body})
}

func (h CLIHandler) Remove(ctx context.Context, ref string) (dto.NoteOutput, error) {
	note, err := h.Resolve(ctx, ref)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return note, h.usecase.DeleteNote(ctx, note.ID)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.NoteOutput, error) {
	return h.usecase.ListNotes(ctx)
}

func (h CLIHandler) Export(ctx context.Context, dir string) (dto.ExportOutput, error) {
	return h.usecase.ExportNotes(ctx, dir)
}

// Resolve finds the note whose id starts with ref.
func (h CLIHandler) Resolve(ctx context.Context, ref string) (dto.NoteOutput, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return dto.NoteOutput{}, fmt.Errorf("%w: note id is required", apperrors.ErrInvalidInput)
	}
	notes, err := h.usecase.ListNotes(ctx)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	var matches []dto.NoteOutput
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return dto.NoteOutput{}, fmt.Errorf("note %s: %w", ref, apperrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return dto.NoteOutput{}, fmt.Errorf("%w: note id %q is ambiguous (%d matches)", apperrors.ErrInvalidInput, ref, len(matches))
	}
}

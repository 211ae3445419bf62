package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"planote/internal/modules/note/domain"
	noteout "planote/internal/modules/note/port/out"
	"planote/internal/platform/clock"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/id"
)

type NoteService struct {
	store    noteout.NoteStore
	exporter noteout.Exporter
	ids      id.Generator
	clock    clock.Clock
	notify   noteout.Notifier
	log      hclog.Logger
}

func NewNoteService(store noteout.NoteStore, exporter noteout.Exporter, ids id.Generator, clk clock.Clock, notify noteout.Notifier, log hclog.Logger) *NoteService {
	if ids == nil {
		ids = id.UUID{}
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &NoteService{store: store, exporter: exporter, ids: ids, clock: clk, notify: notify, log: log.Named("note")}
}

// Save stores note and reports whether it is kept. A blank note is removed
// when it was stored before and dropped otherwise.
func (s *NoteService) Save(ctx context.Context, note domain.Note) (domain.Note, bool, error) {
	if note.IsBlank() {
		if note.IsNew() {
			return note, false, nil
		}
		if err := s.store.Delete(ctx, note.ID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return domain.Note{}, false, err
		}
		s.log.Debug("blank note removed", "id", note.ID)
		s.publish()
		return note, false, nil
	}
	if note.IsNew() {
		note.ID = s.ids.New()
	}
	note.Title = strings.TrimSpace(note.Title)
	note.UpdatedAt = s.clock.Now().UTC()
	if err := s.store.Upsert(ctx, note); err != nil {
		return domain.Note{}, false, err
	}
	s.log.Debug("note saved", "id", note.ID)
	s.publish()
	return note, true, nil
}

func (s *NoteService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: note id is required", apperrors.ErrInvalidInput)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish()
	return nil
}

func (s *NoteService) Get(ctx context.Context, id string) (domain.Note, error) {
	return s.store.FindByID(ctx, id)
}

// List returns notes newest first.
func (s *NoteService) List(ctx context.Context) ([]domain.Note, error) {
	return s.store.List(ctx)
}

func (s *NoteService) Export(ctx context.Context, dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.exporter.Export(ctx, dir, notes)
	if err != nil {
		return nil, err
	}
	s.log.Info("notes exported", "dir", dir, "count", len(files))
	return files, nil
}

func (s *NoteService) publish() {
	if s.notify != nil {
		s.notify.Publish(domain.Table)
	}
}

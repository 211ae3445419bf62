package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"planote/internal/modules/note/domain"
	noteout "planote/internal/modules/note/port/out"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/tx"
)

// SQLiteNoteStore shares the planner database handle.
type SQLiteNoteStore struct {
	db *sql.DB
}

var _ noteout.NoteStore = (*SQLiteNoteStore)(nil)

func NewSQLiteNoteStore(ctx context.Context, db *sql.DB) (*SQLiteNoteStore, error) {
	const ddl = `
CREATE TABLE IF NOT EXISTS note (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_note_updated ON note(updated_at);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create note table: %w", err)
	}
	return &SQLiteNoteStore{db: db}, nil
}

func (s *SQLiteNoteStore) Upsert(ctx context.Context, note domain.Note) error {
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, `
INSERT INTO note (id, title, body, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  body = excluded.body,
  updated_at = excluded.updated_at
`, note.ID, note.Title, note.Body, note.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}

func (s *SQLiteNoteStore) Delete(ctx context.Context, id string) error {
	res, err := tx.Executor(ctx, s.db).ExecContext(ctx, `DELETE FROM note WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("note %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (s *SQLiteNoteStore) FindByID(ctx context.Context, id string) (domain.Note, error) {
	var (
		n       domain.Note
		updated string
	)
	err := tx.Executor(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, title, body, updated_at FROM note WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Note{}, fmt.Errorf("note %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Note{}, fmt.Errorf("get note: %w", err)
	}
	n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return n, nil
}

func (s *SQLiteNoteStore) List(ctx context.Context) ([]domain.Note, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx,
		`SELECT id, title, body, updated_at FROM note ORDER BY updated_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []domain.Note{}
	for rows.Next() {
		var (
			n       domain.Note
			updated string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &updated); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, n)
	}
	return out, rows.Err()
}

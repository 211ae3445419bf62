package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"planote/internal/modules/plan/domain"
	apperrors "planote/internal/platform/errors"
	"planote/internal/platform/tx"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps calendar entries, their tasks and weekly plans in one
// SQLite database. Every method runs on the transaction carried by ctx when
// there is one.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serialises writers and keeps the pragmas in effect.
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// DB exposes the handle for transaction management.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	for _, scale := range domain.Scales() {
		ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %[1]s (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL DEFAULT '',
  date TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_date ON %[1]s(date);
CREATE TABLE IF NOT EXISTS %[2]s (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id INTEGER NOT NULL REFERENCES %[1]s(id) ON DELETE CASCADE,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  done INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_%[2]s_owner ON %[2]s(owner_id);
`, scale.EntryTable(), scale.TaskTable())
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create %s tables: %w", scale, err)
		}
	}
	const weeks = `
CREATE TABLE IF NOT EXISTS plan_week (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL DEFAULT '',
  active INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS plan_week_day (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id INTEGER NOT NULL REFERENCES plan_week(id) ON DELETE CASCADE,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_plan_week_day_owner ON plan_week_day(owner_id);
CREATE TABLE IF NOT EXISTS plan_week_day_task (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  owner_id INTEGER NOT NULL REFERENCES plan_week_day(id) ON DELETE CASCADE,
  title TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  time_start TEXT NOT NULL,
  time_end TEXT NOT NULL,
  done INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_plan_week_day_task_owner ON plan_week_day_task(owner_id);
`
	if _, err := s.db.ExecContext(ctx, weeks); err != nil {
		return fmt.Errorf("create week tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) exec(ctx context.Context) tx.DBTX {
	return tx.Executor(ctx, s.db)
}

func (s *SQLiteStore) InsertEntry(ctx context.Context, entry domain.Entry) (int64, error) {
	if !entry.Scale.Valid() {
		return 0, fmt.Errorf("insert entry: %w: scale %q", apperrors.ErrInvalidInput, entry.Scale)
	}
	res, err := s.exec(ctx).ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (title, date) VALUES (?, ?)`, entry.Scale.EntryTable()),
		entry.Title, domain.FormatDate(entry.Date),
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", entry.Scale, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry domain.Entry) error {
	if !entry.Scale.Valid() {
		return fmt.Errorf("update entry: %w: scale %q", apperrors.ErrInvalidInput, entry.Scale)
	}
	res, err := s.exec(ctx).ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET title = ?, date = ? WHERE id = ?`, entry.Scale.EntryTable()),
		entry.Title, domain.FormatDate(entry.Date), entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", entry.Scale, err)
	}
	return expectRow(res, "update "+string(entry.Scale))
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, scale domain.Scale, id int64) error {
	if !scale.Valid() {
		return fmt.Errorf("delete entry: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	if _, err := s.exec(ctx).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, scale.EntryTable()), id); err != nil {
		return fmt.Errorf("delete %s: %w", scale, err)
	}
	return nil
}

func (s *SQLiteStore) EntryByID(ctx context.Context, scale domain.Scale, id int64) (domain.Entry, error) {
	if !scale.Valid() {
		return domain.Entry{}, fmt.Errorf("get entry: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	var (
		e    = domain.Entry{Scale: scale}
		date string
	)
	err := s.exec(ctx).QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, title, date FROM %s WHERE id = ?`, scale.EntryTable()), id,
	).Scan(&e.ID, &e.Title, &date)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, fmt.Errorf("%s %d: %w", scale, id, apperrors.ErrNotFound)
	}
	if err != nil {
		return domain.Entry{}, fmt.Errorf("get %s: %w", scale, err)
	}
	if e.Date, err = domain.ParseDate(date); err != nil {
		return domain.Entry{}, fmt.Errorf("get %s %d: %w", scale, id, err)
	}
	return e, nil
}

func (s *SQLiteStore) EntriesFrom(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	return s.queryEntries(ctx, scale, `date >= ?`, cutoff)
}

func (s *SQLiteStore) EntriesBefore(ctx context.Context, scale domain.Scale, cutoff time.Time) ([]domain.Entry, error) {
	return s.queryEntries(ctx, scale, `date < ?`, cutoff)
}

func (s *SQLiteStore) queryEntries(ctx context.Context, scale domain.Scale, where string, cutoff time.Time) ([]domain.Entry, error) {
	if !scale.Valid() {
		return nil, fmt.Errorf("list entries: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	rows, err := s.exec(ctx).QueryContext(ctx,
		fmt.Sprintf(`SELECT id, title, date FROM %s WHERE %s ORDER BY date ASC, id ASC`, scale.EntryTable(), where),
		domain.FormatDate(cutoff),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s entries: %w", scale, err)
	}
	defer rows.Close()

	out := []domain.Entry{}
	for rows.Next() {
		var (
			e    domain.Entry
			date string
		)
		if err := rows.Scan(&e.ID, &e.Title, &date); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", scale, err)
		}
		e.Scale = scale
		if e.Date, err = domain.ParseDate(date); err != nil {
			return nil, fmt.Errorf("scan %s entry %d: %w", scale, e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteEntriesBefore(ctx context.Context, scale domain.Scale, cutoff time.Time) (int64, error) {
	if !scale.Valid() {
		return 0, fmt.Errorf("purge entries: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	res, err := s.exec(ctx).ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE date < ?`, scale.EntryTable()),
		domain.FormatDate(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("purge %s entries: %w", scale, err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) InsertTask(ctx context.Context, task domain.Task) (int64, error) {
	if !task.Scale.Valid() {
		return 0, fmt.Errorf("insert task: %w: scale %q", apperrors.ErrInvalidInput, task.Scale)
	}
	res, err := s.exec(ctx).ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (owner_id, title, description, done) VALUES (?, ?, ?, ?)`, task.Scale.TaskTable()),
		task.OwnerID, task.Title, task.Description, task.Done,
	)
	if err != nil {
		return 0, fmt.Errorf("insert %s task: %w", task.Scale, err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, task domain.Task) error {
	if !task.Scale.Valid() {
		return fmt.Errorf("update task: %w: scale %q", apperrors.ErrInvalidInput, task.Scale)
	}
	res, err := s.exec(ctx).ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET owner_id = ?, title = ?, description = ?, done = ? WHERE id = ?`, task.Scale.TaskTable()),
		task.OwnerID, task.Title, task.Description, task.Done, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update %s task: %w", task.Scale, err)
	}
	return expectRow(res, "update "+string(task.Scale)+" task")
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, scale domain.Scale, id int64) error {
	if !scale.Valid() {
		return fmt.Errorf("delete task: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	if _, err := s.exec(ctx).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, scale.TaskTable()), id); err != nil {
		return fmt.Errorf("delete %s task: %w", scale, err)
	}
	return nil
}

func (s *SQLiteStore) TasksFor(ctx context.Context, scale domain.Scale, ownerID int64) ([]domain.Task, error) {
	if !scale.Valid() {
		return nil, fmt.Errorf("list tasks: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	rows, err := s.exec(ctx).QueryContext(ctx,
		fmt.Sprintf(`SELECT id, owner_id, title, description, done FROM %s WHERE owner_id = ? ORDER BY id ASC`, scale.TaskTable()),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s tasks: %w", scale, err)
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		t := domain.Task{Scale: scale}
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Done); err != nil {
			return nil, fmt.Errorf("scan %s task: %w", scale, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CountTasks(ctx context.Context, scale domain.Scale) (int, int, error) {
	if !scale.Valid() {
		return 0, 0, fmt.Errorf("count tasks: %w: scale %q", apperrors.ErrInvalidInput, scale)
	}
	var total, done int
	err := s.exec(ctx).QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*), COALESCE(SUM(done), 0) FROM %s`, scale.TaskTable()),
	).Scan(&total, &done)
	if err != nil {
		return 0, 0, fmt.Errorf("count %s tasks: %w", scale, err)
	}
	return total, done, nil
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return nil
}

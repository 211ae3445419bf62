package out

import (
	"context"
	"fmt"

	"planote/internal/modules/plan/domain"
)

func (s *SQLiteStore) InsertWeek(ctx context.Context, week domain.Week) (int64, error) {
	res, err := s.exec(ctx).ExecContext(ctx, `INSERT INTO plan_week (title, active) VALUES (?, ?)`, week.Title, week.Active)
	if err != nil {
		return 0, fmt.Errorf("insert week: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateWeek(ctx context.Context, week domain.Week) error {
	res, err := s.exec(ctx).ExecContext(ctx, `UPDATE plan_week SET title = ?, active = ? WHERE id = ?`, week.Title, week.Active, week.ID)
	if err != nil {
		return fmt.Errorf("update week: %w", err)
	}
	return expectRow(res, "update week")
}

func (s *SQLiteStore) DeleteWeek(ctx context.Context, id int64) error {
	if _, err := s.exec(ctx).ExecContext(ctx, `DELETE FROM plan_week WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Weeks(ctx context.Context) ([]domain.Week, error) {
	rows, err := s.exec(ctx).QueryContext(ctx, `SELECT id, title, active FROM plan_week ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	defer rows.Close()
	out := []domain.Week{}
	for rows.Next() {
		var w domain.Week
		if err := rows.Scan(&w.ID, &w.Title, &w.Active); err != nil {
			return nil, fmt.Errorf("scan week: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeactivateWeeks clears the active flag on every week except keep.
func (s *SQLiteStore) DeactivateWeeks(ctx context.Context, keep int64) error {
	if _, err := s.exec(ctx).ExecContext(ctx, `UPDATE plan_week SET active = 0 WHERE id <> ?`, keep); err != nil {
		return fmt.Errorf("deactivate weeks: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertWeekDay(ctx context.Context, day domain.WeekDay) (int64, error) {
	res, err := s.exec(ctx).ExecContext(ctx,
		`INSERT INTO plan_week_day (owner_id, title, description) VALUES (?, ?, ?)`,
		day.WeekID, day.Title, day.Description,
	)
	if err != nil {
		return 0, fmt.Errorf("insert week day: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateWeekDay(ctx context.Context, day domain.WeekDay) error {
	res, err := s.exec(ctx).ExecContext(ctx,
		`UPDATE plan_week_day SET owner_id = ?, title = ?, description = ? WHERE id = ?`,
		day.WeekID, day.Title, day.Description, day.ID,
	)
	if err != nil {
		return fmt.Errorf("update week day: %w", err)
	}
	return expectRow(res, "update week day")
}

func (s *SQLiteStore) WeekDays(ctx context.Context, weekID int64) ([]domain.WeekDay, error) {
	rows, err := s.exec(ctx).QueryContext(ctx,
		`SELECT id, owner_id, title, description FROM plan_week_day WHERE owner_id = ? ORDER BY id ASC`, weekID)
	if err != nil {
		return nil, fmt.Errorf("list week days: %w", err)
	}
	defer rows.Close()
	out := []domain.WeekDay{}
	for rows.Next() {
		var d domain.WeekDay
		if err := rows.Scan(&d.ID, &d.WeekID, &d.Title, &d.Description); err != nil {
			return nil, fmt.Errorf("scan week day: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertWeekDayTask(ctx context.Context, task domain.WeekDayTask) (int64, error) {
	res, err := s.exec(ctx).ExecContext(ctx,
		`INSERT INTO plan_week_day_task (owner_id, title, description, time_start, time_end, done) VALUES (?, ?, ?, ?, ?, ?)`,
		task.DayID, task.Title, task.Description, domain.FormatDate(task.Start), domain.FormatDate(task.End), task.Done,
	)
	if err != nil {
		return 0, fmt.Errorf("insert week day task: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) UpdateWeekDayTask(ctx context.Context, task domain.WeekDayTask) error {
	res, err := s.exec(ctx).ExecContext(ctx,
		`UPDATE plan_week_day_task SET owner_id = ?, title = ?, description = ?, time_start = ?, time_end = ?, done = ? WHERE id = ?`,
		task.DayID, task.Title, task.Description, domain.FormatDate(task.Start), domain.FormatDate(task.End), task.Done, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update week day task: %w", err)
	}
	return expectRow(res, "update week day task")
}

func (s *SQLiteStore) WeekDayTasks(ctx context.Context, dayID int64) ([]domain.WeekDayTask, error) {
	rows, err := s.exec(ctx).QueryContext(ctx,
		`SELECT id, owner_id, title, description, time_start, time_end, done FROM plan_week_day_task WHERE owner_id = ? ORDER BY time_start ASC, id ASC`, dayID)
	if err != nil {
		return nil, fmt.Errorf("list week day tasks: %w", err)
	}
	defer rows.Close()
	out := []domain.WeekDayTask{}
	for rows.Next() {
		var (
			t          domain.WeekDayTask
			start, end string
		)
		if err := rows.Scan(&t.ID, &t.DayID, &t.Title, &t.Description, &start, &end, &t.Done); err != nil {
			return nil, fmt.Errorf("scan week day task: %w", err)
		}
		if t.Start, err = domain.ParseDate(start); err != nil {
			return nil, fmt.Errorf("scan week day task %d: %w", t.ID, err)
		}
		if t.End, err = domain.ParseDate(end); err != nil {
			return nil, fmt.Errorf("scan week day task %d: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

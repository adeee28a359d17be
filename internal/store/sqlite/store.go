package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/renatodap/day/internal/model"
)

// Store implements store.Store on SQLite. Timestamps are persisted as
// UTC RFC3339 strings so lexicographic order matches chronological order;
// calendar-day columns stay plain YYYY-MM-DD strings.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DailyLog(ctx context.Context, userID, date string) (*model.DailyLog, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, date, deficit, protein, IFNULL(notes, ''), created_at, updated_at
FROM daily_logs WHERE user_id = ? AND date = ?
`, userID, date)
	log, err := scanDailyLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily log: %w", err)
	}
	return log, nil
}

func (s *Store) DailyLogsInRange(ctx context.Context, userID, from, to string) ([]model.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, date, deficit, protein, IFNULL(notes, ''), created_at, updated_at
FROM daily_logs WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC
`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily logs: %w", err)
	}
	return collectDailyLogs(rows)
}

func (s *Store) RecentDailyLogs(ctx context.Context, userID string, limit int) ([]model.DailyLog, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, date, deficit, protein, IFNULL(notes, ''), created_at, updated_at
FROM daily_logs WHERE user_id = ?
ORDER BY date DESC LIMIT ?
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent daily logs: %w", err)
	}
	return collectDailyLogs(rows)
}

func (s *Store) UpsertDailyLog(ctx context.Context, log model.DailyLog) error {
	id := log.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO daily_logs(id, user_id, date, deficit, protein, notes)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
  deficit = excluded.deficit,
  protein = excluded.protein,
  notes = excluded.notes,
  updated_at = CURRENT_TIMESTAMP
`, id, log.UserID, log.Date, boolInt(log.Deficit), boolInt(log.Protein), strings.TrimSpace(log.Notes))
	if err != nil {
		return fmt.Errorf("upsert daily log for %s: %w", log.Date, err)
	}
	return nil
}

func (s *Store) WorkoutsInRange(ctx context.Context, userID string, from, to time.Time) ([]model.WorkoutEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, logged_at, IFNULL(workout_type, ''), created_at
FROM workout_logs
WHERE user_id = ? AND logged_at >= ? AND logged_at < ?
ORDER BY logged_at DESC
`, userID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	items := make([]model.WorkoutEvent, 0)
	for rows.Next() {
		var w model.WorkoutEvent
		var loggedAtRaw, createdAtRaw string
		if err := rows.Scan(&w.ID, &w.UserID, &loggedAtRaw, &w.WorkoutType, &createdAtRaw); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		if w.LoggedAt, err = time.Parse(time.RFC3339, loggedAtRaw); err != nil {
			return nil, fmt.Errorf("parse logged_at: %w", err)
		}
		w.CreatedAt = parseStamp(createdAtRaw)
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return items, nil
}

func (s *Store) InsertWorkout(ctx context.Context, w model.WorkoutEvent) error {
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	if w.LoggedAt.IsZero() {
		w.LoggedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO workout_logs(id, user_id, logged_at, workout_type)
VALUES(?, ?, ?, ?)
`, id, w.UserID, w.LoggedAt.UTC().Format(time.RFC3339), strings.TrimSpace(w.WorkoutType))
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM workout_logs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}

func (s *Store) WeightSample(ctx context.Context, userID, date string) (*model.WeightSample, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, date, weight, created_at, updated_at
FROM weight_logs WHERE user_id = ? AND date = ?
`, userID, date)
	sample, err := scanWeightSample(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get weight sample: %w", err)
	}
	return sample, nil
}

func (s *Store) WeightSamplesInRange(ctx context.Context, userID, from, to string) ([]model.WeightSample, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, date, weight, created_at, updated_at
FROM weight_logs WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC
`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query weight samples: %w", err)
	}
	defer rows.Close()

	items := make([]model.WeightSample, 0)
	for rows.Next() {
		var w model.WeightSample
		var createdRaw, updatedRaw string
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Weight, &createdRaw, &updatedRaw); err != nil {
			return nil, fmt.Errorf("scan weight sample: %w", err)
		}
		w.CreatedAt = parseStamp(createdRaw)
		w.UpdatedAt = parseStamp(updatedRaw)
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weight samples: %w", err)
	}
	return items, nil
}

func (s *Store) UpsertWeightSample(ctx context.Context, sample model.WeightSample) error {
	if sample.Weight <= 0 {
		return fmt.Errorf("weight must be > 0")
	}
	id := sample.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO weight_logs(id, user_id, date, weight)
VALUES(?, ?, ?, ?)
ON CONFLICT(user_id, date) DO UPDATE SET
  weight = excluded.weight,
  updated_at = CURRENT_TIMESTAMP
`, id, sample.UserID, sample.Date, sample.Weight)
	if err != nil {
		return fmt.Errorf("upsert weight sample for %s: %w", sample.Date, err)
	}
	return nil
}

func (s *Store) Goal(ctx context.Context, userID, name string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, name, target_value, IFNULL(target_date, ''), achieved, created_at
FROM goals WHERE user_id = ? AND name = ?
`, userID, name)
	var g model.Goal
	var achieved int
	var createdRaw string
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetValue, &g.TargetDate, &achieved, &createdRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %q: %w", name, err)
	}
	g.Achieved = achieved != 0
	g.CreatedAt = parseStamp(createdRaw)
	return &g, nil
}

func (s *Store) InsertGoal(ctx context.Context, g model.Goal) error {
	id := g.ID
	if id == "" {
		id = uuid.NewString()
	}
	// Seed inserts may race; the unique (user_id, name) key plus DO NOTHING
	// turns the loser into a no-op instead of a duplicate row.
	_, err := s.db.ExecContext(ctx, `
INSERT INTO goals(id, user_id, name, target_value, target_date)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(user_id, name) DO NOTHING
`, id, g.UserID, g.Name, g.TargetValue, g.TargetDate)
	if err != nil {
		return fmt.Errorf("insert goal %q: %w", g.Name, err)
	}
	return nil
}

func (s *Store) ActiveTasks(ctx context.Context, userID string) ([]model.RecurringTask, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, name, day_of_week, weekly_target, active, created_at
FROM recurring_tasks WHERE user_id = ? AND active = 1
ORDER BY name ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query recurring tasks: %w", err)
	}
	defer rows.Close()

	items := make([]model.RecurringTask, 0)
	for rows.Next() {
		var t model.RecurringTask
		var active int
		var createdRaw string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.DayOfWeek, &t.WeeklyTarget, &active, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan recurring task: %w", err)
		}
		t.Active = active != 0
		t.CreatedAt = parseStamp(createdRaw)
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring tasks: %w", err)
	}
	return items, nil
}

func (s *Store) InsertTask(ctx context.Context, task model.RecurringTask) error {
	id := task.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO recurring_tasks(id, user_id, name, day_of_week, weekly_target, active)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, name) DO NOTHING
`, id, task.UserID, task.Name, task.DayOfWeek, task.WeeklyTarget, boolInt(task.Active))
	if err != nil {
		return fmt.Errorf("insert recurring task %q: %w", task.Name, err)
	}
	return nil
}

func (s *Store) CompletionsForWeek(ctx context.Context, userID, weekStart string) ([]model.TaskCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, task_id, week_start, completed_at, created_at
FROM task_completions WHERE user_id = ? AND week_start = ?
ORDER BY completed_at DESC
`, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("query task completions: %w", err)
	}
	defer rows.Close()

	items := make([]model.TaskCompletion, 0)
	for rows.Next() {
		c, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task completions: %w", err)
	}
	return items, nil
}

func (s *Store) LatestCompletion(ctx context.Context, userID, taskID, weekStart string) (*model.TaskCompletion, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, task_id, week_start, completed_at, created_at
FROM task_completions
WHERE user_id = ? AND task_id = ? AND week_start = ?
ORDER BY completed_at DESC LIMIT 1
`, userID, taskID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("query latest completion: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanCompletion(rows)
}

func (s *Store) InsertCompletion(ctx context.Context, c model.TaskCompletion) error {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO task_completions(id, user_id, task_id, week_start, completed_at)
VALUES(?, ?, ?, ?, ?)
`, id, c.UserID, c.TaskID, c.WeekStart, c.CompletedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert task completion: %w", err)
	}
	return nil
}

func (s *Store) DeleteCompletion(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM task_completions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete task completion %s: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDailyLog(row rowScanner) (*model.DailyLog, error) {
	var l model.DailyLog
	var deficit, protein int
	var createdRaw, updatedRaw string
	if err := row.Scan(&l.ID, &l.UserID, &l.Date, &deficit, &protein, &l.Notes, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	l.Deficit = deficit != 0
	l.Protein = protein != 0
	l.CreatedAt = parseStamp(createdRaw)
	l.UpdatedAt = parseStamp(updatedRaw)
	return &l, nil
}

func collectDailyLogs(rows *sql.Rows) ([]model.DailyLog, error) {
	defer rows.Close()
	items := make([]model.DailyLog, 0)
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily log: %w", err)
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily logs: %w", err)
	}
	return items, nil
}

func scanWeightSample(row rowScanner) (*model.WeightSample, error) {
	var w model.WeightSample
	var createdRaw, updatedRaw string
	if err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.Weight, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	w.CreatedAt = parseStamp(createdRaw)
	w.UpdatedAt = parseStamp(updatedRaw)
	return &w, nil
}

func scanCompletion(row rowScanner) (*model.TaskCompletion, error) {
	var c model.TaskCompletion
	var completedRaw, createdRaw string
	if err := row.Scan(&c.ID, &c.UserID, &c.TaskID, &c.WeekStart, &completedRaw, &createdRaw); err != nil {
		return nil, fmt.Errorf("scan task completion: %w", err)
	}
	completed, err := time.Parse(time.RFC3339, completedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse completed_at: %w", err)
	}
	c.CompletedAt = completed
	c.CreatedAt = parseStamp(createdRaw)
	return &c, nil
}

// parseStamp reads SQLite CURRENT_TIMESTAMP defaults, which come back as
// "2006-01-02 15:04:05" rather than RFC3339.
func parseStamp(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

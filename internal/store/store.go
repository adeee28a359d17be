// Package store defines the record-store capability the sync engine consumes.
// Every method is one of five query shapes: point get, ordered range query,
// keyed upsert, insert, or delete by id. Filters only ever touch user, date,
// week start, or logged-at; implementations may rely on that.
package store

import (
	"context"
	"time"

	"github.com/renatodap/day/internal/model"
)

// Store is the durable record store. Get-style methods return (nil, nil)
// when no record matches. Upserts are idempotent on (user, date); the
// backing store enforces that uniqueness.
type Store interface {
	// DailyLog returns the log for one (user, date), if any.
	DailyLog(ctx context.Context, userID, date string) (*model.DailyLog, error)
	// DailyLogsInRange returns logs with from <= date <= to, ascending.
	DailyLogsInRange(ctx context.Context, userID, from, to string) ([]model.DailyLog, error)
	// RecentDailyLogs returns up to limit logs in descending date order.
	RecentDailyLogs(ctx context.Context, userID string, limit int) ([]model.DailyLog, error)
	// UpsertDailyLog writes the log keyed by (user, date).
	UpsertDailyLog(ctx context.Context, log model.DailyLog) error

	// WorkoutsInRange returns events with from <= logged_at < to,
	// descending by logged-at. Callers pass local-midnight week bounds.
	WorkoutsInRange(ctx context.Context, userID string, from, to time.Time) ([]model.WorkoutEvent, error)
	InsertWorkout(ctx context.Context, w model.WorkoutEvent) error
	// DeleteWorkout removes one event by id; deleting a missing id is not
	// an error.
	DeleteWorkout(ctx context.Context, id string) error

	WeightSample(ctx context.Context, userID, date string) (*model.WeightSample, error)
	// WeightSamplesInRange returns samples with from <= date <= to, ascending.
	WeightSamplesInRange(ctx context.Context, userID, from, to string) ([]model.WeightSample, error)
	UpsertWeightSample(ctx context.Context, s model.WeightSample) error

	Goal(ctx context.Context, userID, name string) (*model.Goal, error)
	InsertGoal(ctx context.Context, g model.Goal) error

	// ActiveTasks returns all active recurring tasks for the user.
	ActiveTasks(ctx context.Context, userID string) ([]model.RecurringTask, error)
	InsertTask(ctx context.Context, task model.RecurringTask) error

	// CompletionsForWeek returns all completions scoped to weekStart.
	CompletionsForWeek(ctx context.Context, userID, weekStart string) ([]model.TaskCompletion, error)
	// LatestCompletion returns the most recent completion for (task, week)
	// by completion time, or (nil, nil) when there is none.
	LatestCompletion(ctx context.Context, userID, taskID, weekStart string) (*model.TaskCompletion, error)
	InsertCompletion(ctx context.Context, c model.TaskCompletion) error
	DeleteCompletion(ctx context.Context, id string) error
}

package engine

import (
	"context"
	"fmt"

	"github.com/renatodap/day/internal/model"
)

// GoalSeed and TaskSeed describe the records seeded the first time a user is
// observed.
type GoalSeed struct {
	Target     float64
	TargetDate string
}

type TaskSeed struct {
	Name         string
	DayOfWeek    int
	WeeklyTarget int
}

// Seed idempotently creates the default weight goal and recurring tasks.
// Existence is checked before each insert; the store's unique keys make a
// lost race between two seed attempts a no-op rather than a duplicate.
func (e *Engine) Seed(ctx context.Context, goal GoalSeed, tasks []TaskSeed) error {
	existing, err := e.store.Goal(ctx, e.userID, "weight")
	if err != nil {
		return fmt.Errorf("check weight goal: %w", err)
	}
	if existing == nil && goal.Target > 0 {
		g := model.Goal{
			UserID:      e.userID,
			Name:        "weight",
			TargetValue: goal.Target,
			TargetDate:  goal.TargetDate,
		}
		if err := e.store.InsertGoal(ctx, g); err != nil {
			return fmt.Errorf("seed weight goal: %w", err)
		}
		e.log.Info("seeded weight goal", "target", goal.Target, "target_date", goal.TargetDate)
	}

	current, err := e.store.ActiveTasks(ctx, e.userID)
	if err != nil {
		return fmt.Errorf("check recurring tasks: %w", err)
	}
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t.Name] = true
	}
	for _, seed := range tasks {
		if have[seed.Name] {
			continue
		}
		t := model.RecurringTask{
			UserID:       e.userID,
			Name:         seed.Name,
			DayOfWeek:    seed.DayOfWeek,
			WeeklyTarget: seed.WeeklyTarget,
			Active:       true,
		}
		if err := e.store.InsertTask(ctx, t); err != nil {
			return fmt.Errorf("seed recurring task %q: %w", seed.Name, err)
		}
		e.log.Info("seeded recurring task", "name", seed.Name)
	}
	return nil
}

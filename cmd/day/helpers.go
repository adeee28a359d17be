package day

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/renatodap/day/internal/calendar"
	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
	"github.com/renatodap/day/internal/model"
	"github.com/renatodap/day/internal/store/sqlite"
)

// withEngine loads config, opens the store, seeds defaults, and hands a
// refreshed engine to run.
func withEngine(ctx context.Context, run func(*engine.Engine, config.Config) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := config.EnsureDBDir(cfg.DBPath); err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := sqlite.ApplyMigrations(db); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	e := engine.New(sqlite.New(db), calendar.New(loc), engine.Options{
		UserID:              cfg.UserID,
		WeeklyWorkoutTarget: cfg.WeeklyWorkoutTarget,
		Logger:              logger,
	})

	seedTasks := make([]engine.TaskSeed, 0, len(cfg.RecurringTasks))
	for _, t := range cfg.RecurringTasks {
		seedTasks = append(seedTasks, engine.TaskSeed{Name: t.Name, DayOfWeek: t.DayOfWeek, WeeklyTarget: t.WeeklyTarget})
	}
	goal := engine.GoalSeed{Target: cfg.WeightGoal.Target, TargetDate: cfg.WeightGoal.TargetDate}
	if err := e.Seed(ctx, goal, seedTasks); err != nil {
		return err
	}

	if err := e.Refresh(ctx); err != nil {
		return err
	}
	return run(e, cfg)
}

// findTask resolves a task argument against today's visible tasks by id or
// case-insensitive name substring.
func findTask(snap model.Snapshot, arg string) (*model.RecurringTask, error) {
	needle := strings.ToLower(strings.TrimSpace(arg))
	if needle == "" {
		return nil, fmt.Errorf("task name is required")
	}
	var matches []model.RecurringTask
	for _, t := range snap.TodayTasks {
		if t.ID == arg {
			match := t
			return &match, nil
		}
		if strings.Contains(strings.ToLower(t.Name), needle) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matching %q today", arg)
	case 1:
		match := matches[0]
		return &match, nil
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name)
		}
		return nil, fmt.Errorf("task %q is ambiguous: %s", arg, strings.Join(names, ", "))
	}
}

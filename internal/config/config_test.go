package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/renatodap/day/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.UserID != "local" {
		t.Fatalf("expected default user id local, got %q", cfg.UserID)
	}
	if cfg.WeeklyWorkoutTarget != 15 {
		t.Fatalf("expected default weekly target 15, got %d", cfg.WeeklyWorkoutTarget)
	}
	if cfg.WeightGoal.Target != 178 || cfg.WeightGoal.TargetDate != "2026-02-06" {
		t.Fatalf("unexpected default weight goal %+v", cfg.WeightGoal)
	}
	if len(cfg.RecurringTasks) != 2 {
		t.Fatalf("expected two default recurring tasks, got %d", len(cfg.RecurringTasks))
	}
	if cfg.DBPath == "" {
		t.Fatalf("expected a default db path")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.yaml")
	raw := `
db_path: /tmp/custom.db
user_id: renato
timezone: America/New_York
weekly_workout_target: 10
weight_goal:
  target: 170
  target_date: "2026-06-01"
recurring_tasks:
  - name: Stretch
    day_of_week: 2
    weekly_target: 3
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/custom.db" || cfg.UserID != "renato" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.WeeklyWorkoutTarget != 10 {
		t.Fatalf("expected weekly target 10, got %d", cfg.WeeklyWorkoutTarget)
	}
	if len(cfg.RecurringTasks) != 1 || cfg.RecurringTasks[0].Name != "Stretch" {
		t.Fatalf("unexpected tasks %+v", cfg.RecurringTasks)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Fatalf("expected New York location, got %s", loc)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DAY_USER_ID", "env-user")
	t.Setenv("DAY_WEEKLY_WORKOUT_TARGET", "7")
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.UserID != "env-user" {
		t.Fatalf("expected env user id, got %q", cfg.UserID)
	}
	if cfg.WeeklyWorkoutTarget != 7 {
		t.Fatalf("expected env weekly target 7, got %d", cfg.WeeklyWorkoutTarget)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad_target.yaml": "weekly_workout_target: 0\n",
		"bad_dow.yaml":    "recurring_tasks:\n  - name: X\n    day_of_week: 9\n    weekly_target: 1\n",
		"bad_quota.yaml":  "recurring_tasks:\n  - name: X\n    day_of_week: 1\n    weekly_target: 0\n",
	}
	for name, raw := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := config.Load(path); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

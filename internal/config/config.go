// Package config loads tracker settings from day.yaml plus environment
// overrides (.env supported).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	appDirName = "day"
	dbFileName = "day.db"
)

// Config holds everything the engine and CLI need to run.
type Config struct {
	// DBPath is the SQLite database path (default: user config dir).
	DBPath string `yaml:"db_path"`
	// UserID identifies the single tracked user. Defaults to "local".
	UserID string `yaml:"user_id"`
	// Timezone is the IANA zone used for all calendar-day math
	// (default: host local zone).
	Timezone string `yaml:"timezone"`
	// WeeklyWorkoutTarget is the workouts-per-week goal driving the
	// expected-progress pacing.
	WeeklyWorkoutTarget int `yaml:"weekly_workout_target"`
	// WeightGoal is seeded once per user if no "weight" goal exists.
	WeightGoal GoalSeed `yaml:"weight_goal"`
	// RecurringTasks are seeded once per user, keyed by name.
	RecurringTasks []TaskSeed `yaml:"recurring_tasks"`
	// ListenAddr is the HTTP listen address for `day serve`.
	ListenAddr string `yaml:"listen_addr"`
}

type GoalSeed struct {
	Target     float64 `yaml:"target"`
	TargetDate string  `yaml:"target_date"`
}

type TaskSeed struct {
	Name         string `yaml:"name"`
	DayOfWeek    int    `yaml:"day_of_week"`
	WeeklyTarget int    `yaml:"weekly_target"`
}

// Defaults mirror the seed values the app launched with.
func defaults() Config {
	return Config{
		UserID:              "local",
		WeeklyWorkoutTarget: 15,
		WeightGoal:          GoalSeed{Target: 178, TargetDate: "2026-02-06"},
		RecurringTasks: []TaskSeed{
			{Name: "Capstone: Agenda + Presentation", DayOfWeek: 4, WeeklyTarget: 1},
			{Name: "Job Apps", DayOfWeek: 0, WeeklyTarget: 5},
		},
		ListenAddr: ":8080",
	}
}

// Load reads day.yaml (if present at path, or DAY_CONFIG, or alongside the
// default db dir) and applies environment overrides on top of defaults.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path == "" {
		path = os.Getenv("DAY_CONFIG")
	}
	if path == "" {
		if base, err := os.UserConfigDir(); err == nil {
			candidate := filepath.Join(base, appDirName, "day.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.DBPath = getenv("DAY_DB_PATH", cfg.DBPath)
	cfg.UserID = getenv("DAY_USER_ID", cfg.UserID)
	cfg.Timezone = getenv("DAY_TIMEZONE", cfg.Timezone)
	cfg.ListenAddr = getenv("DAY_LISTEN_ADDR", cfg.ListenAddr)
	cfg.WeeklyWorkoutTarget = getenvInt("DAY_WEEKLY_WORKOUT_TARGET", cfg.WeeklyWorkoutTarget)

	if cfg.DBPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.DBPath = filepath.Join(base, appDirName, dbFileName)
	}
	if cfg.WeeklyWorkoutTarget < 1 {
		return Config{}, fmt.Errorf("weekly_workout_target must be >= 1")
	}
	for _, t := range cfg.RecurringTasks {
		if t.DayOfWeek < 0 || t.DayOfWeek > 6 {
			return Config{}, fmt.Errorf("recurring task %q: day_of_week must be 0-6", t.Name)
		}
		if t.WeeklyTarget < 1 {
			return Config{}, fmt.Errorf("recurring task %q: weekly_target must be >= 1", t.Name)
		}
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// EnsureDBDir creates the directory holding the database file.
func EnsureDBDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

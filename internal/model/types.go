package model

import "time"

// DailyLog records the two daily accountability flags for one calendar day.
// Date is a local calendar-day string (2006-01-02); one row per user per date.
type DailyLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Deficit   bool      `json:"deficit"`
	Protein   bool      `json:"protein"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkoutEvent is an append-only workout record. Removal always targets the
// most recent event inside the current week window.
type WorkoutEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	LoggedAt    time.Time `json:"logged_at"`
	WorkoutType string    `json:"workout_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeightSample holds one weight reading per user per date, in pounds.
type WeightSample struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	TargetValue float64   `json:"target_value"`
	TargetDate  string    `json:"target_date"`
	Achieved    bool      `json:"achieved"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecurringTask is a static weekly obligation. WeeklyTarget 1 means a
// single-day task gated by DayOfWeek; a larger target is a weekly quota
// visible every day until satisfied.
type RecurringTask struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	DayOfWeek    int       `json:"day_of_week"`
	WeeklyTarget int       `json:"weekly_target"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// TaskCompletion is one completion event for a task, scoped to the ISO week
// starting at WeekStart (a Monday date string).
type TaskCompletion struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskID      string    `json:"task_id"`
	WeekStart   string    `json:"week_start"`
	CompletedAt time.Time `json:"completed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// WeekDay is one cell of the week ribbon. Won is nil while the day is still
// pending (future, or today and not yet won).
type WeekDay struct {
	Date      string `json:"date"`
	DayOfWeek int    `json:"day_of_week"`
	Won       *bool  `json:"won"`
	IsToday   bool   `json:"is_today"`
}

// Snapshot is the assembled view-model for one day. Derived fields are
// recomputed from raw rows on every load and after every mutation; nothing
// here is persisted.
type Snapshot struct {
	Date               string          `json:"date"`
	DayOfWeek          int             `json:"day_of_week"`
	DailyLog           *DailyLog       `json:"daily_log"`
	WeeklyWorkoutCount int             `json:"weekly_workout_count"`
	TodayWeight        *WeightSample   `json:"today_weight"`
	WeekWeights        []WeightSample  `json:"week_weights"`
	WeightAverage      *float64        `json:"weight_average"`
	WeekAgoWeight      *WeightSample   `json:"week_ago_weight"`
	WeightGoal         *Goal           `json:"weight_goal"`
	TodayTasks         []RecurringTask `json:"today_tasks"`
	TaskCompletions    map[string]int  `json:"task_completions"`
	Week               []WeekDay       `json:"week"`
	WinStatus          WinStatus       `json:"win_status"`
	Streak             int             `json:"streak"`
}

// WinStatus is the three-state daily verdict.
type WinStatus string

const (
	WinStatusWon    WinStatus = "won"
	WinStatusNotYet WinStatus = "not-yet"
	WinStatusBehind WinStatus = "behind"
)

// Package engine is the optimistic mutation and derived-state coordinator.
// It owns a single view-model snapshot: each mutation applies locally first,
// then issues the matching remote write, and rolls the affected fields back
// if the write fails. Derived facts (win status, streak, ribbon, averages)
// are recomputed from raw rows after every load and mutation; the store
// stays the single source of truth for raw facts.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renatodap/day/internal/calendar"
	"github.com/renatodap/day/internal/derive"
	"github.com/renatodap/day/internal/model"
	"github.com/renatodap/day/internal/store"
)

// ErrNotLoaded is returned by mutations before the first successful Refresh.
var ErrNotLoaded = errors.New("view-model not loaded")

// Weight entry bounds in pounds.
const (
	WeightMin = 100
	WeightMax = 400
)

const streakLookback = 30

// Options configure an Engine for one user.
type Options struct {
	UserID              string
	WeeklyWorkoutTarget int
	Logger              *slog.Logger
}

// Engine coordinates the view-model. All snapshot access goes through the
// mutex: mutations apply and revert under it, but remote writes run outside
// it, so a slow write never blocks reads or independent mutations.
type Engine struct {
	store        store.Store
	cal          *calendar.Calendar
	log          *slog.Logger
	userID       string
	weeklyTarget int

	mu         sync.Mutex
	snap       *model.Snapshot
	recentLogs []model.DailyLog // descending by date, feeds the streak scan
	weekLogs   []model.DailyLog // current week, feeds the ribbon
	loadErr    error
}

func New(st store.Store, cal *calendar.Calendar, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	target := opts.WeeklyWorkoutTarget
	if target < 1 {
		target = 1
	}
	return &Engine{
		store:        st,
		cal:          cal,
		log:          logger,
		userID:       opts.UserID,
		weeklyTarget: target,
	}
}

// Loaded reports whether a full snapshot has been published.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap != nil
}

// Err returns the last fetch error, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErr
}

// Snapshot returns a copy of the current view-model. The second return is
// false until the first successful Refresh.
func (e *Engine) Snapshot() (model.Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return model.Snapshot{}, false
	}
	return cloneSnapshot(*e.snap), true
}

// Refresh loads every collection concurrently and publishes the assembled
// snapshot only once all reads have resolved, so consumers never observe a
// mix of fetch generations. On any failure the previous snapshot (if any)
// stays in place and the error is recorded.
func (e *Engine) Refresh(ctx context.Context) error {
	today := e.cal.Today()
	weekStart := e.cal.ThisWeekStart()
	weekEnd, _ := calendar.AddDays(weekStart, 6)
	weekAgo, _ := calendar.AddDays(today, -7)
	avgFrom, _ := calendar.AddDays(today, -6)
	winFrom, winTo := e.weekWindow(weekStart)

	var (
		dailyLog    *model.DailyLog
		workouts    []model.WorkoutEvent
		todayWeight *model.WeightSample
		weekWeights []model.WeightSample
		goal        *model.Goal
		tasks       []model.RecurringTask
		completions []model.TaskCompletion
		weekLogs    []model.DailyLog
		recentLogs  []model.DailyLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dailyLog, err = e.store.DailyLog(gctx, e.userID, today)
		return err
	})
	g.Go(func() (err error) {
		workouts, err = e.store.WorkoutsInRange(gctx, e.userID, winFrom, winTo)
		return err
	})
	g.Go(func() (err error) {
		todayWeight, err = e.store.WeightSample(gctx, e.userID, today)
		return err
	})
	g.Go(func() (err error) {
		weekWeights, err = e.store.WeightSamplesInRange(gctx, e.userID, weekAgo, today)
		return err
	})
	g.Go(func() (err error) {
		goal, err = e.store.Goal(gctx, e.userID, "weight")
		return err
	})
	g.Go(func() (err error) {
		tasks, err = e.store.ActiveTasks(gctx, e.userID)
		return err
	})
	g.Go(func() (err error) {
		completions, err = e.store.CompletionsForWeek(gctx, e.userID, weekStart)
		return err
	})
	g.Go(func() (err error) {
		weekLogs, err = e.store.DailyLogsInRange(gctx, e.userID, weekStart, weekEnd)
		return err
	})
	g.Go(func() (err error) {
		recentLogs, err = e.store.RecentDailyLogs(gctx, e.userID, streakLookback)
		return err
	})
	if err := g.Wait(); err != nil {
		e.mu.Lock()
		e.loadErr = err
		e.mu.Unlock()
		e.log.Error("refresh failed", "error", err)
		return fmt.Errorf("refresh view-model: %w", err)
	}

	dayOfWeek := e.cal.DayOfWeek()
	var weekAgoSample *model.WeightSample
	avgSamples := make([]model.WeightSample, 0, len(weekWeights))
	for i := range weekWeights {
		if weekWeights[i].Date == weekAgo {
			weekAgoSample = &weekWeights[i]
		}
		if weekWeights[i].Date >= avgFrom {
			avgSamples = append(avgSamples, weekWeights[i])
		}
	}

	snap := model.Snapshot{
		Date:               today,
		DayOfWeek:          dayOfWeek,
		DailyLog:           dailyLog,
		WeeklyWorkoutCount: len(workouts),
		TodayWeight:        todayWeight,
		WeekWeights:        avgSamples,
		WeekAgoWeight:      weekAgoSample,
		WeightGoal:         goal,
		TodayTasks:         derive.TasksForDay(tasks, dayOfWeek),
		TaskCompletions:    derive.CompletionCounts(completions),
	}

	e.mu.Lock()
	e.snap = &snap
	e.recentLogs = recentLogs
	e.weekLogs = weekLogs
	e.loadErr = nil
	e.recomputeLocked()
	e.mu.Unlock()
	return nil
}

// recomputeLocked refreshes every derived field from the raw state. Callers
// hold e.mu.
func (e *Engine) recomputeLocked() {
	s := e.snap
	deficit, protein := false, false
	if s.DailyLog != nil {
		deficit, protein = s.DailyLog.Deficit, s.DailyLog.Protein
	}
	expected := calendar.ExpectedProgress(s.DayOfWeek, e.weeklyTarget)
	s.WinStatus = derive.WinStatus(deficit, protein, s.WeeklyWorkoutCount, expected)
	s.Streak = derive.Streak(e.recentLogs, s.Date)
	s.WeightAverage = derive.WeightAverage(s.WeekWeights)

	weekStart, err := calendar.WeekStart(s.Date)
	if err == nil {
		if dates, err := calendar.WeekDates(weekStart); err == nil {
			s.Week = derive.WeekRibbon(dates, e.weekLogs, s.Date)
		}
	}
}

// ExpectedWorkouts is today's pacing threshold for the configured target.
func (e *Engine) ExpectedWorkouts() int {
	return calendar.ExpectedProgress(e.cal.DayOfWeek(), e.weeklyTarget)
}

// ToggleDeficit flips today's deficit flag. A placeholder log is created
// locally when none exists yet; the remote upsert writes both current flag
// values keyed by (user, today).
func (e *Engine) ToggleDeficit(ctx context.Context) error {
	return e.toggleFlag(ctx, "deficit", func(l *model.DailyLog) { l.Deficit = !l.Deficit })
}

// ToggleProtein flips today's protein flag.
func (e *Engine) ToggleProtein(ctx context.Context) error {
	return e.toggleFlag(ctx, "protein", func(l *model.DailyLog) { l.Protein = !l.Protein })
}

func (e *Engine) toggleFlag(ctx context.Context, name string, flip func(*model.DailyLog)) error {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	// Typed undo: the exact prior log (or its absence), not a re-flip.
	prior := cloneLog(e.snap.DailyLog)

	next := cloneLog(e.snap.DailyLog)
	if next == nil {
		next = &model.DailyLog{UserID: e.userID, Date: e.snap.Date}
	}
	flip(next)
	e.setTodayLogLocked(next)
	e.recomputeLocked()
	write := *next
	e.mu.Unlock()

	if err := e.store.UpsertDailyLog(ctx, write); err != nil {
		e.revertTodayLog(prior)
		e.log.Warn("toggle rolled back", "flag", name, "error", err)
		return fmt.Errorf("toggle %s: %w", name, err)
	}
	return nil
}

// AddWorkout increments this week's count and appends an event at the
// current instant.
func (e *Engine) AddWorkout(ctx context.Context) error {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	prior := e.snap.WeeklyWorkoutCount
	e.snap.WeeklyWorkoutCount = prior + 1
	e.recomputeLocked()
	e.mu.Unlock()

	w := model.WorkoutEvent{UserID: e.userID, LoggedAt: e.cal.Now()}
	if err := e.store.InsertWorkout(ctx, w); err != nil {
		e.revertWorkoutCount(prior)
		e.log.Warn("add workout rolled back", "error", err)
		return fmt.Errorf("add workout: %w", err)
	}
	return nil
}

// RemoveWorkout decrements this week's count and deletes the most recent
// event inside the current week window. With no workouts this week it is a
// no-op, not an error; repeated removals peel back additions in reverse
// chronological order.
func (e *Engine) RemoveWorkout(ctx context.Context) error {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	prior := e.snap.WeeklyWorkoutCount
	if prior <= 0 {
		e.mu.Unlock()
		return nil
	}
	e.snap.WeeklyWorkoutCount = prior - 1
	e.recomputeLocked()
	e.mu.Unlock()

	from, to := e.weekWindow(e.cal.ThisWeekStart())
	workouts, err := e.store.WorkoutsInRange(ctx, e.userID, from, to)
	if err != nil {
		e.revertWorkoutCount(prior)
		e.log.Warn("remove workout rolled back", "error", err)
		return fmt.Errorf("remove workout: %w", err)
	}
	if len(workouts) == 0 {
		return nil
	}
	if err := e.store.DeleteWorkout(ctx, workouts[0].ID); err != nil {
		e.revertWorkoutCount(prior)
		e.log.Warn("remove workout rolled back", "error", err)
		return fmt.Errorf("remove workout: %w", err)
	}
	return nil
}

// UpdateWeight replaces today's sample and recomputes the trailing average
// from the updated in-memory set before the remote upsert settles.
func (e *Engine) UpdateWeight(ctx context.Context, weight float64) error {
	if weight < WeightMin || weight > WeightMax {
		return fmt.Errorf("weight %.1f out of range (%d-%d lbs)", weight, WeightMin, WeightMax)
	}
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	priorToday := cloneSample(e.snap.TodayWeight)
	priorWeek := cloneSamples(e.snap.WeekWeights)

	sample := model.WeightSample{UserID: e.userID, Date: e.snap.Date, Weight: weight}
	if priorToday != nil {
		sample.ID = priorToday.ID
		sample.CreatedAt = priorToday.CreatedAt
	}
	e.snap.TodayWeight = &sample

	kept := make([]model.WeightSample, 0, len(e.snap.WeekWeights)+1)
	for _, s := range e.snap.WeekWeights {
		if s.Date != e.snap.Date {
			kept = append(kept, s)
		}
	}
	kept = append(kept, sample)
	e.snap.WeekWeights = kept
	e.recomputeLocked()
	e.mu.Unlock()

	if err := e.store.UpsertWeightSample(ctx, sample); err != nil {
		e.mu.Lock()
		if e.snap != nil {
			e.snap.TodayWeight = priorToday
			e.snap.WeekWeights = priorWeek
			e.recomputeLocked()
		}
		e.mu.Unlock()
		e.log.Warn("weight update rolled back", "error", err)
		return fmt.Errorf("update weight: %w", err)
	}
	return nil
}

// CompleteTask records one completion for the task in the current week.
func (e *Engine) CompleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	prior := e.snap.TaskCompletions[taskID]
	e.setCompletionCountLocked(taskID, prior+1)
	e.mu.Unlock()

	c := model.TaskCompletion{
		UserID:      e.userID,
		TaskID:      taskID,
		WeekStart:   e.cal.ThisWeekStart(),
		CompletedAt: e.cal.Now(),
	}
	if err := e.store.InsertCompletion(ctx, c); err != nil {
		e.revertCompletionCount(taskID, prior)
		e.log.Warn("complete task rolled back", "task", taskID, "error", err)
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

// UncompleteTask removes the most recent completion for (task, current
// week). With zero completions it is a no-op.
func (e *Engine) UncompleteTask(ctx context.Context, taskID string) error {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return ErrNotLoaded
	}
	prior := e.snap.TaskCompletions[taskID]
	if prior <= 0 {
		e.mu.Unlock()
		return nil
	}
	e.setCompletionCountLocked(taskID, prior-1)
	e.mu.Unlock()

	weekStart := e.cal.ThisWeekStart()
	latest, err := e.store.LatestCompletion(ctx, e.userID, taskID, weekStart)
	if err != nil {
		e.revertCompletionCount(taskID, prior)
		e.log.Warn("uncomplete task rolled back", "task", taskID, "error", err)
		return fmt.Errorf("uncomplete task: %w", err)
	}
	if latest == nil {
		return nil
	}
	if err := e.store.DeleteCompletion(ctx, latest.ID); err != nil {
		e.revertCompletionCount(taskID, prior)
		e.log.Warn("uncomplete task rolled back", "task", taskID, "error", err)
		return fmt.Errorf("uncomplete task: %w", err)
	}
	return nil
}

// setTodayLogLocked installs today's log and keeps the streak and ribbon
// source rows in sync with it.
func (e *Engine) setTodayLogLocked(log *model.DailyLog) {
	e.snap.DailyLog = log
	e.recentLogs = replaceLogForDate(e.recentLogs, e.snap.Date, log, true)
	e.weekLogs = replaceLogForDate(e.weekLogs, e.snap.Date, log, false)
}

func (e *Engine) revertTodayLog(prior *model.DailyLog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return
	}
	e.setTodayLogLocked(prior)
	e.recomputeLocked()
}

func (e *Engine) revertWorkoutCount(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return
	}
	e.snap.WeeklyWorkoutCount = count
	e.recomputeLocked()
}

func (e *Engine) setCompletionCountLocked(taskID string, count int) {
	counts := make(map[string]int, len(e.snap.TaskCompletions)+1)
	for k, v := range e.snap.TaskCompletions {
		counts[k] = v
	}
	counts[taskID] = count
	e.snap.TaskCompletions = counts
}

func (e *Engine) revertCompletionCount(taskID string, count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return
	}
	e.setCompletionCountLocked(taskID, count)
}

// weekWindow converts a Monday date into [start, start+7d) local-midnight
// instants for timestamp-range queries.
func (e *Engine) weekWindow(weekStart string) (time.Time, time.Time) {
	start, err := time.ParseInLocation(calendar.DateLayout, weekStart, e.cal.Location())
	if err != nil {
		start = e.cal.Now()
	}
	return start, start.AddDate(0, 0, 7)
}

// replaceLogForDate swaps (or removes, when log is nil) the row for date.
// descending controls where a new row is inserted: the streak cache is
// newest-first, the week cache oldest-first.
func replaceLogForDate(logs []model.DailyLog, date string, log *model.DailyLog, descending bool) []model.DailyLog {
	out := make([]model.DailyLog, 0, len(logs)+1)
	for _, l := range logs {
		if l.Date != date {
			out = append(out, l)
		}
	}
	if log == nil {
		return out
	}
	if descending {
		out = append([]model.DailyLog{*log}, out...)
	} else {
		out = append(out, *log)
	}
	return out
}

func cloneLog(l *model.DailyLog) *model.DailyLog {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func cloneSample(s *model.WeightSample) *model.WeightSample {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneSamples(samples []model.WeightSample) []model.WeightSample {
	out := make([]model.WeightSample, len(samples))
	copy(out, samples)
	return out
}

func cloneSnapshot(s model.Snapshot) model.Snapshot {
	s.DailyLog = cloneLog(s.DailyLog)
	s.TodayWeight = cloneSample(s.TodayWeight)
	s.WeekAgoWeight = cloneSample(s.WeekAgoWeight)
	s.WeekWeights = cloneSamples(s.WeekWeights)
	if s.WeightGoal != nil {
		g := *s.WeightGoal
		s.WeightGoal = &g
	}
	if s.WeightAverage != nil {
		v := *s.WeightAverage
		s.WeightAverage = &v
	}
	tasks := make([]model.RecurringTask, len(s.TodayTasks))
	copy(tasks, s.TodayTasks)
	s.TodayTasks = tasks
	counts := make(map[string]int, len(s.TaskCompletions))
	for k, v := range s.TaskCompletions {
		counts[k] = v
	}
	s.TaskCompletions = counts
	week := make([]model.WeekDay, len(s.Week))
	copy(week, s.Week)
	for i := range week {
		if week[i].Won != nil {
			v := *week[i].Won
			week[i].Won = &v
		}
	}
	s.Week = week
	return s
}

package day

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Log workouts against this week's target",
}

var workoutAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log one workout now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, cfg config.Config) error {
			if err := e.AddWorkout(cmd.Context()); err != nil {
				return err
			}
			snap, _ := e.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Workouts: %d this week (pace: %d, target: %d)\n",
				snap.WeeklyWorkoutCount, e.ExpectedWorkouts(), cfg.WeeklyWorkoutTarget)
			return nil
		})
	},
}

var workoutRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove this week's most recent workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, cfg config.Config) error {
			if err := e.RemoveWorkout(cmd.Context()); err != nil {
				return err
			}
			snap, _ := e.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Workouts: %d this week (pace: %d, target: %d)\n",
				snap.WeeklyWorkoutCount, e.ExpectedWorkouts(), cfg.WeeklyWorkoutTarget)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(workoutCmd)
	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutRemoveCmd)
}

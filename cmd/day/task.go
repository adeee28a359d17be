package day

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage today's recurring tasks",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks visible today",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, _ config.Config) error {
			snap, _ := e.Snapshot()
			if len(snap.TodayTasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks today")
				return nil
			}
			printTasks(cmd.OutOrStdout(), snap)
			return nil
		})
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <name>",
	Short: "Record one completion for a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, _ config.Config) error {
			snap, _ := e.Snapshot()
			task, err := findTask(snap, args[0])
			if err != nil {
				return err
			}
			if err := e.CompleteTask(cmd.Context(), task.ID); err != nil {
				return err
			}
			snap, _ = e.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d this week\n",
				task.Name, snap.TaskCompletions[task.ID], task.WeeklyTarget)
			return nil
		})
	},
}

var taskUndoCmd = &cobra.Command{
	Use:   "undo <name>",
	Short: "Remove a task's most recent completion this week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, _ config.Config) error {
			snap, _ := e.Snapshot()
			task, err := findTask(snap, args[0])
			if err != nil {
				return err
			}
			if err := e.UncompleteTask(cmd.Context(), task.ID); err != nil {
				return err
			}
			snap, _ = e.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d this week\n",
				task.Name, snap.TaskCompletions[task.ID], task.WeeklyTarget)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskUndoCmd)
}

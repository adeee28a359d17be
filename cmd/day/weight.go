package day

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
)

var weightCmd = &cobra.Command{
	Use:   "weight <lbs>",
	Short: "Log today's weight in pounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil {
			return fmt.Errorf("invalid weight %q", args[0])
		}
		return withEngine(cmd.Context(), func(e *engine.Engine, _ config.Config) error {
			if err := e.UpdateWeight(cmd.Context(), value); err != nil {
				return err
			}
			snap, _ := e.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Weight: %.1f lbs", value)
			if snap.WeightAverage != nil {
				fmt.Fprintf(cmd.OutOrStdout(), " | 7-day avg: %.1f", *snap.WeightAverage)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(weightCmd)
}

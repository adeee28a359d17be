package day

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
)

var checkCmd = &cobra.Command{
	Use:       "check {deficit|protein}",
	Short:     "Toggle today's deficit or protein flag",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"deficit", "protein"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, _ config.Config) error {
			var err error
			switch args[0] {
			case "deficit":
				err = e.ToggleDeficit(cmd.Context())
			case "protein":
				err = e.ToggleProtein(cmd.Context())
			default:
				return fmt.Errorf("unknown flag %q (use deficit or protein)", args[0])
			}
			if err != nil {
				return err
			}
			snap, _ := e.Snapshot()
			deficit, protein := false, false
			if snap.DailyLog != nil {
				deficit, protein = snap.DailyLog.Deficit, snap.DailyLog.Protein
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deficit: %s | Protein: %s | Status: %s\n",
				checkmark(deficit), checkmark(protein), snap.WinStatus)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

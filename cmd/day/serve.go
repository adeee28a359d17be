package day

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/renatodap/day/internal/config"
	"github.com/renatodap/day/internal/engine"
	"github.com/renatodap/day/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for the web client",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd.Context(), func(e *engine.Engine, cfg config.Config) error {
			addr := cfg.ListenAddr
			if serveAddr != "" {
				addr = serveAddr
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			api := httpapi.New(e, logger)
			logger.Info("listening", "addr", addr)
			if err := http.ListenAndServe(addr, api.Handler()); err != nil {
				return fmt.Errorf("serve api: %w", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "motion-planner",
	Short: "Sampling-based motion planning demo",
	Long: `Runs RRT, RRT*, RRT-Connect and PRM planners on a 2D scene in a
background worker and renders the resulting path.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Serving is the default mode
		return runServe(cmd)
	},
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "YAML settings file (defaults are used when missing)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig reads the settings file and applies the persistent flag overrides
func loadConfig(cmd *cobra.Command) (Settings, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := LoadSettings(path)
	if err != nil {
		return Settings{}, nil, err
	}

	if cmd.Flags().Changed("log-level") {
		settings.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	level, err := parseLevel(settings.LogLevel)
	if err != nil {
		return Settings{}, nil, err
	}
	return settings, newLogger(level), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

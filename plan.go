package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Run one planning job and write the rendered frame",
	Long: `Sends a single run request to the worker using the configured planner
settings, waits for the result and prints it as JSON. With --out the rendered
frame is written as PNG.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	addPlannerFlags(planCmd)
	planCmd.Flags().StringP("out", "o", "", "Write the rendered frame to this PNG file")
}

func addPlannerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("algorithm", "a", "", "Planner: RRT, RRTStar, RRTConnect or PRM")
	cmd.Flags().Float64("step-size", 0, "Tree extension step (RRT family)")
	cmd.Flags().Float64("goal-bias", 0, "Probability of sampling the goal (RRT family)")
	cmd.Flags().Float64("search-radius", 0, "Rewiring radius (RRTStar)")
	cmd.Flags().Float64("connection-radius", 0, "Roadmap connection radius (PRM)")
	cmd.Flags().Float64("timeout", 0, "Time budget in seconds")
}

func runPlan(cmd *cobra.Command, args []string) error {
	settings, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	planner := plannerOverrides(cmd, settings.Planner)

	session, err := NewSession(settings.Scene,
		WithLogger(logger),
		WithCanvasSize(settings.CanvasSize),
		WithPlannerSettings(planner),
	)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := planOnce(ctx, session)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.WriteFile(out, session.Frame(), 0o644); err != nil {
			return fmt.Errorf("failed to write frame: %w", err)
		}
		logger.Info("frame written", "path", out)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}
	if result.Kind == KindError {
		return fmt.Errorf("planning failed: %s", result.Message)
	}
	return nil
}

// planOnce starts a job on session and waits for its result
func planOnce(ctx context.Context, session *Session) (JobResult, error) {
	results, cancel := session.Subscribe()
	defer cancel()

	id, err := session.Plan()
	if err != nil {
		return JobResult{}, err
	}

	for {
		select {
		case <-ctx.Done():
			return JobResult{}, ctx.Err()
		case result, ok := <-results:
			if !ok {
				return JobResult{}, ErrWorkerClosed
			}
			if result.RequestID == id {
				return result, nil
			}
		}
	}
}

// plannerOverrides applies the planner flags that were set on the command line
func plannerOverrides(cmd *cobra.Command, settings PlannerSettings) PlannerSettings {
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		alg, _ := flags.GetString("algorithm")
		settings.Algorithm = Algorithm(alg)
	}
	floats := map[string]*float64{
		"step-size":         &settings.StepSize,
		"goal-bias":         &settings.GoalBias,
		"search-radius":     &settings.SearchRadius,
		"connection-radius": &settings.ConnectionRadius,
		"timeout":           &settings.TimeoutSeconds,
	}
	for name, field := range floats {
		if flags.Changed(name) {
			*field, _ = flags.GetFloat64(name)
		}
	}
	return settings
}

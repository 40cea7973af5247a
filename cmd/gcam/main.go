package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jeffnemesis/gcam-core/api"
	"github.com/jeffnemesis/gcam-core/internal/app"
	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/logger"
	"github.com/jeffnemesis/gcam-core/internal/report"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gcam",
		Short: "Market-clearing energy-economy model",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newApiCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var scenarioPath string
	var outPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve a scenario and write the results CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()
			defer log.Sync()

			scenario, err := config.Load(scenarioPath)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), logger.ContextKey, log)
			out, err := app.RunHandler{}.Run(ctx, app.RunInput{Scenario: scenario})
			if err != nil {
				return err
			}

			if err := report.WriteCSVFile(outPath, out.Rows); err != nil {
				return err
			}
			log.Infow("run complete",
				"run_id", out.RunID.String(),
				"scenario", out.Scenario,
				"results", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "scenario.yaml", "path to the scenario YAML")
	cmd.Flags().StringVar(&outPath, "out", "results.csv", "path for the results CSV")
	return cmd
}

func newApiCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Serve scenario runs over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New()
			defer log.Sync()

			handler := &api.ApiHandler{Log: log}
			return handler.StartApi(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	return cmd
}

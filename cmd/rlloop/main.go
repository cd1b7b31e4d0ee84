package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/boristopalov/rlloop/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rlloop",
		Short: "rlloop trains and evaluates reinforcement learning agents against an environment.",
	}

	var (
		configPath    string
		trainEpisodes int
		evalEpisodes  int
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Train an agent, then evaluate it with rendering on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("train") {
				cfg.Train.Episodes = trainEpisodes
			}
			if cmd.Flags().Changed("eval") {
				cfg.Eval.Episodes = evalEpisodes
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle graceful shutdown
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			runID, err := runExperiment(ctx, cfg, cmd.OutOrStdout())
			if runID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "run %s\n", runID)
			}
			return err
		},
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "experiment.yaml", "path to the experiment config")
	runCmd.Flags().IntVar(&trainEpisodes, "train", 0, "override the number of training episodes")
	runCmd.Flags().IntVar(&evalEpisodes, "eval", 0, "override the number of evaluation episodes")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an experiment config without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s agent on %s, %d train / %d eval episodes\n",
				cfg.Name, cfg.Agent.Type, cfg.Environment.Type, cfg.Train.Episodes, cfg.Eval.Episodes)
			return nil
		},
	}
	validateCmd.Flags().StringVarP(&configPath, "config", "c", "experiment.yaml", "path to the experiment config")

	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(runCmd, validateCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

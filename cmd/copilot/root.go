package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavsh/safety-copilot/internal/config"
)

var (
	backendURL  string
	modelName   string
	datasetName string
	verbose     bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "copilot [question]",
	Short: "AI copilot for safety operations analytics",
	Long: `
  ███████╗ █████╗ ███████╗███████╗████████╗██╗   ██╗
  ██╔════╝██╔══██╗██╔════╝██╔════╝╚══██╔══╝╚██╗ ██╔╝
  ███████╗███████║█████╗  █████╗     ██║    ╚████╔╝
  ╚════██║██╔══██║██╔══╝  ██╔══╝     ██║     ╚██╔╝
  ███████║██║  ██║██║     ███████╗   ██║      ██║
  ╚══════╝╚═╝  ╚═╝╚═╝     ╚══════╝   ╚═╝      ╚═╝

  Ask questions about incidents, hazards, audits and inspections
  in natural language. Answers stream live from the analysis agent.

Usage:
  copilot "Top 5 departments by incident count"   Run a one-shot question
  copilot chat                                    Start interactive chat
  copilot history                                 Browse past conversations
  copilot panels                                  List or fetch dashboard panels
  copilot transcribe recording.wav                Turn speech into a question

Examples:
  copilot "show the hazard trend for last quarter"
  copilot --dataset audit "which audits are overdue?"
  copilot chat`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		cfg, err = config.Load()
		if err != nil {
			fmt.Printf("Warning: could not load config: %v\n", err)
			cfg = config.DefaultConfig()
		}

		// CLI flags win over the config file.
		if backendURL != "" {
			cfg.Agent.BaseURL = backendURL
			cfg.Analytics.BaseURL = backendURL
			cfg.Insights.BaseURL = backendURL
		}
		if modelName != "" {
			cfg.Agent.Model = modelName
		}
		if datasetName != "" {
			cfg.Agent.Dataset = datasetName
		}

		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			runAsk(args)
			return
		}
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Dashboard backend URL")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Model passed to the agent")
	rootCmd.PersistentFlags().StringVar(&datasetName, "dataset", "", "Dataset to query (incident, hazard, audit, inspection, all)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(panelsCmd)
	rootCmd.AddCommand(transcribeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

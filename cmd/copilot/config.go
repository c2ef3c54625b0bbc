package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/config"
	"github.com/arnavsh/safety-copilot/internal/types"
)

var (
	setBackendURL string
	setModel      string
	setDataset    string
	setAPIKey     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `View or modify copilot configuration.

Configuration is stored in ~/.safety-copilot/config.yaml

Examples:
  copilot config                             # View current config
  copilot config --set-backend http://...    # Set dashboard backend URL
  copilot config --set-model gpt-4o          # Set agent model
  copilot config --set-dataset incident      # Set default dataset`,
	Run: func(cmd *cobra.Command, args []string) {
		runConfig()
	},
}

func init() {
	configCmd.Flags().StringVar(&setBackendURL, "set-backend", "", "Set dashboard backend URL")
	configCmd.Flags().StringVar(&setModel, "set-model", "", "Set agent model")
	configCmd.Flags().StringVar(&setDataset, "set-dataset", "", "Set default dataset")
	configCmd.Flags().StringVar(&setAPIKey, "set-transcribe-key", "", "Set transcription API key")
}

func runConfig() {
	modified := false

	if setBackendURL != "" {
		cfg.Agent.BaseURL = setBackendURL
		cfg.Analytics.BaseURL = setBackendURL
		cfg.Insights.BaseURL = setBackendURL
		modified = true
	}
	if setModel != "" {
		cfg.Agent.Model = setModel
		modified = true
	}
	if setDataset != "" {
		if _, err := types.ParseDataset(setDataset); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		cfg.Agent.Dataset = setDataset
		modified = true
	}
	if setAPIKey != "" {
		cfg.Transcribe.APIKey = setAPIKey
		modified = true
	}

	if modified {
		if err := cfg.Save(); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render("Configuration saved"))
		fmt.Println()
	}

	printConfig(cfg)
}

func printConfig(cfg config.Config) {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0EA5E9")).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF")).
		Width(22)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB"))

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	fmt.Println(headerStyle.Render("copilot Configuration"))
	fmt.Println()

	fmt.Printf("%s %s\n", keyStyle.Render("Agent URL:"), valueStyle.Render(cfg.Agent.BaseURL))
	fmt.Printf("%s %s\n", keyStyle.Render("Model:"), valueStyle.Render(cfg.Agent.Model))
	fmt.Printf("%s %s\n", keyStyle.Render("Default dataset:"), valueStyle.Render(cfg.Agent.Dataset))
	fmt.Printf("%s %s\n", keyStyle.Render("Analytics URL:"), valueStyle.Render(cfg.Analytics.BaseURL))
	fmt.Printf("%s %s\n", keyStyle.Render("Insights URL:"), valueStyle.Render(cfg.Insights.BaseURL))
	fmt.Printf("%s %s\n", keyStyle.Render("Transcribe URL:"), valueStyle.Render(cfg.Transcribe.BaseURL))
	apiKey := "(not set)"
	if cfg.Transcribe.APIKey != "" {
		apiKey = "(set)"
	}
	fmt.Printf("%s %s\n", keyStyle.Render("Transcribe key:"), valueStyle.Render(apiKey))

	dir, _ := config.Dir()
	fmt.Println()
	fmt.Printf("%s %s\n", keyStyle.Render("Config dir:"), dimStyle.Render(dir))
}

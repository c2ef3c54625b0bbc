package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/analytics"
	"github.com/arnavsh/safety-copilot/internal/insights"
	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/arnavsh/safety-copilot/internal/ui"
)

var panelInsight bool

var panelsCmd = &cobra.Command{
	Use:   "panels [name]",
	Short: "List or fetch dashboard panels",
	Long: `List dashboard panels or fetch one panel's data.

Panels come from the registry file configured under analytics.registry_path;
without one, the built-in registry is used.

Examples:
  copilot panels                              # List panels
  copilot panels incident_trend               # Fetch panel data
  copilot panels incident_trend --insight     # Add AI commentary
  copilot panels kpi_summary --dataset hazard`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPanels(args)
	},
}

func init() {
	panelsCmd.Flags().BoolVar(&panelInsight, "insight", false, "Generate AI commentary for the fetched panel")
}

func runPanels(args []string) {
	registry := loadRegistry()

	if len(args) == 0 {
		listPanels(registry)
		return
	}

	panel, ok := registry.Get(args[0])
	if !ok {
		fmt.Printf("Unknown panel %q; run 'copilot panels' to list them\n", args[0])
		return
	}

	dataset, err := types.ParseDataset(cfg.Agent.Dataset)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := analytics.NewClient(cfg.Analytics.BaseURL, 30*time.Second)
	data, err := client.Fetch(ctx, panel, dataset)
	if err != nil {
		fmt.Printf("Error fetching panel: %v\n", err)
		return
	}

	printPanelData(panel, data)

	if panelInsight {
		printInsight(ctx, panel, data)
	}
}

func loadRegistry() *analytics.Registry {
	if cfg.Analytics.RegistryPath == "" {
		return analytics.DefaultRegistry()
	}
	registry, err := analytics.LoadRegistry(cfg.Analytics.RegistryPath)
	if err != nil {
		fmt.Printf("Warning: could not load panel registry: %v\n", err)
		return analytics.DefaultRegistry()
	}
	return registry
}

func listPanels(registry *analytics.Registry) {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9")).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	fmt.Println(headerStyle.Render("Dashboard Panels"))
	fmt.Println()
	for _, name := range registry.List() {
		panel, _ := registry.Get(name)
		fmt.Printf("  %s\n", nameStyle.Render(name))
		fmt.Printf("    %s\n", descStyle.Render(panel.Title))
	}
}

// printPanelData renders a panel payload, using the tool-result renderer
// for shapes it recognizes and pretty-printed JSON otherwise.
func printPanelData(panel analytics.Panel, data json.RawMessage) {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9")).Bold(true)
	fmt.Println(titleStyle.Render(panel.Title))
	fmt.Println()

	var payload any
	if err := json.Unmarshal(data, &payload); err == nil {
		result := types.ParseToolResult(payload)
		if result.Kind != types.KindOpaque {
			fmt.Print(ui.RenderResult(ui.DefaultStyles(), result))
			return
		}
	}

	var pretty map[string]any
	if err := json.Unmarshal(data, &pretty); err == nil {
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err == nil {
			fmt.Println(string(out))
			return
		}
	}
	fmt.Println(string(data))
}

func printInsight(ctx context.Context, panel analytics.Panel, data json.RawMessage) {
	var figure map[string]any
	if err := json.Unmarshal(data, &figure); err != nil {
		fmt.Printf("Cannot generate insight: panel data is not an object: %v\n", err)
		return
	}

	client := insights.NewClient(cfg.Insights.BaseURL, 60*time.Second)
	text, err := client.Generate(ctx, insights.Request{
		Figure: figure,
		Title:  panel.Title,
	})
	if err != nil {
		fmt.Printf("Error generating insight: %v\n", err)
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	fmt.Println()
	fmt.Println(headerStyle.Render("Insight"))
	fmt.Println(text)
}

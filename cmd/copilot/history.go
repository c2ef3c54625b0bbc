package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/arnavsh/safety-copilot/internal/ui"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Browse past conversations",
	Long: `Browse conversations saved from chat and one-shot sessions.

History is stored in ~/.safety-copilot/history.json

Examples:
  copilot history                # List recent exchanges
  copilot history <id>           # Show one exchange in full
  copilot history --limit 50     # List more
  copilot history --clear        # Delete all saved exchanges`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runHistory(args)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum exchanges to list")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all saved exchanges")
}

func runHistory(args []string) {
	store := openHistory()
	if store == nil {
		return
	}

	if historyClear {
		if err := store.Clear(); err != nil {
			fmt.Printf("Error clearing history: %v\n", err)
			return
		}
		fmt.Println("History cleared")
		return
	}

	if len(args) == 1 {
		msg, ok := store.Get(args[0])
		if !ok {
			fmt.Printf("No exchange with id %s\n", args[0])
			return
		}
		printExchange(msg)
		return
	}

	msgs := store.Messages()
	if len(msgs) == 0 {
		fmt.Println("No saved conversations yet")
		return
	}

	idStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	questionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F9FAFB"))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	start := 0
	if len(msgs) > historyLimit {
		start = len(msgs) - historyLimit
	}
	for _, msg := range msgs[start:] {
		when := time.UnixMilli(msg.Timestamp).Format("2006-01-02 15:04")
		fmt.Printf("%s  %s\n", idStyle.Render(msg.ID), questionStyle.Render(msg.Question))
		fmt.Printf("    %s\n", metaStyle.Render(fmt.Sprintf("%s | dataset %s | %d tool calls", when, msg.Dataset, len(msg.ToolCalls))))
	}
}

func printExchange(msg types.ConversationMessage) {
	styles := ui.DefaultStyles()
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#0EA5E9")).Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

	when := time.UnixMilli(msg.Timestamp).Format("2006-01-02 15:04:05")
	fmt.Printf("%s %s\n", headerStyle.Render("Question:"), msg.Question)
	fmt.Println(metaStyle.Render(fmt.Sprintf("  %s | dataset %s", when, msg.Dataset)))
	fmt.Println()

	for i := range msg.ToolCalls {
		tc := &msg.ToolCalls[i]
		fmt.Println(styles.ToolName.Render("Tool: " + tc.Tool))
		if tc.Resolved() {
			if body := ui.RenderResult(styles, tc.Result); body != "" {
				fmt.Print(body)
			}
		}
		fmt.Println()
	}

	if msg.Analysis != "" {
		fmt.Println(msg.Analysis)
	}
}

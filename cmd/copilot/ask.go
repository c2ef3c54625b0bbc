package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arnavsh/safety-copilot/internal/session"
	"github.com/arnavsh/safety-copilot/internal/stream"
	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/arnavsh/safety-copilot/internal/ui"
)

// runAsk streams one question to completion and prints the final result.
func runAsk(args []string) {
	question := strings.Join(args, " ")

	dataset, err := types.ParseDataset(cfg.Agent.Dataset)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#0EA5E9")).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9CA3AF"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444"))

	fmt.Printf("%s %s  %s\n\n", headerStyle.Render("Question:"), question,
		dimStyle.Render(fmt.Sprintf("(dataset: %s)", dataset)))

	store := openHistory()

	client := stream.NewClient(stream.Config{
		BaseURL: cfg.Agent.BaseURL,
		Model:   cfg.Agent.Model,
		Timeout: time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
	}, logger)

	done := make(chan types.Snapshot, 1)
	failed := make(chan error, 1)
	stage := make(chan string, 16)

	ctrl := session.New(session.Dial(client), store, session.Config{
		Model: cfg.Agent.Model,
	}, session.Callbacks{
		OnUpdate: func(snap types.Snapshot) {
			if snap.Active && snap.Stage != "" {
				select {
				case stage <- snap.Stage:
				default:
				}
			}
		},
		OnClose: func(snap types.Snapshot) {
			done <- snap
		},
		OnError: func(err error) {
			failed <- err
		},
	}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := ctrl.Start(ctx, question, dataset); err != nil {
		fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}

	lastStage := ""
	for {
		select {
		case s := <-stage:
			if s != lastStage {
				fmt.Println(dimStyle.Render("  " + s + "..."))
				lastStage = s
			}

		case err := <-failed:
			// Let the close transition land so the question is recorded.
			select {
			case <-done:
			case <-time.After(2 * time.Second):
			}
			fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
			os.Exit(1)

		case snap := <-done:
			// OnError fires before OnClose, so a surfaced failure is
			// already queued when the close arrives.
			select {
			case err := <-failed:
				fmt.Println(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
				os.Exit(1)
			default:
			}
			fmt.Println()
			printResult(snap)
			return

		case <-ctx.Done():
			ctrl.Stop()
			fmt.Println(dimStyle.Render("interrupted"))
			return
		}
	}
}

// printResult renders the final snapshot of a one-shot session.
func printResult(snap types.Snapshot) {
	styles := ui.DefaultStyles()

	for i := range snap.ToolCalls {
		tc := &snap.ToolCalls[i]
		fmt.Println(styles.ToolName.Render("Tool: " + tc.Tool))
		if tc.Resolved() {
			if body := ui.RenderResult(styles, tc.Result); body != "" {
				fmt.Print(body)
			}
		}
		fmt.Println()
	}

	if snap.Answer != "" {
		fmt.Println(snap.Answer)
	} else {
		fmt.Println(styles.StatusText.Render("(no answer produced)"))
	}
}

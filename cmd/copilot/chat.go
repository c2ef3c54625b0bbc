package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/history"
	"github.com/arnavsh/safety-copilot/internal/session"
	"github.com/arnavsh/safety-copilot/internal/stream"
	"github.com/arnavsh/safety-copilot/internal/types"
	"github.com/arnavsh/safety-copilot/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the analysis agent.

Answers stream in live. Tool calls, reasoning, and structured results
(tables, charts, search hits) render as they arrive. Completed
exchanges are saved to conversation history.

Examples:
  copilot chat
  copilot chat --dataset incident`,
	Run: func(cmd *cobra.Command, args []string) {
		runChat()
	},
}

func runChat() {
	dataset, err := types.ParseDataset(cfg.Agent.Dataset)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	store := openHistory()

	client := stream.NewClient(stream.Config{
		BaseURL: cfg.Agent.BaseURL,
		Model:   cfg.Agent.Model,
		Timeout: time.Duration(cfg.Agent.TimeoutSeconds) * time.Second,
	}, logger)

	// The program is created after the controller but before any session
	// starts, so the callbacks only ever see a live program.
	var p *tea.Program

	ctrl := session.New(session.Dial(client), store, session.Config{
		Model:    cfg.Agent.Model,
		Debounce: time.Duration(cfg.UI.DebounceMS) * time.Millisecond,
	}, session.Callbacks{
		OnUpdate: func(snap types.Snapshot) {
			p.Send(ui.SnapshotMsg(snap))
		},
		OnClose: func(snap types.Snapshot) {
			p.Send(ui.ClosedMsg(snap))
		},
		OnError: func(err error) {
			p.Send(ui.ErrMsg{Err: err})
		},
	}, logger)

	ask := func(question string, ds types.Dataset) tea.Cmd {
		return func() tea.Msg {
			if err := ctrl.Start(context.Background(), question, ds); err != nil {
				return ui.ErrMsg{Err: err}
			}
			return nil
		}
	}

	model := ui.NewModel(dataset, ask, ctrl.Stop)
	p = tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running UI: %v\n", err)
		os.Exit(1)
	}
	ctrl.Stop()
}

// openHistory opens the conversation store, degrading to no persistence
// when it cannot be opened.
func openHistory() *history.Store {
	path := cfg.History.Path
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			fmt.Printf("Warning: conversation history disabled: %v\n", err)
			return nil
		}
	}
	store, err := history.Open(path, logger)
	if err != nil {
		fmt.Printf("Warning: conversation history disabled: %v\n", err)
		return nil
	}
	return store
}

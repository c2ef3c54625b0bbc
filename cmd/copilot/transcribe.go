package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/transcribe"
)

var transcribeAsk bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe a voice recording",
	Long: `Transcribe a voice recording to text.

Requires an API key configured under transcribe.api_key or via
SAFETY_COPILOT_TRANSCRIBE_API_KEY.

Examples:
  copilot transcribe recording.wav         # Print the transcript
  copilot transcribe recording.wav --ask   # Run the transcript as a question`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runTranscribe(args[0])
	},
}

func init() {
	transcribeCmd.Flags().BoolVar(&transcribeAsk, "ask", false, "Run the transcript as a question")
}

func runTranscribe(path string) {
	if cfg.Transcribe.APIKey == "" {
		fmt.Println("Error: no transcription API key configured")
		fmt.Println("Set transcribe.api_key in ~/.safety-copilot/config.yaml")
		os.Exit(1)
	}

	audio, err := os.Open(path)
	if err != nil {
		fmt.Printf("Error opening audio file: %v\n", err)
		os.Exit(1)
	}
	defer audio.Close()

	client := transcribe.NewClient(transcribe.Config{
		BaseURL:      cfg.Transcribe.BaseURL,
		APIKey:       cfg.Transcribe.APIKey,
		PollInterval: time.Duration(cfg.Transcribe.PollIntervalMS) * time.Millisecond,
	}, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	fmt.Println(dimStyle.Render("Transcribing " + path + "..."))

	text, err := client.Transcribe(ctx, audio)
	if err != nil {
		fmt.Printf("Error transcribing: %v\n", err)
		os.Exit(1)
	}

	if transcribeAsk {
		runAsk([]string{text})
		return
	}

	fmt.Println()
	fmt.Println(text)
}

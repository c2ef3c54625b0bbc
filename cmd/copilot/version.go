package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/arnavsh/safety-copilot/internal/ui"
)

// Overridden at build time via -ldflags.
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

func printVersion() {
	styles := ui.DefaultStyles()
	commit, built := buildInfo()

	fmt.Println(styles.BannerTitle.Render("copilot " + version))
	fmt.Println(styles.StatusText.Render(fmt.Sprintf("  commit: %s", commit)))
	fmt.Println(styles.StatusText.Render(fmt.Sprintf("  built:  %s", built)))
	fmt.Println(styles.StatusText.Render(fmt.Sprintf("  go:     %s", runtime.Version())))
}

// buildInfo reads the vcs stamp embedded in the binary.
func buildInfo() (commit, built string) {
	commit, built = "unknown", "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
		case "vcs.time":
			built = setting.Value
		}
	}
	return
}

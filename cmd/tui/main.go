// ClipVault TUI - Terminal client for the ClipVault download server.
// Search videos, start server-side downloads, watch progress, and manage
// the downloaded library without leaving the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/clipvault/clipvault/cmd/tui/internal/config"
	"github.com/clipvault/clipvault/cmd/tui/internal/ui"
)

func main() {
	cfg := config.Load()

	app := ui.NewApp(cfg)

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

package ui

import (
	"github.com/rivo/tview"
)

// createHelpPanel creates the help panel with keybindings and usage.
func (a *App) createHelpPanel() {
	a.helpView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.helpView.SetBorder(true).SetTitle(" Help ")

	helpText := `
[yellow::b]ClipVault TUI[white]

Search videos, download them on the server, and manage the library.

[yellow::b]Global Keys[white]
  [yellow]1[white]        Search panel
  [yellow]2[white]        Library panel
  [yellow]/[white]        Focus the search input
  [yellow]?[white]        This help screen
  [yellow]Esc[white]      Stop watching a download / back to search
  [yellow]q[white]        Quit

[yellow::b]Search Panel[white]
  Type a query in the input field and press Enter.
  [yellow]Enter[white]    Download the selected video on the server.
           Progress appears in the STATUS column, updated
           once per poll interval. A video already in the
           library completes immediately.

[yellow::b]Library Panel[white]
  [yellow]r[white]        Refresh the file list
  [yellow]d[white]        Delete the selected file from the server

[yellow::b]Configuration[white]
  CLIPVAULT_SERVER          Server base URL (default http://localhost:3001)
  CLIPVAULT_MAX_RESULTS     Search result count (default 12)
  CLIPVAULT_POLL_INTERVAL   Progress poll interval (default 1s)

The server needs a YouTube API key and yt-dlp installed. The status
bar at the bottom reports connectivity and tool state on startup.
`

	a.helpView.SetText(helpText)
}

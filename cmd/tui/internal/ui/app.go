// Package ui provides the terminal user interface for the ClipVault TUI.
package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/clipvault/clipvault/cmd/tui/internal/config"
	"github.com/clipvault/clipvault/pkg/client"
)

// Panel represents a UI panel type.
type Panel int

const (
	PanelSearch Panel = iota
	PanelLibrary
	PanelHelp
)

// App is the main TUI application.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	cfg    *config.Config
	api    *client.Client
	ctx    context.Context
	cancel context.CancelFunc

	currentPanel Panel

	// UI components
	mainFlex     *tview.Flex
	header       *tview.TextView
	footer       *tview.TextView
	statusBar    *tview.TextView
	searchView   *tview.Flex
	searchInput  *tview.InputField
	resultsTable *tview.Table
	libraryTable *tview.Table
	helpView     *tview.TextView

	// State
	results []client.SearchResult
	library []client.MediaFile
	poller  *client.Poller
}

// NewApp creates a new TUI application.
func NewApp(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		cfg:    cfg,
		api:    client.New(cfg.ServerURL),
		ctx:    ctx,
		cancel: cancel,
	}

	a.setupUI()
	return a
}

// setupUI initializes all UI components.
func (a *App) setupUI() {
	// Header
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.header.SetBackgroundColor(tcell.ColorDarkBlue)
	a.updateHeader()

	// Footer with keybindings
	a.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[yellow]1[white]:Search [yellow]2[white]:Library [yellow]?[white]:Help [yellow]q[white]:Quit")
	a.footer.SetBackgroundColor(tcell.ColorDarkBlue)

	// Status bar
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true)
	a.statusBar.SetBackgroundColor(tcell.ColorDarkGreen)

	// Create panels
	a.createSearchPanel()
	a.createLibraryPanel()
	a.createHelpPanel()

	// Add panels to pages
	a.pages.AddPage("search", a.searchView, true, true)
	a.pages.AddPage("library", a.libraryTable, true, false)
	a.pages.AddPage("help", a.helpView, true, false)

	// Main layout
	a.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.header, 3, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.footer, 1, 0, false)

	// Global key bindings
	a.app.SetInputCapture(a.handleGlobalKeys)

	a.app.SetRoot(a.mainFlex, true)
}

// handleGlobalKeys handles global keyboard shortcuts.
func (a *App) handleGlobalKeys(event *tcell.EventKey) *tcell.EventKey {
	// Don't intercept when typing in the search field
	if a.app.GetFocus() == a.searchInput {
		if event.Key() == tcell.KeyEscape {
			a.app.SetFocus(a.resultsTable)
			return nil
		}
		return event
	}

	switch event.Key() {
	case tcell.KeyRune:
		switch event.Rune() {
		case '1':
			a.switchPanel(PanelSearch)
			return nil
		case '2':
			a.switchPanel(PanelLibrary)
			return nil
		case '?':
			a.switchPanel(PanelHelp)
			return nil
		case '/':
			a.switchPanel(PanelSearch)
			a.app.SetFocus(a.searchInput)
			return nil
		case 'q', 'Q':
			a.Stop()
			return nil
		}
	case tcell.KeyEscape:
		// Cancel an active progress poll, otherwise go back to search
		if a.poller != nil {
			a.stopPoller()
			a.updateStatusBar("[yellow]Stopped watching download")
			return nil
		}
		a.switchPanel(PanelSearch)
		return nil
	}

	return event
}

// switchPanel switches to the specified panel.
func (a *App) switchPanel(panel Panel) {
	a.currentPanel = panel

	switch panel {
	case PanelSearch:
		a.pages.SwitchToPage("search")
		a.app.SetFocus(a.resultsTable)
	case PanelLibrary:
		a.pages.SwitchToPage("library")
		a.app.SetFocus(a.libraryTable)
		go a.refreshLibrary()
	case PanelHelp:
		a.pages.SwitchToPage("help")
	}

	a.updateHeader()
}

// updateHeader updates the header with current panel name.
func (a *App) updateHeader() {
	var panelName string
	switch a.currentPanel {
	case PanelSearch:
		panelName = "Search"
	case PanelLibrary:
		panelName = "Library"
	case PanelHelp:
		panelName = "Help"
	}

	a.header.SetText(fmt.Sprintf("\n[white::b]ClipVault[white] - [yellow]%s[white] | Server: [green]%s",
		panelName, a.cfg.ServerURL))
}

// updateStatusBar updates the status bar from any goroutine.
func (a *App) updateStatusBar(msg string) {
	a.app.QueueUpdateDraw(func() {
		a.statusBar.SetText(fmt.Sprintf(" %s | %s", msg, time.Now().Format("15:04:05")))
	})
}

// stopPoller stops the active download poller, if any.
func (a *App) stopPoller() {
	if a.poller != nil {
		a.poller.Stop()
		a.poller = nil
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	// Check server and tool availability in the background
	go a.checkServer()

	return a.app.Run()
}

// Stop stops the TUI application.
func (a *App) Stop() {
	a.stopPoller()
	a.cancel()
	a.app.Stop()
}

// checkServer verifies the server is reachable and yt-dlp is installed.
func (a *App) checkServer() {
	ctx, cancel := context.WithTimeout(a.ctx, 10*time.Second)
	defer cancel()

	if err := a.api.Health(ctx); err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Server unreachable: %v", err))
		return
	}

	tool, err := a.api.CheckTool(ctx)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[yellow]Connected, tool check failed: %v", err))
		return
	}
	if !tool.Installed {
		a.updateStatusBar(fmt.Sprintf("[yellow]Connected, but %s", tool.Error))
		return
	}

	a.updateStatusBar(fmt.Sprintf("[green]Connected | yt-dlp %s", tool.Version))
}

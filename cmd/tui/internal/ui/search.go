package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/clipvault/clipvault/pkg/client"
)

// createSearchPanel creates the search input and results table.
func (a *App) createSearchPanel() {
	a.searchInput = tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldWidth(0)
	a.searchInput.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			query := a.searchInput.GetText()
			if query != "" {
				go a.runSearch(query)
			}
			a.app.SetFocus(a.resultsTable)
		}
	})

	a.resultsTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.resultsTable.SetBorder(true).SetTitle(" Results - Press Enter to download, '/' to search ")
	a.resultsTable.SetSelectedStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorDarkCyan))

	// Header row
	headers := []string{"TITLE", "CHANNEL", "DURATION", "VIEWS", "STATUS"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		if i == 0 {
			cell.SetExpansion(3)
		}
		a.resultsTable.SetCell(0, i, cell)
	}

	a.resultsTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		row, _ := a.resultsTable.GetSelection()
		if row == 0 || row > len(a.results) {
			return event
		}

		if event.Key() == tcell.KeyEnter {
			a.startDownload(row, a.results[row-1])
			return nil
		}
		return event
	})

	a.searchView = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.searchInput, 1, 0, true).
		AddItem(a.resultsTable, 0, 1, false)
}

// runSearch queries the server and fills the results table.
func (a *App) runSearch(query string) {
	a.updateStatusBar(fmt.Sprintf("Searching for %q...", query))

	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	results, err := a.api.Search(ctx, query, a.cfg.MaxResults)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Search failed: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.results = results
		a.renderResults()
	})
	a.updateStatusBar(fmt.Sprintf("[green]%d result(s)", len(results)))
}

// renderResults redraws the results table from a.results.
func (a *App) renderResults() {
	for row := a.resultsTable.GetRowCount() - 1; row > 0; row-- {
		a.resultsTable.RemoveRow(row)
	}

	for i, r := range a.results {
		row := i + 1

		a.resultsTable.SetCell(row, 0, tview.NewTableCell(r.Title).
			SetExpansion(3).
			SetTextColor(tcell.ColorWhite))
		a.resultsTable.SetCell(row, 1, tview.NewTableCell(r.Channel).
			SetExpansion(1).
			SetTextColor(tcell.ColorWhite))
		a.resultsTable.SetCell(row, 2, tview.NewTableCell(r.Duration).
			SetExpansion(1).
			SetTextColor(tcell.ColorWhite))
		a.resultsTable.SetCell(row, 3, tview.NewTableCell(r.ViewCount).
			SetExpansion(1).
			SetTextColor(tcell.ColorWhite))
		a.resultsTable.SetCell(row, 4, tview.NewTableCell("").
			SetExpansion(1).
			SetTextColor(tcell.ColorWhite))
	}

	if len(a.results) == 0 {
		a.resultsTable.SetCell(1, 0, tview.NewTableCell("No results").
			SetTextColor(tcell.ColorYellow))
	}

	if len(a.results) > 0 {
		a.resultsTable.Select(1, 0)
	}
}

// setResultStatus updates the STATUS cell for a results row.
func (a *App) setResultStatus(row int, text string, color tcell.Color) {
	a.app.QueueUpdateDraw(func() {
		a.resultsTable.SetCell(row, 4, tview.NewTableCell(text).
			SetExpansion(1).
			SetTextColor(color))
	})
}

// startDownload requests a server-side download for the selected result
// and watches its progress in the STATUS column.
func (a *App) startDownload(row int, result client.SearchResult) {
	// One watched download at a time
	a.stopPoller()

	a.setResultStatus(row, "requesting...", tcell.ColorYellow)

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
		defer cancel()

		res, err := a.api.Download(ctx, result.ID, result.Title)
		if err != nil {
			a.setResultStatus(row, "failed", tcell.ColorRed)
			a.updateStatusBar(fmt.Sprintf("[red]Download request failed: %v", err))
			return
		}

		if res.FilePath != "" && res.JobID == "" {
			// Already in the library, nothing to poll
			a.setResultStatus(row, "downloaded", tcell.ColorGreen)
			a.updateStatusBar(fmt.Sprintf("[green]%s", res.Message))
			return
		}

		a.watchDownload(row, res.JobID)
	}()
}

// watchDownload polls job progress until it reaches a terminal state.
func (a *App) watchDownload(row int, jobID string) {
	poller := a.api.NewPoller(jobID, a.cfg.PollInterval, client.PollHandlers{
		OnProgress: func(progress float64) {
			a.setResultStatus(row, fmt.Sprintf("%.1f%%", progress), tcell.ColorYellow)
		},
		OnCompleted: func(filePath string) {
			a.setResultStatus(row, "downloaded", tcell.ColorGreen)
			a.updateStatusBar(fmt.Sprintf("[green]Download complete: %s", filePath))
		},
		OnError: func(msg string) {
			a.setResultStatus(row, "error", tcell.ColorRed)
			a.updateStatusBar(fmt.Sprintf("[red]Download failed: %s", msg))
		},
		OnPollError: func(err error) {
			a.setResultStatus(row, "unknown", tcell.ColorRed)
			a.updateStatusBar(fmt.Sprintf("[red]Lost track of download: %v", err))
		},
	})

	a.poller = poller
	poller.Start(a.ctx)

	go func() {
		<-poller.Done()
		if a.poller == poller {
			a.poller = nil
		}
	}()
}

package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// createLibraryPanel creates the downloaded videos table.
func (a *App) createLibraryPanel() {
	a.libraryTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)
	a.libraryTable.SetBorder(true).SetTitle(" Library - Press 'd' to delete, 'r' to refresh ")
	a.libraryTable.SetSelectedStyle(tcell.StyleDefault.
		Foreground(tcell.ColorWhite).
		Background(tcell.ColorDarkCyan))

	headers := []string{"NAME", "SIZE", "PATH"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)
		if i == 0 {
			cell.SetExpansion(2)
		}
		a.libraryTable.SetCell(0, i, cell)
	}

	a.libraryTable.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		row, _ := a.libraryTable.GetSelection()
		if row == 0 || row > len(a.library) {
			return event
		}

		if event.Key() == tcell.KeyRune {
			switch event.Rune() {
			case 'd', 'D':
				a.confirmDelete(a.library[row-1].Name)
				return nil
			case 'r', 'R':
				go a.refreshLibrary()
				return nil
			}
		}
		return event
	})
}

// refreshLibrary fetches the downloaded file list from the server.
func (a *App) refreshLibrary() {
	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	files, err := a.api.Library(ctx)
	if err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Failed to list library: %v", err))
		return
	}

	a.app.QueueUpdateDraw(func() {
		a.library = files
		a.renderLibrary()
	})
	a.updateStatusBar(fmt.Sprintf("[green]%d file(s) in library", len(files)))
}

// renderLibrary redraws the library table from a.library.
func (a *App) renderLibrary() {
	for row := a.libraryTable.GetRowCount() - 1; row > 0; row-- {
		a.libraryTable.RemoveRow(row)
	}

	for i, f := range a.library {
		row := i + 1

		a.libraryTable.SetCell(row, 0, tview.NewTableCell(f.Name).
			SetExpansion(2).
			SetTextColor(tcell.ColorWhite))
		a.libraryTable.SetCell(row, 1, tview.NewTableCell(formatSize(f.Size)).
			SetExpansion(1).
			SetTextColor(tcell.ColorWhite))
		a.libraryTable.SetCell(row, 2, tview.NewTableCell(f.Path).
			SetExpansion(1).
			SetTextColor(tcell.ColorGray))
	}

	if len(a.library) == 0 {
		a.libraryTable.SetCell(1, 0, tview.NewTableCell("No downloaded videos").
			SetTextColor(tcell.ColorYellow))
	}
}

// confirmDelete asks before removing a file from the server.
func (a *App) confirmDelete(filename string) {
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %q from the server?", filename)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			a.pages.RemovePage("delete-confirm")
			a.app.SetFocus(a.libraryTable)
			if buttonLabel == "Delete" {
				go a.deleteFile(filename)
			}
		})

	a.pages.AddPage("delete-confirm", modal, true, true)
}

// deleteFile removes the file server-side and refreshes the table.
func (a *App) deleteFile(filename string) {
	ctx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
	defer cancel()

	if err := a.api.Delete(ctx, filename); err != nil {
		a.updateStatusBar(fmt.Sprintf("[red]Delete failed: %v", err))
		return
	}

	a.updateStatusBar(fmt.Sprintf("[green]Deleted %s", filename))
	a.refreshLibrary()
}

// formatSize renders a byte count in human units.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

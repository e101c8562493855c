package ui

import (
	"fmt"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/bornholm/effortcalc/internal/stats"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// inputRef identifies the process input displayed on a table row
type inputRef struct {
	Process model.Process
	Input   string
}

// EstimateTable is a tview table component listing the inputs of every process
type EstimateTable struct {
	*tview.Table

	session *session.Session
	config  *model.Config
}

var estimateHeaders = []string{"Process", "Input", "Effort Key", "Total", "S%", "M%", "L%", "Effort", "Comments"}

// NewEstimateTable creates a new EstimateTable
func NewEstimateTable(sess *session.Session, config *model.Config) *EstimateTable {
	t := &EstimateTable{
		Table:   tview.NewTable(),
		session: sess,
		config:  config,
	}

	t.SetBorder(true)
	t.SetTitle(" Estimates ")
	t.SetSelectable(true, false)
	t.SetFixed(1, 0)

	t.setupColumns()
	t.populate()
	setupVimNavigation(t.Table)

	return t
}

func (t *EstimateTable) setupColumns() {
	for i, header := range estimateHeaders {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)

		if i >= 3 && i <= 7 {
			cell = cell.SetAlign(tview.AlignRight)
		}

		t.SetCell(0, i, cell)
	}
}

// populate fills the table with one row per process input
func (t *EstimateTable) populate() {
	for i := t.GetRowCount() - 1; i > 0; i-- {
		t.RemoveRow(i)
	}

	summary := t.session.Summary()

	row := 1
	for _, estimate := range summary.Estimates {
		for _, in := range estimate.Inputs {
			t.addInputRow(row, in)
			row++
		}
	}
}

func (t *EstimateTable) addInputRow(row int, in stats.InputEstimate) {
	ref := inputRef{Process: in.Process, Input: in.Input}

	color := tcell.ColorWhite
	effort := formatFloat(in.Effort, t.config.RoundUpEstimations)
	if !in.Valid() {
		color = tcell.ColorRed
		effort = "invalid"
	} else if !in.Stored {
		color = tcell.ColorGray
	}

	values := []string{
		string(in.Process),
		in.Input,
		string(in.Key),
		fmt.Sprintf("%d", in.Record.TotalCount),
		fmt.Sprintf("%d", in.Record.SPercent),
		fmt.Sprintf("%d", in.Record.MPercent),
		fmt.Sprintf("%d", in.Record.LPercent),
		effort,
		in.Record.Comments,
	}

	for i, value := range values {
		cell := tview.NewTableCell(value).
			SetTextColor(color).
			SetReference(ref)

		switch {
		case i >= 3 && i <= 6:
			cell = cell.SetAlign(tview.AlignRight)
		case i == 7:
			cell = cell.SetAlign(tview.AlignRight)
			if in.Valid() {
				cell = cell.SetTextColor(tcell.ColorGreen)
			}
		case i == 8:
			cell = cell.SetExpansion(2)
		}

		t.SetCell(row, i, cell)
	}
}

// GetSelectedInput returns the process input of the selected row
func (t *EstimateTable) GetSelectedInput() (inputRef, bool) {
	row, _ := t.GetSelection()
	if row < 1 || row >= t.GetRowCount() {
		return inputRef{}, false
	}

	ref, ok := t.GetCell(row, 0).GetReference().(inputRef)
	return ref, ok
}

// Refresh refreshes the table display
func (t *EstimateTable) Refresh() {
	row, col := t.GetSelection()
	t.populate()
	if row >= 1 && row < t.GetRowCount() {
		t.Select(row, col)
	}
}

// setupVimNavigation binds j/k to row navigation, skipping the header row
func setupVimNavigation(table *tview.Table) {
	table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			row, col := table.GetSelection()
			if row > 1 {
				table.Select(row-1, col)
			}
			return nil
		case tcell.KeyDown:
			row, col := table.GetSelection()
			if row < table.GetRowCount()-1 {
				table.Select(row+1, col)
			}
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'j':
				row, col := table.GetSelection()
				if row < table.GetRowCount()-1 {
					table.Select(row+1, col)
				}
				return nil
			case 'k':
				row, col := table.GetSelection()
				if row > 1 {
					table.Select(row-1, col)
				}
				return nil
			}
		}

		return event
	})
}

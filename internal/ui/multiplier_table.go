package ui

import (
	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// MultiplierTable is a tview table component for the effort inputs (hours per
// unit of every effort key and size)
type MultiplierTable struct {
	*tview.Table

	session *session.Session
}

// NewMultiplierTable creates a new MultiplierTable
func NewMultiplierTable(sess *session.Session) *MultiplierTable {
	t := &MultiplierTable{
		Table:   tview.NewTable(),
		session: sess,
	}

	t.SetBorder(true)
	t.SetTitle(" Effort Inputs ")
	t.SetSelectable(true, false)
	t.SetFixed(1, 0)

	t.setupColumns()
	t.populate()
	setupVimNavigation(t.Table)

	return t
}

func (t *MultiplierTable) setupColumns() {
	headers := []string{"Effort Key", "Description", "S", "M", "L"}

	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)

		if i >= 2 {
			cell = cell.SetAlign(tview.AlignRight)
		}

		t.SetCell(0, i, cell)
	}
}

func (t *MultiplierTable) populate() {
	for i := t.GetRowCount() - 1; i > 0; i-- {
		t.RemoveRow(i)
	}

	multipliers := t.session.State().Multipliers
	for i, category := range model.EffortCatalog() {
		row := i + 1
		m := multipliers.Get(category.Key)

		t.SetCell(row, 0, tview.NewTableCell(string(category.Key)).
			SetTextColor(tcell.ColorWhite).
			SetReference(category.Key))
		t.SetCell(row, 1, tview.NewTableCell(category.Description).
			SetTextColor(tcell.ColorGray).
			SetExpansion(3).
			SetReference(category.Key))

		for j, size := range model.Sizes() {
			t.SetCell(row, 2+j, tview.NewTableCell(formatFloat(m.Hours(size), false)).
				SetTextColor(tcell.ColorWhite).
				SetAlign(tview.AlignRight).
				SetReference(category.Key))
		}
	}
}

// GetSelectedKey returns the effort key of the selected row
func (t *MultiplierTable) GetSelectedKey() (model.EffortKey, bool) {
	row, _ := t.GetSelection()
	if row < 1 || row >= t.GetRowCount() {
		return "", false
	}

	key, ok := t.GetCell(row, 0).GetReference().(model.EffortKey)
	return key, ok
}

// Refresh refreshes the table display
func (t *MultiplierTable) Refresh() {
	row, col := t.GetSelection()
	t.populate()
	if row >= 1 && row < t.GetRowCount() {
		t.Select(row, col)
	}
}

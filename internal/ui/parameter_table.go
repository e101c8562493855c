package ui

import (
	"fmt"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// parameterRow identifies what a row of the parameters table edits
type parameterRow struct {
	Name  string
	Phase model.Phase
}

const (
	parameterTechnology  = "Technology"
	parameterProjectType = "Project Type"
)

// ParameterTable is a tview table component for the estimation profile and the
// phase breakdown
type ParameterTable struct {
	*tview.Table

	session *session.Session
}

// NewParameterTable creates a new ParameterTable
func NewParameterTable(sess *session.Session) *ParameterTable {
	t := &ParameterTable{
		Table:   tview.NewTable(),
		session: sess,
	}

	t.SetBorder(true)
	t.SetTitle(" Parameters ")
	t.SetSelectable(true, false)
	t.SetFixed(1, 0)

	t.SetCell(0, 0, tview.NewTableCell("Parameter").
		SetTextColor(tcell.ColorYellow).
		SetSelectable(false).
		SetExpansion(1))
	t.SetCell(0, 1, tview.NewTableCell("Value").
		SetTextColor(tcell.ColorYellow).
		SetSelectable(false).
		SetAlign(tview.AlignRight).
		SetExpansion(1))

	t.populate()
	setupVimNavigation(t.Table)

	return t
}

func (t *ParameterTable) populate() {
	for i := t.GetRowCount() - 1; i > 0; i-- {
		t.RemoveRow(i)
	}

	state := t.session.State()

	t.addRow(1, parameterRow{Name: parameterTechnology}, string(state.Technology), tcell.ColorWhite)
	t.addRow(2, parameterRow{Name: parameterProjectType}, string(state.ProjectType), tcell.ColorWhite)

	color := tcell.ColorWhite
	if state.Breakdown.Check() != nil {
		color = tcell.ColorRed
	}
	for i, phase := range model.Phases() {
		t.addRow(3+i, parameterRow{Name: string(phase), Phase: phase}, fmt.Sprintf("%d%%", state.Breakdown[phase]), color)
	}
}

func (t *ParameterTable) addRow(row int, ref parameterRow, value string, color tcell.Color) {
	t.SetCell(row, 0, tview.NewTableCell(ref.Name).
		SetTextColor(tcell.ColorWhite).
		SetReference(ref))
	t.SetCell(row, 1, tview.NewTableCell(value).
		SetTextColor(color).
		SetAlign(tview.AlignRight).
		SetReference(ref))
}

// GetSelectedParameter returns the parameter of the selected row
func (t *ParameterTable) GetSelectedParameter() (parameterRow, bool) {
	row, _ := t.GetSelection()
	if row < 1 || row >= t.GetRowCount() {
		return parameterRow{}, false
	}

	ref, ok := t.GetCell(row, 0).GetReference().(parameterRow)
	return ref, ok
}

// Refresh refreshes the table display
func (t *ParameterTable) Refresh() {
	row, col := t.GetSelection()
	t.populate()
	if row >= 1 && row < t.GetRowCount() {
		t.Select(row, col)
	}
}

package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bornholm/effortcalc/internal/model"
	"github.com/bornholm/effortcalc/internal/session"
	"github.com/bornholm/effortcalc/internal/stats"
	"github.com/bornholm/effortcalc/internal/store"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	viewEstimates  = "estimates"
	viewInputs     = "inputs"
	viewParameters = "parameters"
)

// App represents the main tview application
type App struct {
	app      *tview.Application
	store    store.Store
	config   *model.Config
	session  *session.Session
	filePath string

	// UI Components
	pages           *tview.Pages
	views           *tview.Pages
	layout          *tview.Flex
	header          *tview.TextView
	estimateTable   *EstimateTable
	multiplierTable *MultiplierTable
	parameterTable  *ParameterTable
	preview         *tview.TextView
	footer          *tview.TextView
	commandBar      *tview.InputField

	// State
	currentView      string
	breakdownChanged bool
	commandMode      bool
	modalVisible     bool
}

// NewApp creates a new App instance
func NewApp(s store.Store, sess *session.Session, config *model.Config, filePath string) *App {
	a := &App{
		app:         tview.NewApplication(),
		store:       s,
		config:      config,
		session:     sess,
		filePath:    filePath,
		currentView: viewEstimates,
	}

	a.setupUI()

	return a
}

// setupUI creates and configures all UI components
func (a *App) setupUI() {
	a.header = tview.NewTextView()
	a.header.SetDynamicColors(true)
	a.header.SetTextAlign(tview.AlignCenter)

	a.estimateTable = NewEstimateTable(a.session, a.config)
	a.estimateTable.SetSelectedFunc(func(row, column int) { a.editSelected() })

	a.multiplierTable = NewMultiplierTable(a.session)
	a.multiplierTable.SetSelectedFunc(func(row, column int) { a.editSelected() })

	a.parameterTable = NewParameterTable(a.session)
	a.parameterTable.SetSelectedFunc(func(row, column int) { a.editSelected() })

	a.views = tview.NewPages()
	a.views.AddPage(viewEstimates, a.estimateTable, true, true)
	a.views.AddPage(viewInputs, a.multiplierTable, true, false)
	a.views.AddPage(viewParameters, a.parameterTable, true, false)

	a.preview = tview.NewTextView()
	a.preview.SetDynamicColors(true)
	a.preview.SetBorder(true)
	a.preview.SetTitle(" Summary ")

	// Command bar (hidden by default)
	a.commandBar = tview.NewInputField()
	a.commandBar.SetLabel(":")
	a.commandBar.SetFieldWidth(40)
	a.commandBar.SetDoneFunc(a.handleCommand)

	a.footer = tview.NewTextView()
	a.footer.SetDynamicColors(true)
	a.updateFooter()

	mainContent := tview.NewFlex().SetDirection(tview.FlexColumn)
	mainContent.AddItem(a.views, 0, 3, true)
	mainContent.AddItem(a.preview, 0, 1, false)

	a.layout = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layout.AddItem(a.header, 3, 0, false)
	a.layout.AddItem(mainContent, 0, 1, true)
	a.layout.AddItem(a.footer, 1, 0, false)

	// Pages for modal dialogs
	a.pages = tview.NewPages()
	a.pages.AddPage("main", a.layout, true, true)

	a.updateHeader()
	a.updatePreview()
}

func (a *App) updateFooter() {
	a.footer.SetText("[yellow]1[white] Estimates  [yellow]2[white] Effort Inputs  [yellow]3[white] Parameters  [yellow]e[white] Edit  [yellow]:w[white] Save  [yellow]:q[white] Quit  [yellow]?[white] Help")
}

// Run starts the application
func (a *App) Run() error {
	a.pages.SetInputCapture(a.handleInput)

	// Ctrl+C is ignored, :q or :q! quit
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
	a.app.SetFocus(a.currentTable())
	return a.app.Run()
}

// currentTable returns the table of the visible view
func (a *App) currentTable() *tview.Table {
	switch a.currentView {
	case viewInputs:
		return a.multiplierTable.Table
	case viewParameters:
		return a.parameterTable.Table
	default:
		return a.estimateTable.Table
	}
}

func (a *App) switchView(name string) {
	a.currentView = name
	a.views.SwitchToPage(name)
	a.updateHeader()
	a.app.SetFocus(a.currentTable())
}

// handleInput handles global key input
func (a *App) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if a.modalVisible || a.commandMode {
		return event
	}

	if event.Key() == tcell.KeyRune {
		switch event.Rune() {
		case ':':
			a.startCommandMode()
			return nil
		case '?':
			a.showHelp()
			return nil
		case '1':
			a.switchView(viewEstimates)
			return nil
		case '2':
			a.switchView(viewInputs)
			return nil
		case '3':
			a.switchView(viewParameters)
			return nil
		case 'e', 'i':
			a.editSelected()
			return nil
		}
	}

	return event
}

func (a *App) startCommandMode() {
	a.commandMode = true
	a.commandBar.SetText("")

	a.layout.RemoveItem(a.footer)
	a.layout.AddItem(a.commandBar, 1, 0, true)
	a.app.SetFocus(a.commandBar)
}

func (a *App) exitCommandMode() {
	a.commandMode = false
	a.commandBar.SetText("")

	a.layout.RemoveItem(a.commandBar)
	a.layout.AddItem(a.footer, 1, 0, false)
	a.app.SetFocus(a.currentTable())
}

func (a *App) showCommandError(err error) {
	a.commandBar.SetText(fmt.Sprintf("Error: %v", err))
	a.commandBar.SetLabel(":")
}

// handleCommand processes the command entered in command mode
func (a *App) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		a.exitCommandMode()
		return
	}

	command := strings.TrimSpace(a.commandBar.GetText())
	name, arg, _ := strings.Cut(command, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "w":
		if err := a.save(); err != nil {
			a.showCommandError(err)
			return
		}
		a.exitCommandMode()
	case "q":
		if a.hasUnsavedChanges() {
			a.showCommandError(fmt.Errorf("unsaved changes, use :q! to force quit"))
			return
		}
		a.app.Stop()
	case "q!":
		a.app.Stop()
	case "wq", "x":
		if err := a.save(); err != nil {
			a.showCommandError(err)
			return
		}
		a.app.Stop()
	case "tech":
		technology, err := model.ParseTechnology(arg)
		if err != nil {
			a.showCommandError(err)
			return
		}
		if err := a.selectProfile(a.session.State().ProjectType, technology); err != nil {
			a.showCommandError(err)
			return
		}
		a.exitCommandMode()
	case "type":
		projectType, err := model.ParseProjectType(arg)
		if err != nil {
			a.showCommandError(err)
			return
		}
		if err := a.selectProfile(projectType, a.session.State().Technology); err != nil {
			a.showCommandError(err)
			return
		}
		a.exitCommandMode()
	default:
		a.exitCommandMode()
	}
}

func (a *App) hasUnsavedChanges() bool {
	return a.session.HasChanges() || a.breakdownChanged
}

// save writes the estimation document, and the configuration when the phase
// breakdown was edited
func (a *App) save() error {
	if err := a.store.SaveState(a.filePath, a.session.State()); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}

	if a.breakdownChanged {
		a.config.PhaseBreakdown = a.session.State().Breakdown.Clone()
		if err := a.store.SaveConfig(a.config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		a.breakdownChanged = false
	}

	a.session.MarkSaved()
	a.updateHeader()
	return nil
}

func (a *App) selectProfile(projectType model.ProjectType, technology model.Technology) error {
	if err := a.session.SelectProfile(projectType, technology); err != nil {
		return err
	}
	a.refresh()
	return nil
}

// refresh redraws every view from the session state
func (a *App) refresh() {
	a.estimateTable.Refresh()
	a.multiplierTable.Refresh()
	a.parameterTable.Refresh()
	a.updateHeader()
	a.updatePreview()
}

func (a *App) updateHeader() {
	state := a.session.State()

	saved := ""
	if a.hasUnsavedChanges() {
		saved = " (unsaved changes)"
	}

	a.header.SetTitle(fmt.Sprintf(" Effortcalc - %s / %s%s ", state.Technology, state.ProjectType, saved))
	a.header.SetBorder(true)

	views := []struct{ name, label string }{
		{viewEstimates, "1 Estimates"},
		{viewInputs, "2 Effort Inputs"},
		{viewParameters, "3 Parameters"},
	}
	tabs := make([]string, 0, len(views))
	for _, v := range views {
		if v.name == a.currentView {
			tabs = append(tabs, fmt.Sprintf("[black:yellow] %s [-:-]", v.label))
		} else {
			tabs = append(tabs, fmt.Sprintf(" %s ", v.label))
		}
	}
	a.header.SetText(strings.Join(tabs, "  "))
}

// updatePreview updates the summary side panel
func (a *App) updatePreview() {
	var sb strings.Builder

	state := a.session.State()
	roundUp := a.config.RoundUpEstimations
	unit := a.config.TimeUnit.Acronym

	sb.WriteString(fmt.Sprintf("[yellow]Technology:[white] %s\n", state.Technology))
	sb.WriteString(fmt.Sprintf("[yellow]Project Type:[white] %s\n\n", state.ProjectType))

	summary := a.session.Summary()

	sb.WriteString("[yellow]Most Likely / PERT:[white]\n")
	for _, row := range summary.Processes {
		sb.WriteString(fmt.Sprintf("  %s: %s / %s %s\n",
			row.Process,
			formatFloat(row.MostLikely, roundUp),
			formatFloat(row.PERT, roundUp),
			unit))
	}
	sb.WriteString(fmt.Sprintf("\n[yellow]%s:[white]\n", summary.Total.Process))
	sb.WriteString(fmt.Sprintf("  Optimistic:  %s %s\n", formatFloat(summary.Total.Optimistic, roundUp), unit))
	sb.WriteString(fmt.Sprintf("  Most Likely: %s %s\n", formatFloat(summary.Total.MostLikely, roundUp), unit))
	sb.WriteString(fmt.Sprintf("  Pessimistic: %s %s\n", formatFloat(summary.Total.Pessimistic, roundUp), unit))
	sb.WriteString(fmt.Sprintf("  PERT:        %s %s\n", formatFloat(summary.Total.PERT, roundUp), unit))

	report, err := stats.AllocatePhases(summary, state.Breakdown)
	if err != nil {
		sb.WriteString(fmt.Sprintf("\n[red]Error: %v[white]\n", err))
	} else {
		sb.WriteString(fmt.Sprintf("\n[yellow]Phases (total %s %s):[white]\n", formatFloat(report.Total.TotalEffort, roundUp), unit))
		for _, phase := range model.Phases() {
			sb.WriteString(fmt.Sprintf("  %s: %s %s\n", phase, formatFloat(report.Total.Hours[phase], roundUp), unit))
		}
		if report.Warning != nil {
			sb.WriteString(fmt.Sprintf("\n[red]Warning: %v[white]\n", report.Warning))
		}
	}

	if len(summary.Invalid) > 0 {
		sb.WriteString("\n[red]Excluded inputs:[white]\n")
		for _, in := range summary.Invalid {
			sb.WriteString(fmt.Sprintf("  %s / %s\n", in.Process, in.Input))
		}
	}

	a.preview.SetText(sb.String())
}

// editSelected opens the edit modal matching the visible view
func (a *App) editSelected() {
	switch a.currentView {
	case viewEstimates:
		if ref, ok := a.estimateTable.GetSelectedInput(); ok {
			a.editEstimate(ref)
		}
	case viewInputs:
		if key, ok := a.multiplierTable.GetSelectedKey(); ok {
			a.editMultiplier(key)
		}
	case viewParameters:
		if param, ok := a.parameterTable.GetSelectedParameter(); ok {
			a.editParameter(param)
		}
	}
}

// showForm displays a form as a centered modal. Escape closes it.
func (a *App) showForm(form *tview.Form, height int) {
	form.SetBorder(true)
	form.SetTitleAlign(tview.AlignCenter)
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.closeModal()
			return nil
		}
		return event
	})
	form.SetCancelFunc(a.closeModal)

	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, height, 1, true).
			AddItem(nil, 0, 1, false), 70, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(form)
}

func (a *App) closeModal() {
	a.modalVisible = false
	a.pages.RemovePage("modal")
	a.app.SetFocus(a.currentTable())
}

// showFormError keeps the form open and displays err in its title
func showFormError(form *tview.Form, err error) {
	form.SetTitle(fmt.Sprintf(" [red]%v[-] ", err))
}

// editEstimate opens a modal to edit the record of a process input
func (a *App) editEstimate(ref inputRef) {
	record := a.session.Record(ref.Process, ref.Input)

	form := tview.NewForm()
	form.SetTitle(fmt.Sprintf(" %s / %s ", ref.Process, ref.Input))

	totalField := newIntField("Total Count:", record.TotalCount)
	sField := newIntField("S%:", record.SPercent)
	mField := newIntField("M%:", record.MPercent)
	lField := newIntField("L%:", record.LPercent)
	comments := record.Comments

	form.AddFormItem(totalField)
	form.AddFormItem(sField)
	form.AddFormItem(mField)
	form.AddFormItem(lField)
	form.AddInputField("Comments:", comments, 50, nil, func(text string) {
		comments = text
	})

	saveAndClose := func() {
		values, err := parseInts(totalField, sField, mField, lField)
		if err != nil {
			showFormError(form, err)
			return
		}

		if _, err := a.session.SetEstimate(ref.Process, ref.Input, values[0], values[1], values[2], values[3], comments); err != nil {
			showFormError(form, err)
			return
		}

		a.refresh()
		a.closeModal()
	}

	form.AddButton("Save", saveAndClose)
	form.AddButton("Cancel (Esc)", a.closeModal)

	a.showForm(form, 17)
}

// editMultiplier opens a modal to edit the hours of an effort key
func (a *App) editMultiplier(key model.EffortKey) {
	current := a.session.State().Multipliers.Get(key)

	form := tview.NewForm()
	form.SetTitle(fmt.Sprintf(" %s ", key))

	fields := make(map[model.Size]*tview.InputField, len(model.Sizes()))
	for _, size := range model.Sizes() {
		field := tview.NewInputField().
			SetLabel(fmt.Sprintf("%s (hours):", size)).
			SetText(strconv.FormatFloat(current.Hours(size), 'f', -1, 64)).
			SetFieldWidth(10).
			SetAcceptanceFunc(tview.InputFieldFloat)
		fields[size] = field
		form.AddFormItem(field)
	}

	saveAndClose := func() {
		hours := make(map[model.Size]float64, len(fields))
		for _, size := range model.Sizes() {
			value, err := strconv.ParseFloat(strings.TrimSpace(fields[size].GetText()), 64)
			if err != nil {
				showFormError(form, fmt.Errorf("invalid %s hours", size))
				return
			}
			hours[size] = value
		}

		updated := model.SizeMultiplier{Small: hours[model.Small], Medium: hours[model.Medium], Large: hours[model.Large]}
		if err := updated.Validate(); err != nil {
			showFormError(form, err)
			return
		}

		for _, size := range model.Sizes() {
			if hours[size] == current.Hours(size) {
				continue
			}
			if err := a.session.SetMultiplier(key, size, hours[size]); err != nil {
				showFormError(form, err)
				return
			}
		}

		a.refresh()
		a.closeModal()
	}

	form.AddButton("Save", saveAndClose)
	form.AddButton("Cancel (Esc)", a.closeModal)

	a.showForm(form, 11)
}

// editParameter opens a modal to edit the profile or a phase percentage
func (a *App) editParameter(param parameterRow) {
	state := a.session.State()

	form := tview.NewForm()
	form.SetTitle(fmt.Sprintf(" %s ", param.Name))

	switch param.Name {
	case parameterTechnology, parameterProjectType:
		var options []string
		selected := 0
		if param.Name == parameterTechnology {
			for i, t := range model.Technologies() {
				options = append(options, string(t))
				if t == state.Technology {
					selected = i
				}
			}
		} else {
			for i, pt := range model.ProjectTypes() {
				options = append(options, string(pt))
				if pt == state.ProjectType {
					selected = i
				}
			}
		}

		choice := options[selected]
		form.AddDropDown(param.Name+":", options, selected, func(option string, index int) {
			choice = option
		})

		form.AddButton("Apply", func() {
			projectType, technology := state.ProjectType, state.Technology
			if param.Name == parameterTechnology {
				technology = model.Technology(choice)
			} else {
				projectType = model.ProjectType(choice)
			}
			if err := a.selectProfile(projectType, technology); err != nil {
				showFormError(form, err)
				return
			}
			a.closeModal()
		})

	default:
		field := newIntField("Percent:", state.Breakdown[param.Phase])
		form.AddFormItem(field)

		form.AddButton("Save", func() {
			values, err := parseInts(field)
			if err != nil {
				showFormError(form, err)
				return
			}
			if err := a.session.SetPhase(param.Phase, values[0]); err != nil {
				showFormError(form, err)
				return
			}
			a.breakdownChanged = true
			a.refresh()
			a.closeModal()
		})
	}

	form.AddButton("Cancel (Esc)", a.closeModal)

	a.showForm(form, 9)
}

// showHelp displays help information
func (a *App) showHelp() {
	helpView := tview.NewTextView()
	helpView.SetDynamicColors(true)
	helpView.SetBorder(true)
	helpView.SetTitle(" Keyboard Shortcuts ")
	helpView.SetTitleAlign(tview.AlignCenter)
	helpView.SetTextAlign(tview.AlignLeft)

	helpText := `[yellow]Commands:[white]
  :w           Save estimation
  :q           Quit application
  :q!          Force quit (discard changes)
  :wq or :x    Save and quit
  :tech <name> Switch technology
  :type <name> Switch project type (New, Upgrade)

[yellow]Views:[white]
  1            Estimates
  2            Effort Inputs
  3            Parameters

[yellow]Editing:[white]
  e, i, Enter  Edit selected row
  j/k          Navigate (vim-style)

[yellow]Other:[white]
  ?            Show this help

[gray]Press Escape or Enter to close[white]`

	helpView.SetText(helpText)

	helpView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyEnter {
			a.closeModal()
			return nil
		}
		return event
	})

	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(helpView, 23, 1, true).
			AddItem(nil, 0, 1, false), 56, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(helpView)
}

func newIntField(label string, value int) *tview.InputField {
	return tview.NewInputField().
		SetLabel(label).
		SetText(strconv.Itoa(value)).
		SetFieldWidth(10).
		SetAcceptanceFunc(tview.InputFieldInteger)
}

func parseInts(fields ...*tview.InputField) ([]int, error) {
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(strings.TrimSpace(field.GetText()))
		if err != nil {
			return nil, fmt.Errorf("%s %w", strings.TrimSuffix(field.GetLabel(), ":"), model.ErrInvalidValue)
		}
		values[i] = value
	}
	return values, nil
}

func formatFloat(value float64, roundUp bool) string {
	if roundUp {
		return fmt.Sprintf("%.0f", math.Ceil(value))
	}
	return fmt.Sprintf("%.2f", value)
}

package tui

import (
	"errors"
	"strings"

	"roadmap-cli/internal/model"
	"roadmap-cli/internal/taskform"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type createField int

const (
	createName createField = iota
	createDescription
	createArea
	createPhase
	createState
	createStatus
	createPlannedStart
	createPlannedFinish
	createForeActStart
	createForeActFinish
	createPctWeight
	createPctComplete
	createOptional
	createSubmit
	createFieldCount
)

type createFieldKind int

const (
	kindText createFieldKind = iota
	kindSelect
	kindToggle
	kindButton
)

var createFieldSpecs = [createFieldCount]struct {
	label       string
	kind        createFieldKind
	placeholder string
}{
	createName:          {label: "Task name", kind: kindText, placeholder: "Required"},
	createDescription:   {label: "Description", kind: kindText},
	createArea:          {label: "Area", kind: kindSelect},
	createPhase:         {label: "Phase", kind: kindSelect},
	createState:         {label: "State", kind: kindSelect},
	createStatus:        {label: "Status", kind: kindSelect},
	createPlannedStart:  {label: "Planned start", kind: kindText, placeholder: "YYYY-MM-DD"},
	createPlannedFinish: {label: "Planned finish", kind: kindText, placeholder: "YYYY-MM-DD"},
	createForeActStart:  {label: "Forecast start", kind: kindText, placeholder: "YYYY-MM-DD"},
	createForeActFinish: {label: "Forecast finish", kind: kindText, placeholder: "YYYY-MM-DD"},
	createPctWeight:     {label: "Weight %", kind: kindText},
	createPctComplete:   {label: "Complete %", kind: kindText},
	createOptional:      {label: "Optional", kind: kindToggle},
	createSubmit:        {label: "Create task", kind: kindButton},
}

var (
	stateOptions = []model.TaskState{
		model.StatePlanned, model.StateInProgress, model.StateBehindSchedule, model.StateOnTrack, model.StateCompleted,
	}
	statusOptions = []model.TaskStatus{
		model.StatusNotStarted, model.StatusInProgress, model.StatusCompleted, model.StatusOnHold,
	}
)

// createForm holds the inputs of the creation panel. Text is mirrored into
// taskform.Panel.Form on every change; the panel owns the values.
type createForm struct {
	focus  createField
	inputs [createFieldCount]textinput.Model
}

func newCreateForm() createForm {
	f := createForm{}
	for i, spec := range createFieldSpecs {
		if spec.kind != kindText {
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = spec.placeholder
		in.CharLimit = 500
		in.Width = 40
		f.inputs[i] = in
	}
	return f
}

// textField returns the form string backing a text input.
func textField(form *taskform.Form, fld createField) *string {
	switch fld {
	case createName:
		return &form.Name
	case createDescription:
		return &form.Description
	case createPlannedStart:
		return &form.PlannedStart
	case createPlannedFinish:
		return &form.PlannedFinish
	case createForeActStart:
		return &form.ForeActStart
	case createForeActFinish:
		return &form.ForeActFinish
	case createPctWeight:
		return &form.PctWeight
	case createPctComplete:
		return &form.PctComplete
	}
	return nil
}

// reset loads the panel's (blank) form into the inputs and focuses the name.
func (f *createForm) reset(p *taskform.Panel) tea.Cmd {
	for i := range f.inputs {
		if s := textField(&p.Form, createField(i)); s != nil {
			f.inputs[i].SetValue(*s)
		}
	}
	return f.focusField(createName)
}

func (f *createForm) focusField(fld createField) tea.Cmd {
	f.blur()
	f.focus = fld
	if createFieldSpecs[fld].kind == kindText {
		f.inputs[fld].CursorEnd()
		return f.inputs[fld].Focus()
	}
	return nil
}

func (f *createForm) blur() {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *createForm) move(delta int) tea.Cmd {
	n := int(createFieldCount)
	return f.focusField(createField(((int(f.focus)+delta)%n + n) % n))
}

func (f *createForm) update(msg tea.Msg) tea.Cmd {
	if createFieldSpecs[f.focus].kind != kindText {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *createForm) resize(w int) {
	w = max(w, 10)
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}

// syncSelects drops area/phase choices that are not among the loaded options.
func (f *createForm) syncSelects(p *taskform.Panel) {
	if !containsArea(p.Areas(), p.Form.AreaID) {
		p.Form.AreaID = ""
	}
	if !containsPhase(p.Phases(), p.Form.PhaseID) {
		p.Form.PhaseID = ""
	}
}

func containsArea(areas []model.Area, id string) bool {
	for _, a := range areas {
		if a.ID == id {
			return true
		}
	}
	return false
}

func containsPhase(phases []model.Phase, id string) bool {
	for _, p := range phases {
		if p.ID == id {
			return true
		}
	}
	return false
}

// cycle steps value through options; "" (nothing chosen) sits before the first option.
func cycle(options []string, value string, delta int) string {
	all := append([]string{""}, options...)
	idx := 0
	for i, o := range all {
		if o == value {
			idx = i
			break
		}
	}
	n := len(all)
	return all[((idx+delta)%n+n)%n]
}

func (m *appModel) cycleSelect(delta int) {
	p := m.create
	switch m.createForm.focus {
	case createArea:
		if !p.SelectsEnabled() {
			return
		}
		ids := make([]string, 0, len(p.Areas()))
		for _, a := range p.Areas() {
			ids = append(ids, a.ID)
		}
		p.Form.AreaID = cycle(ids, p.Form.AreaID, delta)
	case createPhase:
		if !p.SelectsEnabled() {
			return
		}
		ids := make([]string, 0, len(p.Phases()))
		for _, ph := range p.Phases() {
			ids = append(ids, ph.ID)
		}
		p.Form.PhaseID = cycle(ids, p.Form.PhaseID, delta)
	case createState:
		opts := make([]string, 0, len(stateOptions))
		for _, s := range stateOptions {
			opts = append(opts, string(s))
		}
		p.Form.State = cycleRequired(opts, p.Form.State, delta)
	case createStatus:
		opts := make([]string, 0, len(statusOptions))
		for _, s := range statusOptions {
			opts = append(opts, string(s))
		}
		p.Form.Status = cycleRequired(opts, p.Form.Status, delta)
	}
}

// cycleRequired steps value through options without an empty choice. An unknown value
// starts from the first option.
func cycleRequired(options []string, value string, delta int) string {
	if len(options) == 0 {
		return value
	}
	idx := -1
	for i, o := range options {
		if o == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}

func (m appModel) updateCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	spec := createFieldSpecs[m.createForm.focus]

	switch msg.String() {
	case "esc":
		m.closeCreatePanel()
		return m, nil
	case "ctrl+s":
		return m, m.submitCreate()
	case "tab", "down":
		return m, m.createForm.move(1)
	case "shift+tab", "up":
		return m, m.createForm.move(-1)
	case "enter":
		if spec.kind == kindButton {
			return m, m.submitCreate()
		}
		return m, m.createForm.move(1)
	}

	if m.create.Submitting() {
		return m, nil
	}

	switch spec.kind {
	case kindSelect:
		switch msg.String() {
		case "left", "h":
			m.cycleSelect(-1)
		case "right", "l", " ":
			m.cycleSelect(1)
		}
		return m, nil
	case kindToggle:
		if msg.String() == " " || msg.String() == "x" {
			m.create.Form.Optional = !m.create.Form.Optional
		}
		return m, nil
	case kindText:
		cmd := m.createForm.update(msg)
		if s := textField(&m.create.Form, m.createForm.focus); s != nil {
			*s = m.createForm.inputs[m.createForm.focus].Value()
		}
		return m, cmd
	}
	return m, nil
}

// submitCreate validates and, when valid, issues the create call. Invalid input and
// re-entry never reach the network.
func (m *appModel) submitCreate() tea.Cmd {
	templateID, in, err := m.create.BeginSubmit()
	switch {
	case errors.Is(err, taskform.ErrSubmitting):
		return nil
	case errors.Is(err, taskform.ErrOptionsLoading):
		return m.showMinibuffer("Area and phase options are still loading")
	case err != nil:
		return nil
	}
	return m.createTaskCmd(templateID, in)
}

func (m appModel) renderCreatePanel(width, height int) string {
	p := m.create
	innerW := max(width-2, 10)

	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg)
	focusStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(colorSurfaceFg)
	inputStyle := lipgloss.NewStyle().Background(colorInputBg)

	lines := make([]string, 0, 48)
	focusLine := 0
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("New task"))
	if name := m.roadmap.TemplateName(); name != "" {
		lines = append(lines, styleMuted().Render(truncateText(name, innerW)))
	}
	lines = append(lines, styleMuted().Render(strings.Repeat("─", innerW)))

	for i, spec := range createFieldSpecs {
		fld := createField(i)
		focused := fld == m.createForm.focus

		if focused {
			focusLine = len(lines)
		}
		if spec.kind == kindButton {
			lines = append(lines, "", m.renderSubmitButton(focused))
			continue
		}

		label := labelStyle.Render(spec.label)
		if focused {
			label = focusStyle.Render("› " + spec.label)
		}
		lines = append(lines, label)

		switch spec.kind {
		case kindText:
			lines = append(lines, "  "+inputStyle.Render(m.createForm.inputs[fld].View()))
		case kindToggle:
			box := "[ ]"
			if p.Form.Optional {
				box = "[x]"
			}
			lines = append(lines, "  "+valueStyle.Render(box))
		case kindSelect:
			lines = append(lines, "  "+m.renderSelectValue(fld, focused))
		}
	}

	footer := make([]string, 0, 3)
	switch {
	case p.Submitting():
		footer = append(footer, m.spinner.View()+" Saving…")
	case strings.TrimSpace(p.Message()) != "":
		for _, ln := range wrapPlainTextWithPrefix(p.Message(), innerW, "", "") {
			footer = append(footer, styleError().Render(ln))
		}
	}
	footer = append(footer, styleMuted().Render(truncateText("tab: field  ←/→: choose  ctrl+s: create  esc: close", innerW)))

	bodyH := max(height-len(footer), 1)
	// Keep the focused field visible.
	offset := min(max(focusLine-bodyH+3, 0), max(len(lines)-bodyH, 0))
	lines = lines[offset:]
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}

	body := normalizePane(strings.Join(lines, "\n"), innerW, bodyH)
	out := lipgloss.JoinVertical(lipgloss.Left, body, strings.Join(footer, "\n"))
	return normalizePane(lipgloss.NewStyle().PaddingLeft(1).Render(out), width, height)
}

func (m appModel) renderSelectValue(fld createField, focused bool) string {
	p := m.create
	var text string
	disabled := false
	switch fld {
	case createArea:
		disabled = !p.SelectsEnabled()
		text = "Select an area"
		for _, a := range p.Areas() {
			if a.ID == p.Form.AreaID {
				text = a.Name
			}
		}
	case createPhase:
		disabled = !p.SelectsEnabled()
		text = "Select a phase"
		for _, ph := range p.Phases() {
			if ph.ID == p.Form.PhaseID {
				text = ph.Name
			}
		}
	case createState:
		text = model.HumanizeEnum(p.Form.State)
	case createStatus:
		text = model.HumanizeEnum(p.Form.Status)
	}

	if disabled {
		return styleMuted().Render("Loading…")
	}
	if focused {
		return lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render("‹ " + text + " ›")
	}
	return lipgloss.NewStyle().Foreground(colorSurfaceFg).Render(text)
}

func (m appModel) renderSubmitButton(focused bool) string {
	label := createFieldSpecs[createSubmit].label
	if m.create.Submitting() {
		label = "Saving…"
	}
	st := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	switch {
	case !m.create.CanSubmit():
		st = st.Faint(true)
	case focused:
		st = st.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
	}
	return "  " + st.Render(label)
}

package tui

import (
	"strings"
	"time"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/roadmap"
	"roadmap-cli/internal/store"
	"roadmap-cli/internal/taskform"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const defaultCallTimeout = 30 * time.Second

type appModel struct {
	repo         Repository
	journal      *store.Journal
	logger       *zap.Logger
	timeout      time.Duration
	placeholders detail.Placeholder

	width  int
	height int

	roadmap roadmap.State
	board   roadmap.Board
	// cursor is the focused card; selectedTaskID is the subject of the detail panel.
	cursor    roadmap.Selection
	collapsed map[string]bool

	selectedTaskID string
	panelOpen      bool
	session        *detail.Session
	tab            panelTab
	editor         fieldEditor
	detailMsg      string
	panelScroll    int

	activityFor string
	activity    []store.Event
	activityErr error

	create     *taskform.Panel
	createForm createForm

	confirmFocus confirmModalFocus

	spinner spinner.Model

	minibufferText string
	minibufferSeq  int
}

func newAppModel(opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	m := appModel{
		repo:         opts.Repo,
		journal:      opts.Journal,
		logger:       logger,
		timeout:      timeout,
		placeholders: opts.Placeholders,
		collapsed:    map[string]bool{},
		create:       taskform.NewPanel(),
		createForm:   newCreateForm(),
		editor:       newFieldEditor(),
		cursor:       roadmap.Selection{Item: -1},
	}
	m.roadmap.TemplateID = strings.TrimSpace(opts.TemplateID)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.MiniDot
	m.spinner.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return m
}

func (m appModel) Init() tea.Cmd {
	seq := m.roadmap.BeginLoad()
	return tea.Batch(m.loadTemplatesCmd(seq), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case minibufferClearMsg:
		if msg.seq == m.minibufferSeq {
			m.minibufferText = ""
		}
		return m, nil

	case templatesLoadedMsg:
		if msg.err != nil {
			m.roadmap.LoadFailed(msg.seq, msg.err)
			return m, nil
		}
		if !m.roadmap.TemplatesLoaded(msg.seq, msg.templates) {
			return m, nil
		}
		if strings.TrimSpace(m.roadmap.TemplateID) == "" {
			return m, nil
		}
		return m, m.loadSnapshot()

	case snapshotLoadedMsg:
		if msg.err != nil {
			m.roadmap.LoadFailed(msg.seq, msg.err)
			return m, nil
		}
		if m.roadmap.LoadSucceeded(msg.seq, msg.snap) {
			m.rebuildBoard()
		}
		return m, nil

	case optionsLoadedMsg:
		if msg.err != nil {
			m.create.OptionsFailed(msg.seq, msg.err)
			return m, nil
		}
		if m.create.OptionsLoaded(msg.seq, msg.areas, msg.phases) {
			m.createForm.syncSelects(m.create)
		}
		return m, nil

	case taskCreatedMsg:
		return m.handleTaskCreated(msg)

	case taskUpdatedMsg:
		return m.handleTaskUpdated(msg)

	case taskDeletedMsg:
		return m.handleTaskDeleted(msg)

	case activityLoadedMsg:
		if msg.taskID != m.activityFor {
			return m, nil
		}
		m.activity = msg.events
		m.activityErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateFocusedInput(msg)
}

// loadSnapshot starts a fetch of the selected template's collections.
func (m *appModel) loadSnapshot() tea.Cmd {
	seq := m.roadmap.BeginLoad()
	return m.loadSnapshotCmd(seq, m.roadmap.TemplateID)
}

// reload re-fetches whatever is missing: the template list first, otherwise the
// selected template's collections.
func (m *appModel) reload() tea.Cmd {
	if len(m.roadmap.Templates) == 0 || strings.TrimSpace(m.roadmap.TemplateID) == "" {
		seq := m.roadmap.BeginLoad()
		return m.loadTemplatesCmd(seq)
	}
	return m.loadSnapshot()
}

// rebuildBoard derives the board from the current snapshot and re-anchors the cursor
// and the detail panel.
func (m *appModel) rebuildBoard() {
	m.board = roadmap.BuildBoard(m.roadmap.Snapshot)
	m.cursor = m.board.Clamp(m.cursor)

	if m.session == nil {
		return
	}
	m.session.SetNames(m.roadmap.Snapshot)
	if _, ok := m.roadmap.Snapshot.Task(m.selectedTaskID); ok {
		return
	}
	// The subject is gone from the server. An idle viewing panel follows it.
	if m.session.Mode() == detail.Viewing && !m.session.Busy() {
		m.closePanel()
	}
}

// selectTask makes t's card the subject: select, open the panel and start a fresh
// session in Viewing.
func (m *appModel) selectTask(taskID string) tea.Cmd {
	t, ok := m.roadmap.Snapshot.Task(taskID)
	if !ok {
		return nil
	}
	m.selectedTaskID = t.ID
	m.panelOpen = true
	m.session = detail.New(t, m.placeholders, m.roadmap.Snapshot)
	m.tab = tabDetails
	m.detailMsg = ""
	m.panelScroll = 0
	m.editor.cursor = 0
	m.confirmFocus = confirmFocusCancel

	m.activityFor = t.ID
	m.activity = nil
	m.activityErr = nil
	return m.loadActivityCmd(t.ID)
}

// closePanel deselects and closes the detail panel.
func (m *appModel) closePanel() {
	m.selectedTaskID = ""
	m.panelOpen = false
	m.session = nil
	m.detailMsg = ""
	m.editor.blur()
	m.activityFor = ""
	m.activity = nil
	m.activityErr = nil
}

func (m *appModel) openCreatePanel() tea.Cmd {
	if strings.TrimSpace(m.roadmap.TemplateID) == "" {
		return m.showMinibuffer("No roadmap template selected")
	}
	seq, ok := m.create.Open(m.roadmap.TemplateID)
	if !ok {
		return nil
	}
	m.closePanel()
	return tea.Batch(m.createForm.reset(m.create), m.loadOptionsCmd(seq, m.create.TemplateID()))
}

func (m *appModel) closeCreatePanel() {
	if m.create.Close() {
		m.createForm.blur()
	}
}

func (m appModel) handleTaskCreated(msg taskCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.create.SubmitFailed(msg.err)
		return m, nil
	}
	m.create.SubmitSucceeded()
	m.createForm.blur()
	m.cursor.TaskID = msg.task.ID
	return m, tea.Batch(m.showMinibuffer("Task created"), m.loadSnapshot())
}

func (m appModel) handleTaskUpdated(msg taskUpdatedMsg) (tea.Model, tea.Cmd) {
	current := m.session != nil && m.session.TaskID() == msg.taskID
	if msg.err != nil {
		if current {
			m.session.SaveFailed(msg.err)
			m.detailMsg = api.MessageOr(msg.err, api.MsgUpdateFailed)
		}
		return m, m.loadActivityFor(msg.taskID)
	}
	if current {
		m.session.SaveSucceeded(msg.task)
		m.editor.blur()
		m.detailMsg = ""
	}
	return m, tea.Batch(m.showMinibuffer("Task updated"), m.loadSnapshot(), m.loadActivityFor(msg.taskID))
}

func (m appModel) handleTaskDeleted(msg taskDeletedMsg) (tea.Model, tea.Cmd) {
	current := m.session != nil && m.session.TaskID() == msg.taskID
	if msg.err != nil {
		if current {
			m.session.DeleteFailed(msg.err)
			m.detailMsg = api.MessageOr(msg.err, api.MsgDeleteFailed)
		}
		return m, m.loadActivityFor(msg.taskID)
	}
	if current {
		m.session.DeleteSucceeded()
		m.closePanel()
	}
	m.roadmap.Remove(msg.taskID)
	m.rebuildBoard()
	return m, tea.Batch(m.showMinibuffer("Task deleted"), m.loadSnapshot())
}

// loadActivityFor refreshes the activity tab when taskID is still its subject.
func (m appModel) loadActivityFor(taskID string) tea.Cmd {
	if taskID == "" || taskID != m.activityFor {
		return nil
	}
	return m.loadActivityCmd(taskID)
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = strings.TrimSpace(text)
	m.minibufferSeq++
	return clearMinibufferAfter(m.minibufferSeq)
}

// busy reports whether any repository call started by the user is outstanding.
func (m appModel) busy() bool {
	if m.roadmap.Loading || m.create.Submitting() {
		return true
	}
	return m.session != nil && m.session.Busy()
}

// panelWidth is the width of the right-hand panel; the board gets the rest. On narrow
// terminals the panel takes the whole width.
func (m appModel) panelWidth() int {
	pw := min(max(m.width*2/5, minPanelW), maxPanelW)
	if m.width-pw-splitGapW < minBoardW {
		return m.width
	}
	return pw
}

func (m appModel) sidePanelOpen() bool {
	return m.panelOpen || m.create.IsOpen()
}

func (m *appModel) resizeInputs() {
	w := m.panelWidth() - 4
	m.editor.resize(w)
	m.createForm.resize(w)
}

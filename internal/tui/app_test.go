package tui

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"roadmap-cli/internal/api"
	"roadmap-cli/internal/detail"
	"roadmap-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRepo struct {
	mu sync.Mutex

	templates []model.Template
	areas     []model.Area
	phases    []model.Phase
	tasks     []model.Task

	creates []model.TaskInput
	updates []model.TaskInput
	deletes []string

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func ptr(s string) *string { return &s }

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		templates: []model.Template{{ID: "tpl1", Name: "Website relaunch"}, {ID: "tpl2", Name: "Mobile app"}},
		areas:     []model.Area{{ID: "A1", Name: "Frontend"}, {ID: "A2", Name: "Backend"}},
		phases:    []model.Phase{{ID: "P1", Name: "Define"}, {ID: "P2", Name: "Build"}},
		tasks: []model.Task{
			{ID: "t1", Name: "Write brief", AreaID: ptr("A1"), PhaseID: ptr("P1"), Status: model.StatusInProgress, State: model.StatePlanned, PctWeight: 20, PctComplete: 40, PlannedStart: ptr("2024-01-01")},
			{ID: "t2", Name: "Design API", AreaID: ptr("A2"), PhaseID: ptr("P1"), Status: model.StatusNotStarted, State: model.StatePlanned},
			{ID: "t3", Name: "Build pages", AreaID: ptr("A1"), PhaseID: ptr("P2"), Status: model.StatusNotStarted, State: model.StatePlanned},
		},
	}
}

func (r *fakeRepo) ListTemplates(context.Context) ([]model.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Template(nil), r.templates...), r.listErr
}

func (r *fakeRepo) ListAreas(context.Context, string) ([]model.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Area(nil), r.areas...), r.listErr
}

func (r *fakeRepo) ListPhases(context.Context, string) ([]model.Phase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Phase(nil), r.phases...), r.listErr
}

func (r *fakeRepo) ListTasks(context.Context, string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Task(nil), r.tasks...), r.listErr
}

func (r *fakeRepo) CreateTask(_ context.Context, _ string, in model.TaskInput) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates = append(r.creates, in)
	if r.createErr != nil {
		return model.Task{}, r.createErr
	}
	t := applyInput(model.Task{ID: "new1"}, in)
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *fakeRepo) UpdateTask(_ context.Context, taskID string, in model.TaskInput) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, in)
	if r.updateErr != nil {
		return model.Task{}, r.updateErr
	}
	for i, t := range r.tasks {
		if t.ID == taskID {
			r.tasks[i] = applyInput(t, in)
			return r.tasks[i], nil
		}
	}
	return model.Task{}, &api.Error{Status: 404, Message: "task not found"}
}

func (r *fakeRepo) DeleteTask(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, taskID)
	if r.deleteErr != nil {
		return r.deleteErr
	}
	out := r.tasks[:0]
	for _, t := range r.tasks {
		if t.ID != taskID {
			out = append(out, t)
		}
	}
	r.tasks = out
	return nil
}

func applyInput(t model.Task, in model.TaskInput) model.Task {
	t.Name = in.Name
	t.Description = in.Description
	t.PlannedStart, t.PlannedFinish = in.PlannedStart, in.PlannedFinish
	t.ForeActStart, t.ForeActFinish = in.ForeActStart, in.ForeActFinish
	t.ActualStart, t.ActualFinish = in.ActualStart, in.ActualFinish
	t.PctWeight, t.PctComplete, t.OptionalFlag = in.PctWeight, in.PctComplete, in.OptionalFlag
	t.State, t.Status = in.State, in.Status
	t.AreaID, t.PhaseID = in.AreaID, in.PhaseID
	t.Outcome, t.OutcomeDescription = in.Outcome, in.OutcomeDescription
	t.Responsible, t.PrecedentTask = in.Responsible, in.PrecedentTask
	return t
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func update(m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	mm, cmd := m.Update(msg)
	return mm.(appModel), cmd
}

// press sends keys in order and returns the command of the last one.
func press(m appModel, keys ...string) (appModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(m, keyMsg(k))
	}
	return m, cmd
}

func typeText(m appModel, s string) appModel {
	for _, r := range s {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	return cmd()
}

// loadedModel returns a sized model with templates and the first template's
// snapshot applied.
func loadedModel(t *testing.T, repo *fakeRepo) appModel {
	t.Helper()
	m := newAppModel(Options{Repo: repo})
	m, _ = update(m, tea.WindowSizeMsg{Width: 140, Height: 40})

	seq := m.roadmap.BeginLoad()
	m, cmd := update(m, m.loadTemplatesCmd(seq)())
	m, _ = update(m, run(t, cmd))

	if m.roadmap.TemplateID != "tpl1" {
		t.Fatalf("expected first template to be selected, got %q", m.roadmap.TemplateID)
	}
	if len(m.roadmap.Snapshot.Tasks) != len(repo.tasks) {
		t.Fatalf("expected %d tasks loaded, got %d", len(repo.tasks), len(m.roadmap.Snapshot.Tasks))
	}
	return m
}

func TestLoad_SelectsFirstTemplateAndBuildsBoard(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	if len(m.board.Columns) != 2 || len(m.board.Sections) != 2 {
		t.Fatalf("unexpected board shape: %d columns, %d sections", len(m.board.Columns), len(m.board.Sections))
	}
	if m.board.Columns[0].Count != 2 {
		t.Fatalf("expected Define to count 2 tasks, got %d", m.board.Columns[0].Count)
	}
	if m.cursor.TaskID != "t1" {
		t.Fatalf("expected cursor on first card, got %q", m.cursor.TaskID)
	}

	out := m.View()
	for _, want := range []string{"Website relaunch", "Define", "Build", "Frontend", "2 Tasks", "Write brief", "(empty)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, out)
		}
	}
}

func TestLoad_FailureIsInlineAndRetryable(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = &api.Error{Status: 500, Message: "database is down"}

	m := newAppModel(Options{Repo: repo})
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	seq := m.roadmap.BeginLoad()
	m, _ = update(m, m.loadTemplatesCmd(seq)())

	if m.roadmap.Err == nil {
		t.Fatalf("expected load error")
	}
	if out := m.View(); !strings.Contains(out, "database is down") || !strings.Contains(out, "r: retry") {
		t.Fatalf("expected inline error with retry hint:\n%s", out)
	}

	repo.listErr = nil
	m, cmd := press(m, "r")
	m, cmd = update(m, run(t, cmd))
	m, _ = update(m, run(t, cmd))
	if m.roadmap.Err != nil || len(m.roadmap.Snapshot.Tasks) != 3 {
		t.Fatalf("expected retry to load the board, err=%v tasks=%d", m.roadmap.Err, len(m.roadmap.Snapshot.Tasks))
	}
}

func TestLoad_StaleSnapshotIgnoredAfterTemplateSwitch(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	staleSeq := m.roadmap.BeginLoad()
	stale := m.loadSnapshotCmd(staleSeq, "tpl1")

	m, cmd := press(m, "t")
	if m.roadmap.TemplateID != "tpl2" {
		t.Fatalf("expected tpl2 selected, got %q", m.roadmap.TemplateID)
	}
	if cmd == nil {
		t.Fatalf("expected a reload after switching templates")
	}

	m, _ = update(m, stale())
	if !m.roadmap.Snapshot.Empty() {
		t.Fatalf("expected stale tpl1 snapshot to be ignored")
	}
}

func TestEnter_OpensPanelAndEscCloses(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	m, _ = press(m, "enter")
	if !m.panelOpen || m.selectedTaskID != "t1" || m.session == nil {
		t.Fatalf("expected panel open on t1, got open=%v selected=%q", m.panelOpen, m.selectedTaskID)
	}
	if m.session.Mode() != detail.Viewing {
		t.Fatalf("expected a new session to start in Viewing")
	}
	if out := m.View(); !strings.Contains(out, "Details") || !strings.Contains(out, "Activity") {
		t.Fatalf("expected detail tabs in view:\n%s", out)
	}

	m, _ = press(m, "esc")
	if m.panelOpen || m.selectedTaskID != "" || m.session != nil {
		t.Fatalf("expected esc to deselect and close the panel")
	}
}

func TestSelectingAnotherCardStartsNewSession(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	m, _ = press(m, "enter")
	first := m.session
	m, _ = press(m, "right", "enter")
	if m.selectedTaskID != "t3" {
		t.Fatalf("expected t3 selected, got %q", m.selectedTaskID)
	}
	if m.session == first {
		t.Fatalf("expected a fresh session for the new subject")
	}
}

func TestEditSave_NameOnlyIssuesSingleUpdate(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)
	before := repo.tasks[0]

	m, _ = press(m, "enter", "e")
	if m.session.Mode() != detail.Editing {
		t.Fatalf("expected Editing after e")
	}
	m, _ = press(m, "ctrl+u")
	m = typeText(m, "Write the spec")

	m, saveCmd := press(m, "ctrl+s")
	if saveCmd == nil {
		t.Fatalf("expected save command")
	}
	if !m.session.Saving() {
		t.Fatalf("expected save in flight")
	}
	m, again := press(m, "ctrl+s")
	if again != nil {
		t.Fatalf("expected second save to be rejected while pending")
	}

	m, _ = update(m, run(t, saveCmd))
	if len(repo.updates) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(repo.updates))
	}
	want := model.InputFromTask(before)
	want.Name = "Write the spec"
	if !reflect.DeepEqual(repo.updates[0], want) {
		t.Fatalf("unexpected update payload:\n got %+v\nwant %+v", repo.updates[0], want)
	}
	if m.session.Mode() != detail.Viewing || m.session.Task().Name != "Write the spec" {
		t.Fatalf("expected Viewing with the server copy, got %v %q", m.session.Mode(), m.session.Task().Name)
	}
	if m.minibufferText != "Task updated" {
		t.Fatalf("expected acknowledgment, got %q", m.minibufferText)
	}
}

func TestEditSave_FailureKeepsBuffer(t *testing.T) {
	repo := newFakeRepo()
	repo.updateErr = &api.Error{Status: 422, Message: "phase is closed"}
	m := loadedModel(t, repo)

	m, _ = press(m, "enter", "e", "ctrl+u")
	m = typeText(m, "Changed")
	m, cmd := press(m, "ctrl+s")
	m, _ = update(m, run(t, cmd))

	if m.session.Mode() != detail.Editing {
		t.Fatalf("expected to stay Editing after a failed save")
	}
	if got := m.session.Value(detail.FieldName); got != "Changed" {
		t.Fatalf("expected buffer kept, got %q", got)
	}
	if m.detailMsg != "phase is closed" {
		t.Fatalf("expected server message, got %q", m.detailMsg)
	}
	if !strings.Contains(m.View(), "phase is closed") {
		t.Fatalf("expected the error near the panel")
	}
}

func TestEditCancel_RestoresView(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	m, _ = press(m, "enter")
	before := m.session.Values()
	m, _ = press(m, "e", "ctrl+u")
	m = typeText(m, "Scratch")
	m, _ = press(m, "esc")

	if m.session.Mode() != detail.Viewing {
		t.Fatalf("expected Viewing after cancel")
	}
	if !reflect.DeepEqual(m.session.Values(), before) {
		t.Fatalf("expected view values restored")
	}
	if !m.panelOpen {
		t.Fatalf("expected cancel to keep the panel open")
	}
}

func TestEdit_BlankNameRejectedWithoutNetwork(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "enter", "e", "ctrl+u")
	m, cmd := press(m, "ctrl+s")
	if cmd != nil {
		t.Fatalf("expected no command for a blank name")
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no update call")
	}
	if m.detailMsg == "" {
		t.Fatalf("expected a validation message")
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "enter", "d")
	if !m.session.ConfirmPending() {
		t.Fatalf("expected confirmation pending")
	}
	if out := m.View(); !strings.Contains(out, "Delete task") {
		t.Fatalf("expected confirm modal:\n%s", out)
	}

	m, _ = press(m, "esc")
	if m.session.ConfirmPending() || len(repo.deletes) != 0 {
		t.Fatalf("expected esc to abort without deleting")
	}

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m, _ = update(m, run(t, cmd))

	if len(repo.deletes) != 1 || repo.deletes[0] != "t1" {
		t.Fatalf("expected one delete of t1, got %v", repo.deletes)
	}
	if m.panelOpen || m.session != nil {
		t.Fatalf("expected panel closed after delete")
	}
	if _, ok := m.roadmap.Snapshot.Task("t1"); ok {
		t.Fatalf("expected t1 removed from the snapshot")
	}
	if n := len(m.roadmap.Snapshot.TasksByAreaAndPhase("A1", "P1")); n != 0 {
		t.Fatalf("expected A1/P1 empty, got %d", n)
	}
	if m.minibufferText != "Task deleted" {
		t.Fatalf("expected acknowledgment, got %q", m.minibufferText)
	}
}

func TestDelete_FailureKeepsTask(t *testing.T) {
	repo := newFakeRepo()
	repo.deleteErr = &api.Error{Status: 500}
	m := loadedModel(t, repo)

	m, _ = press(m, "enter", "d")
	m, cmd := press(m, "y")
	m, _ = update(m, run(t, cmd))

	if !m.panelOpen || m.session == nil {
		t.Fatalf("expected panel to stay open")
	}
	if m.detailMsg != api.MsgDeleteFailed {
		t.Fatalf("expected fallback message, got %q", m.detailMsg)
	}
	if _, ok := m.roadmap.Snapshot.Task("t1"); !ok {
		t.Fatalf("expected t1 to remain")
	}
}

func TestLateUpdateForPreviousSubjectIgnored(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "enter")
	m, _ = press(m, "right", "enter")

	m, _ = update(m, taskUpdatedMsg{taskID: "t1", err: &api.Error{Status: 500}})
	if m.detailMsg != "" {
		t.Fatalf("expected failure for another task to be ignored, got %q", m.detailMsg)
	}
	if m.session.TaskID() != "t3" {
		t.Fatalf("expected session to stay on t3")
	}
}

func TestCreate_EmptyNameNoNetworkCall(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "n")
	if !m.create.IsOpen() {
		t.Fatalf("expected creation panel open")
	}
	if m.create.SelectsEnabled() {
		t.Fatalf("expected selects disabled while options load")
	}
	m, _ = update(m, m.loadOptionsCmd(1, "tpl1")())

	m, cmd := press(m, "ctrl+s")
	if cmd != nil {
		t.Fatalf("expected no command for an empty name")
	}
	if len(repo.creates) != 0 {
		t.Fatalf("expected no create call")
	}
	if !strings.Contains(m.create.Message(), "name is required") {
		t.Fatalf("expected validation message, got %q", m.create.Message())
	}
}

func TestCreate_SubmitsAndCloses(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "n")
	m, _ = update(m, m.loadOptionsCmd(1, "tpl1")())

	m = typeText(m, "Ship it")
	m, _ = press(m, "tab", "tab", "right", "tab", "right")
	if m.create.Form.AreaID != "A1" || m.create.Form.PhaseID != "P1" {
		t.Fatalf("expected A1/P1 chosen, got %q/%q", m.create.Form.AreaID, m.create.Form.PhaseID)
	}

	m, cmd := press(m, "ctrl+s")
	if !m.create.Submitting() {
		t.Fatalf("expected submission in flight")
	}
	m, _ = press(m, "esc")
	if !m.create.IsOpen() {
		t.Fatalf("expected esc to be a no-op while submitting")
	}

	m, _ = update(m, run(t, cmd))
	if len(repo.creates) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.creates))
	}
	in := repo.creates[0]
	if in.Name != "Ship it" || in.PlannedStart != nil || in.State != model.StatePlanned || in.Status != model.StatusNotStarted {
		t.Fatalf("unexpected create payload: %+v", in)
	}
	if m.create.IsOpen() {
		t.Fatalf("expected panel closed after success")
	}
	if m.minibufferText != "Task created" {
		t.Fatalf("expected acknowledgment, got %q", m.minibufferText)
	}
	if m.cursor.TaskID != "new1" {
		t.Fatalf("expected cursor to follow the new task, got %q", m.cursor.TaskID)
	}
}

func TestCreate_FailureKeepsInput(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = &api.Error{Status: 500}
	m := loadedModel(t, repo)

	m, _ = press(m, "n")
	m, _ = update(m, m.loadOptionsCmd(1, "tpl1")())
	m = typeText(m, "Ship it")
	m, _ = press(m, "tab", "tab", "right", "tab", "right")
	m, cmd := press(m, "ctrl+s")
	m, _ = update(m, run(t, cmd))

	if !m.create.IsOpen() {
		t.Fatalf("expected panel to stay open")
	}
	if m.create.Form.Name != "Ship it" {
		t.Fatalf("expected input preserved, got %q", m.create.Form.Name)
	}
	if m.create.Message() != api.MsgCreateFailed {
		t.Fatalf("expected fallback message, got %q", m.create.Message())
	}
}

func TestCollapseSkipsAreaInNavigation(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	// Cursor on t1 (Frontend/Define). Fold Frontend, then move down into Backend.
	m, _ = press(m, "z")
	if !m.collapsed["A1"] {
		t.Fatalf("expected Frontend folded")
	}
	m, _ = press(m, "down")
	if m.cursor.TaskID != "t2" {
		t.Fatalf("expected cursor on t2, got %q", m.cursor.TaskID)
	}
	m, _ = press(m, "up")
	if m.cursor.TaskID != "t2" {
		t.Fatalf("expected folded area to be skipped, got %q", m.cursor.TaskID)
	}
}

func TestMinibufferClearsOnlyLatest(t *testing.T) {
	m := loadedModel(t, newFakeRepo())

	(&m).showMinibuffer("Task created")
	first := m.minibufferSeq
	(&m).showMinibuffer("Task updated")

	m, _ = update(m, minibufferClearMsg{seq: first})
	if m.minibufferText != "Task updated" {
		t.Fatalf("expected older clear to be ignored, got %q", m.minibufferText)
	}
	m, _ = update(m, minibufferClearMsg{seq: m.minibufferSeq})
	if m.minibufferText != "" {
		t.Fatalf("expected minibuffer cleared")
	}
}

func TestDelete_InFlightKeepsSessionAndBlocksSecondDelete(t *testing.T) {
	repo := newFakeRepo()
	m := loadedModel(t, repo)

	m, _ = press(m, "enter", "d")
	m, first := press(m, "y")
	if first == nil || !m.session.Deleting() {
		t.Fatalf("expected the delete in flight")
	}
	inFlight := m.session

	m, _ = press(m, "enter", "d")
	m, second := press(m, "y")
	if second != nil {
		t.Fatalf("expected no second delete command while the first is pending")
	}
	if m.session != inFlight || !m.session.Deleting() {
		t.Fatalf("expected the pending session to stay the subject")
	}
	m, _ = press(m, "esc")
	if !m.panelOpen || m.session != inFlight {
		t.Fatalf("expected esc not to drop a pending session")
	}

	m, _ = update(m, run(t, first))
	if len(repo.deletes) != 1 || repo.deletes[0] != "t1" {
		t.Fatalf("expected exactly one delete of t1, got %v", repo.deletes)
	}
	if m.session != nil {
		t.Fatalf("expected panel closed after the delete settled")
	}
}

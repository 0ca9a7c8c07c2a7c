package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roadmap-cli/internal/devserver"
	"roadmap-cli/internal/model"

	"go.uber.org/zap"
)

func newDevClient(t *testing.T) (*Client, *devserver.Store, model.Template) {
	t.Helper()
	st := devserver.NewStore()
	tpl, err := devserver.Seed(st)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv, err := devserver.New(st, zap.NewNop())
	if err != nil {
		t.Fatalf("devserver: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, st, tpl
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected error for empty base url")
	}
	c, err := New(Options{BaseURL: "http://localhost:8787/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.baseURL != "http://localhost:8787/api" {
		t.Fatalf("baseURL=%q", c.baseURL)
	}
	if c.httpClient.Timeout != defaultTimeout {
		t.Fatalf("timeout=%v, want %v", c.httpClient.Timeout, defaultTimeout)
	}
}

func TestClient_ListCollections(t *testing.T) {
	c, _, tpl := newDevClient(t)
	ctx := context.Background()

	templates, err := c.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	if len(templates) != 1 || templates[0].ID != tpl.ID {
		t.Fatalf("unexpected templates: %+v", templates)
	}

	areas, err := c.ListAreas(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("areas: %v", err)
	}
	phases, err := c.ListPhases(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("phases: %v", err)
	}
	tasks, err := c.ListTasks(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(areas) != 3 || len(phases) != 6 || len(tasks) == 0 {
		t.Fatalf("unexpected sizes: areas=%d phases=%d tasks=%d", len(areas), len(phases), len(tasks))
	}
	if phases[0].Name != "Identify" {
		t.Fatalf("expected fetch order to be preserved, got %q first", phases[0].Name)
	}
}

func TestClient_CreateUpdateDeleteTask(t *testing.T) {
	c, st, tpl := newDevClient(t)
	ctx := context.Background()
	areas, _ := st.Areas(tpl.ID)
	phases, _ := st.Phases(tpl.ID)

	created, err := c.CreateTask(ctx, tpl.ID, model.TaskInput{
		Name:    "Write brief",
		AreaID:  &areas[0].ID,
		PhaseID: &phases[0].ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Name != "Write brief" {
		t.Fatalf("unexpected created task: %+v", created)
	}

	in := model.InputFromTask(created)
	in.Name = "Write the spec"
	updated, err := c.UpdateTask(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Write the spec" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}

	if err := c.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = c.GetTask(ctx, created.ID)
	if !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestClient_ErrorMessageSurfacedVerbatim(t *testing.T) {
	c, _, tpl := newDevClient(t)

	_, err := c.CreateTask(context.Background(), tpl.ID, model.TaskInput{Name: ""})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("status=%d", apiErr.Status)
	}
	if got := MessageOr(err, MsgCreateFailed); got != "name is required" {
		t.Fatalf("MessageOr=%q", got)
	}
}

func TestClient_ErrorWithoutMessageFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "oops")
	}))
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	err = c.DeleteTask(context.Background(), "t1")
	if got := MessageOr(err, MsgDeleteFailed); got != MsgDeleteFailed {
		t.Fatalf("MessageOr=%q, want fallback", got)
	}
	if MessageOr(nil, MsgDeleteFailed) != "" {
		t.Fatalf("expected empty message for nil error")
	}
}

func TestClient_SendsBearerTokenAndNulls(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"cuid":"t1","name":"Write brief"}`)
	}))
	t.Cleanup(ts.Close)

	c, err := New(Options{BaseURL: ts.URL, Token: "secret"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := c.CreateTask(context.Background(), "tpl", model.TaskInput{Name: "Write brief"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(gotAuth, "Bearer ") || !strings.HasSuffix(gotAuth, "secret") {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	v, ok := gotBody["planned_start"]
	if !ok || v != nil {
		t.Fatalf("expected planned_start to be explicit null, got %v (present=%v)", v, ok)
	}
}

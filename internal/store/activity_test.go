package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(context.Background(), filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_RecordAndReadForTask(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	if _, err := j.Record(ctx, Event{Type: EventTaskCreate, TaskID: "t1", TaskName: "Write brief"}, map[string]any{"name": "Write brief"}); err != nil {
		t.Fatalf("record create: %v", err)
	}
	if _, err := j.Record(ctx, Event{Type: EventTaskUpdate, TaskID: "t1", Outcome: OutcomeFailed, Message: "Failed to update task"}, nil); err != nil {
		t.Fatalf("record update: %v", err)
	}
	if _, err := j.Record(ctx, Event{Type: EventTaskDelete, TaskID: "t2"}, nil); err != nil {
		t.Fatalf("record delete: %v", err)
	}

	evs, err := j.ForTask(ctx, "t1", 0)
	if err != nil {
		t.Fatalf("for task: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Type != EventTaskUpdate || evs[1].Type != EventTaskCreate {
		t.Fatalf("expected newest first, got %q then %q", evs[0].Type, evs[1].Type)
	}
	if evs[0].Outcome != OutcomeFailed || evs[0].Message != "Failed to update task" {
		t.Fatalf("unexpected failed event: %+v", evs[0])
	}
	if evs[1].Outcome != OutcomeOK || string(evs[1].Payload) != `{"name":"Write brief"}` {
		t.Fatalf("unexpected create event: %+v (payload %s)", evs[1], evs[1].Payload)
	}
	if evs[0].ID == "" || evs[0].ID == evs[1].ID {
		t.Fatalf("expected distinct ids, got %q %q", evs[0].ID, evs[1].ID)
	}
	if !evs[1].At.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected timestamp: %v", evs[1].At)
	}
}

func TestJournal_RecentRespectsLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := j.Record(ctx, Event{Type: EventTaskUpdate, TaskID: "t1"}, nil); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	evs, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("expected 3 events, got %d", len(evs))
	}
}

func TestJournal_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")
	ctx := context.Background()

	j, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := j.Record(ctx, Event{Type: EventTaskCreate, TaskID: "t1"}, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = j.Close()

	j, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j.Close()
	evs, err := j.Recent(ctx, 0)
	if err != nil || len(evs) != 1 {
		t.Fatalf("expected 1 event after reopen, got %d (%v)", len(evs), err)
	}
}

func TestJournal_NilIsNoop(t *testing.T) {
	var j *Journal
	ctx := context.Background()
	if _, err := j.Record(ctx, Event{Type: EventTaskCreate}, nil); err != nil {
		t.Fatalf("record on nil journal: %v", err)
	}
	evs, err := j.ForTask(ctx, "t1", 10)
	if err != nil || len(evs) != 0 {
		t.Fatalf("expected empty result, got %v %v", evs, err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatalf("expected error")
	}
}

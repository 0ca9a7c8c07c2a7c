// Package store keeps the local activity journal: a sqlite log of the task mutations
// this client has sent to the repository, with their outcome.
//
// The journal is local history only. Roadmap data itself always comes from the server.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type EventType string

const (
	EventTaskCreate EventType = "task.create"
	EventTaskUpdate EventType = "task.update"
	EventTaskDelete EventType = "task.delete"
)

type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	TemplateID string          `json:"templateId,omitempty"`
	TaskID     string          `json:"taskId,omitempty"`
	TaskName   string          `json:"taskName,omitempty"`
	Outcome    Outcome         `json:"outcome"`
	Message    string          `json:"message,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	At         time.Time       `json:"at"`
}

// Journal is safe to use as a nil pointer: a nil journal records nothing and reads
// nothing, which is how "activity.path: off" is served.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates, if needed) the journal at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing activity journal path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activity (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			template_id TEXT NOT NULL,
			task_id TEXT NOT NULL,
			task_name TEXT NOT NULL,
			outcome TEXT NOT NULL,
			message TEXT NOT NULL,
			payload_json TEXT,
			at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_task ON activity(task_id, at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_at ON activity(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends ev, filling in ID and At when empty. payload, when non-nil, is stored
// as JSON.
func (j *Journal) Record(ctx context.Context, ev Event, payload any) (Event, error) {
	if j == nil {
		return ev, nil
	}
	if strings.TrimSpace(ev.ID) == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = j.now()
	}
	if ev.Outcome == "" {
		ev.Outcome = OutcomeOK
	}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return ev, fmt.Errorf("encode payload: %w", err)
		}
		ev.Payload = b
	}

	var payloadJSON sql.NullString
	if len(ev.Payload) > 0 {
		payloadJSON = sql.NullString{String: string(ev.Payload), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO activity(event_id, type, template_id, task_id, task_name, outcome, message, payload_json, at_unixms)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Type), ev.TemplateID, ev.TaskID, ev.TaskName, string(ev.Outcome), ev.Message, payloadJSON, ev.At.UnixMilli(),
	)
	if err != nil {
		return ev, fmt.Errorf("insert activity: %w", err)
	}
	return ev, nil
}

// ForTask returns the events of taskID, newest first. limit <= 0 means no limit.
func (j *Journal) ForTask(ctx context.Context, taskID string, limit int) ([]Event, error) {
	if j == nil {
		return nil, nil
	}
	return j.query(ctx, `WHERE task_id = ?`, []any{strings.TrimSpace(taskID)}, limit)
}

// Recent returns the latest events across all tasks, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Event, error) {
	if j == nil {
		return nil, nil
	}
	return j.query(ctx, "", nil, limit)
}

func (j *Journal) query(ctx context.Context, where string, args []any, limit int) ([]Event, error) {
	q := `SELECT event_id, type, template_id, task_id, task_name, outcome, message, payload_json, at_unixms
		FROM activity ` + where + ` ORDER BY at_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			ev      Event
			typ     string
			outcome string
			payload sql.NullString
			atMS    int64
		)
		if err := rows.Scan(&ev.ID, &typ, &ev.TemplateID, &ev.TaskID, &ev.TaskName, &outcome, &ev.Message, &payload, &atMS); err != nil {
			return nil, err
		}
		ev.Type = EventType(typ)
		ev.Outcome = Outcome(outcome)
		if payload.Valid && payload.String != "" {
			ev.Payload = json.RawMessage(payload.String)
		}
		ev.At = time.UnixMilli(atMS).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}

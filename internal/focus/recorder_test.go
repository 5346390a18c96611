package focus

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

type failingHistory struct {
	storage.SessionRepository
}

func (failingHistory) CreateSession(context.Context, storage.Session) error {
	return errors.New("disk full")
}

func setupRecorder(t *testing.T) (*Recorder, *storage.TaskStore, *storage.SQLiteRepository) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.OpenTaskStore(filepath.Join(dir, "tasks.jsonl"), storage.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	history, err := storage.OpenSQLite(filepath.Join(dir, "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { _ = history.Close() })
	return NewRecorder(store, history, log.New(io.Discard, "", 0)), store, history
}

func TestCompleteWorkUpdatesStoreAndHistory(t *testing.T) {
	rec, store, history := setupRecorder(t)
	ctx := context.Background()
	if _, err := store.Add("Design UI", model.Options{TargetPomodoros: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}

	ended := time.Date(2026, 2, 9, 12, 25, 0, 0, time.UTC)
	task, err := rec.CompleteWork(ctx, "Design UI", ended, 25*time.Minute)
	if err != nil {
		t.Fatalf("complete work: %v", err)
	}
	if task.AccumulatedSeconds != 1500 || task.ProgressPercent() != 50 {
		t.Fatalf("unexpected task after work: %+v", task)
	}

	rec.CompleteBreak(ctx, PhaseShortBreak, ended.Add(5*time.Minute), 5*time.Minute)

	sessions, err := history.ListSessions(ctx, storage.SessionListFilter{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected two sessions, got: %#v", sessions)
	}
	work := sessions[1]
	if work.TaskName != "Design UI" || work.Kind != storage.SessionKindWork || work.DurationSec != 1500 ||
		!work.StartedAt.Equal(ended.Add(-25*time.Minute)) || work.ID == "" {
		t.Fatalf("unexpected work session: %#v", work)
	}
	if sessions[0].Kind != storage.SessionKindShortBreak {
		t.Fatalf("unexpected break session: %#v", sessions[0])
	}
}

func TestCompleteWorkUnknownTask(t *testing.T) {
	rec, _, history := setupRecorder(t)
	ctx := context.Background()
	_, err := rec.CompleteWork(ctx, "ghost", time.Now(), 25*time.Minute)
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got: %v", err)
	}
	sessions, err := history.ListSessions(ctx, storage.SessionListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("no session expected for unknown task: %#v", sessions)
	}
}

func TestCompleteWorkKeepsStoreUpdateWhenHistoryFails(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenTaskStore(filepath.Join(dir, "tasks.jsonl"), storage.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.Add("A", model.Options{}); err != nil {
		t.Fatalf("add: %v", err)
	}

	var logs bytes.Buffer
	rec := NewRecorder(store, failingHistory{}, log.New(&logs, "", 0))
	task, err := rec.CompleteWork(context.Background(), "A", time.Now(), 25*time.Minute)
	if err != nil {
		t.Fatalf("complete work: %v", err)
	}
	if task.AccumulatedSeconds != 1500 {
		t.Fatalf("store update lost: %+v", task)
	}
	if !strings.Contains(logs.String(), "warning:") {
		t.Fatalf("expected warning, got %q", logs.String())
	}
}

func TestDeleteTaskPurgesHistory(t *testing.T) {
	rec, store, history := setupRecorder(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B"} {
		if _, err := store.Add(name, model.Options{}); err != nil {
			t.Fatalf("add: %v", err)
		}
		if _, err := rec.CompleteWork(ctx, name, time.Now(), time.Minute); err != nil {
			t.Fatalf("complete work: %v", err)
		}
	}

	if err := rec.DeleteTask(ctx, "A"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := rec.DeleteTask(ctx, "A"); !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got: %v", err)
	}
	totals, err := history.TotalsByTask(ctx, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 || totals[0].TaskName != "B" {
		t.Fatalf("unexpected totals: %#v", totals)
	}
	if strings.Join(store.Names(), ",") != "B" {
		t.Fatalf("unexpected names: %v", store.Names())
	}
}

func TestRecorderWithoutHistory(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenTaskStore(filepath.Join(dir, "tasks.jsonl"), storage.WithLogger(log.New(io.Discard, "", 0)))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := store.Add("solo", model.Options{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	rec := NewRecorder(store, nil, nil)
	if _, err := rec.CompleteWork(context.Background(), "solo", time.Now(), 25*time.Minute); err != nil {
		t.Fatalf("complete work: %v", err)
	}
	rec.CompleteBreak(context.Background(), PhaseLongBreak, time.Now(), time.Minute)
	if err := rec.DeleteTask(context.Background(), "solo"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

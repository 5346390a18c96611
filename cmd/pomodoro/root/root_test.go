package root

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/config"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

func setupConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultRuntimeConfig()
	cfg.TasksFile = filepath.Join(dir, "tasks.jsonl")
	cfg.HistoryFile = filepath.Join(dir, "history.db")
	path := filepath.Join(dir, "config.yaml")
	if err := config.WriteFile(path, cfg, false); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dir
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestTaskLifecycle(t *testing.T) {
	cfgPath, dir := setupConfig(t)

	mustRun(t, cfgPath, "add", "Design", "UI", "-p", "3", "-t", "design", "-n", "2")
	mustRun(t, cfgPath, "add", "Write docs", "--tag", "docs", "--due", "2026-03-01")

	out := mustRun(t, cfgPath, "list")
	if !strings.Contains(out, "Design UI") || !strings.Contains(out, "Write docs") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if !strings.Contains(out, "2026-03-01") {
		t.Fatalf("expected due date in list:\n%s", out)
	}

	out = mustRun(t, cfgPath, "filter", "--tag", "docs")
	if strings.Contains(out, "Design UI") || !strings.Contains(out, "Write docs") {
		t.Fatalf("unexpected filter output:\n%s", out)
	}

	out = mustRun(t, cfgPath, "sort", "priority")
	if strings.Index(out, "Design UI") > strings.Index(out, "Write docs") {
		t.Fatalf("expected higher priority first:\n%s", out)
	}
	out = mustRun(t, cfgPath, "sort", "priority", "--asc")
	if strings.Index(out, "Design UI") < strings.Index(out, "Write docs") {
		t.Fatalf("expected lower priority first:\n%s", out)
	}

	out = mustRun(t, cfgPath, "record", "Design UI")
	if !strings.Contains(out, "1/2 pomodoros (50.0%)") {
		t.Fatalf("unexpected record output:\n%s", out)
	}

	out = mustRun(t, cfgPath, "stats", "Design UI", "--raw")
	if !strings.Contains(out, "| pomodoros | 1 of 2 |") || !strings.Contains(out, "| time invested | 25 min (0.42 h) |") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}

	out = mustRun(t, cfgPath, "history")
	if !strings.Contains(out, "Design UI") {
		t.Fatalf("unexpected history output:\n%s", out)
	}
	out = mustRun(t, cfgPath, "history", "--sessions", "--task", "Design UI")
	if !strings.Contains(out, "Focus") || !strings.Contains(out, "25:00") {
		t.Fatalf("unexpected sessions output:\n%s", out)
	}

	mustRun(t, cfgPath, "delete", "Design UI")
	_, err := run(t, cfgPath, "get", "Design UI")
	if !errors.Is(err, storage.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "tasks.jsonl"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Count(string(raw), "\n") != 1 || !strings.Contains(string(raw), `"name":"Write docs"`) {
		t.Fatalf("unexpected log after delete:\n%s", raw)
	}
	if !strings.Contains(string(raw), `"target_pomodoros":0`) {
		t.Fatalf("expected default target of 0:\n%s", raw)
	}
}

func TestAddRejectsDuplicateAndBadInput(t *testing.T) {
	cfgPath, _ := setupConfig(t)
	mustRun(t, cfgPath, "add", "a")

	if _, err := run(t, cfgPath, "add", "a"); !errors.Is(err, storage.ErrDuplicateTask) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := run(t, cfgPath, "add", "b", "--due", "tomorrow"); err == nil {
		t.Fatal("expected bad due date error")
	}
	if _, err := run(t, cfgPath, "sort", "size"); !errors.Is(err, storage.ErrInvalidSortKey) {
		t.Fatalf("expected invalid sort key, got %v", err)
	}
	if _, err := run(t, cfgPath, "record", "a", "--minutes", "-5"); !errors.Is(err, storage.ErrInvalidDuration) {
		t.Fatalf("expected invalid duration, got %v", err)
	}
	if _, err := run(t, cfgPath, "get"); err == nil {
		t.Fatal("expected missing argument error")
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	out := mustRun(t, path, "config", "init")
	if !strings.Contains(out, path) {
		t.Fatalf("unexpected init output:\n%s", out)
	}
	if _, err := run(t, path, "config", "init"); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	mustRun(t, path, "config", "init", "--force")

	out = mustRun(t, path, "config", "show")
	if !strings.Contains(out, "focus_work_minutes: 25") || !strings.Contains(out, "default_sort_key: priority") {
		t.Fatalf("unexpected config output:\n%s", out)
	}
}

func TestHistoryDisabled(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultRuntimeConfig()
	cfg.TasksFile = filepath.Join(dir, "tasks.jsonl")
	cfg.HistoryFile = filepath.Join(dir, "history.db")
	cfg.HistoryEnabled = false
	path := filepath.Join(dir, "config.yaml")
	if err := config.WriteFile(path, cfg, false); err != nil {
		t.Fatalf("write config: %v", err)
	}

	mustRun(t, path, "add", "a")
	mustRun(t, path, "record", "a")
	if _, err := run(t, path, "history"); err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled history error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "history.db")); !os.IsNotExist(err) {
		t.Fatalf("history file must not be created, stat err=%v", err)
	}
}

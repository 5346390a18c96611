package storage

import (
	"bufio"
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
)

type SortKey string

const (
	SortByPriority  SortKey = "priority"
	SortByDueAt     SortKey = "due_at"
	SortByCreatedAt SortKey = "created_at"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortByPriority, SortByDueAt, SortByCreatedAt:
		return true
	default:
		return false
	}
}

type TaskFilter struct {
	Status string
	Tag    string
}

// Matches reports whether task passes every non-empty criterion.
func (f TaskFilter) Matches(task model.Task) bool {
	if f.Status != "" && task.Status != f.Status {
		return false
	}
	return f.Tag == "" || task.HasTag(f.Tag)
}

// TaskStore keeps tasks in memory and mirrors them into a JSON-lines log.
// New tasks are appended; any other mutation rewrites the whole file.
type TaskStore struct {
	mu      sync.Mutex
	path    string
	tasks   map[string]*model.Task
	order   []string
	lock    *flock.Flock
	logger  *log.Logger
	now     func() time.Time
	loadErr error
}

type Option func(*TaskStore)

func WithLogger(logger *log.Logger) Option {
	return func(s *TaskStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		if now != nil {
			s.now = now
		}
	}
}

func OpenTaskStore(path string, opts ...Option) (*TaskStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("storage: empty task file path")
	}
	s := &TaskStore{
		path:   path,
		tasks:  make(map[string]*model.Task),
		logger: log.New(os.Stderr, "", log.LstdFlags),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StoreIOError{Op: "create dir", Path: dir, Err: err}
		}
	}
	s.lock = flock.New(path + ".lock")
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, &StoreIOError{Op: "lock", Path: s.lock.Path(), Err: err}
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrStoreLocked, path)
	}

	s.load()
	return s, nil
}

func (s *TaskStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lock == nil {
		return nil
	}
	err := s.lock.Unlock()
	s.lock = nil
	return err
}

func (s *TaskStore) Path() string {
	return s.path
}

// LoadErr returns the error that made the last load fall back to an empty
// store, or nil.
func (s *TaskStore) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *TaskStore) load() {
	s.tasks = make(map[string]*model.Task)
	s.order = nil
	s.loadErr = nil

	tasks, order, err := readLog(s.path)
	switch {
	case err == nil:
		s.tasks = tasks
		s.order = order
	case errors.Is(err, model.ErrMalformedRecord):
		s.logger.Printf("warning: %s is corrupt, starting with an empty task list: %v", s.path, err)
		s.loadErr = err
	default:
		s.logger.Printf("critical: cannot read %s: %v", s.path, err)
		s.loadErr = err
	}
}

func readLog(path string) (map[string]*model.Task, []string, error) {
	tasks := make(map[string]*model.Task)
	var order []string

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tasks, order, nil
		}
		return nil, nil, &StoreIOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	lineNo := 0
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				task, parseErr := model.ParseRecordLine(trimmed)
				if parseErr != nil {
					return nil, nil, fmt.Errorf("line %d: %w", lineNo, parseErr)
				}
				if _, exists := tasks[task.Name]; !exists {
					order = append(order, task.Name)
				}
				tasks[task.Name] = &task
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, nil, &StoreIOError{Op: "read", Path: path, Err: readErr}
		}
	}
	return tasks, order, nil
}

func (s *TaskStore) Add(name string, opts model.Options) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, ErrInvalidName
	}
	if _, exists := s.tasks[name]; exists {
		return model.Task{}, fmt.Errorf("%w: %q", ErrDuplicateTask, name)
	}
	task, err := model.NewTask(name, opts, s.now().UTC())
	if err != nil {
		return model.Task{}, err
	}

	s.tasks[name] = &task
	s.order = append(s.order, name)
	if err := s.appendTask(task); err != nil {
		delete(s.tasks, name)
		s.order = s.order[:len(s.order)-1]
		return model.Task{}, err
	}
	return task.Clone(), nil
}

func (s *TaskStore) Get(name string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.lookup(name)
	if err != nil {
		return model.Task{}, err
	}
	return task.Clone(), nil
}

func (s *TaskStore) lookup(name string) (*model.Task, error) {
	task, ok := s.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, name)
	}
	return task, nil
}

func (s *TaskStore) UpdateTime(name string, deltaSeconds int) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(name)
	if err != nil {
		return model.Task{}, err
	}
	if deltaSeconds < 0 {
		return model.Task{}, fmt.Errorf("%w: %d", ErrInvalidDuration, deltaSeconds)
	}
	previous := task.AccumulatedSeconds
	task.AccumulatedSeconds += deltaSeconds
	if err := s.rewrite(); err != nil {
		task.AccumulatedSeconds = previous
		return model.Task{}, err
	}
	return task.Clone(), nil
}

func (s *TaskStore) RecordPomodoro(name string, durationSeconds int) (model.Task, error) {
	if durationSeconds == 0 {
		durationSeconds = model.PomodoroSeconds
	}
	return s.UpdateTime(name, durationSeconds)
}

func (s *TaskStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.lookup(name)
	if err != nil {
		return err
	}
	idx := slices.Index(s.order, name)
	delete(s.tasks, name)
	s.order = slices.Delete(s.order, idx, idx+1)
	if err := s.rewrite(); err != nil {
		s.tasks[name] = task
		s.order = slices.Insert(s.order, idx, name)
		return err
	}
	return nil
}

func (s *TaskStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

func (s *TaskStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *TaskStore) All() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *TaskStore) Filter(filter TaskFilter) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Task, 0)
	for _, name := range s.order {
		task := s.tasks[name]
		if !filter.Matches(*task) {
			continue
		}
		out = append(out, task.Clone())
	}
	return out
}

func (s *TaskStore) Sorted(by SortKey, descending bool) ([]model.Task, error) {
	if !by.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, by)
	}
	s.mu.Lock()
	out := s.snapshot()
	s.mu.Unlock()

	slices.SortStableFunc(out, func(a, b model.Task) int {
		c := compareTasks(a, b, by)
		if descending {
			return -c
		}
		return c
	})
	return out, nil
}

func compareTasks(a, b model.Task, by SortKey) int {
	switch by {
	case SortByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case SortByDueAt:
		return dueOrMin(a).Compare(dueOrMin(b))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func dueOrMin(t model.Task) time.Time {
	if t.DueAt == nil {
		return time.Time{}
	}
	return *t.DueAt
}

func (s *TaskStore) Stats(name string) (model.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.lookup(name)
	if err != nil {
		return model.Stats{}, err
	}
	return task.Stats(), nil
}

func (s *TaskStore) snapshot() []model.Task {
	out := make([]model.Task, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tasks[name].Clone())
	}
	return out
}

var writeRecord = func(f *os.File, line []byte) (int, error) { return f.Write(line) }

func (s *TaskStore) appendTask(task model.Task) error {
	line, err := task.MarshalLine()
	if err != nil {
		return &StoreIOError{Op: "encode", Path: s.path, Err: err}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return &StoreIOError{Op: "append", Path: s.path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return &StoreIOError{Op: "append", Path: s.path, Err: err}
	}
	size := info.Size()
	// The last record may lack its newline.
	if size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			_ = f.Close()
			return &StoreIOError{Op: "append", Path: s.path, Err: err}
		}
		if last[0] != '\n' {
			line = append([]byte{'\n'}, line...)
		}
	}
	if _, err := writeRecord(f, line); err != nil {
		_ = f.Truncate(size)
		_ = f.Close()
		return &StoreIOError{Op: "append", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &StoreIOError{Op: "append", Path: s.path, Err: err}
	}
	return nil
}

func (s *TaskStore) rewrite() error {
	var buf bytes.Buffer
	for _, name := range s.order {
		line, err := s.tasks[name].MarshalLine()
		if err != nil {
			return &StoreIOError{Op: "encode", Path: s.path, Err: err}
		}
		buf.Write(line)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return &StoreIOError{Op: "rewrite", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &StoreIOError{Op: "rewrite", Path: s.path, Err: err}
	}
	return nil
}

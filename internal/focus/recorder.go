package focus

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

// TaskRecorder is the part of the task store the recorder writes to.
type TaskRecorder interface {
	RecordPomodoro(name string, durationSeconds int) (model.Task, error)
	Delete(name string) error
}

// Recorder credits finished work blocks to tasks and journals every finished
// phase in the session history. History is optional.
type Recorder struct {
	tasks   TaskRecorder
	history storage.SessionRepository
	logger  *log.Logger
	newID   func() string
}

func NewRecorder(tasks TaskRecorder, history storage.SessionRepository, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Recorder{
		tasks:   tasks,
		history: history,
		logger:  logger,
		newID:   uuid.NewString,
	}
}

// CompleteWork adds duration to the task and records the session. A history
// failure is logged; the task update stands.
func (r *Recorder) CompleteWork(ctx context.Context, taskName string, endedAt time.Time, duration time.Duration) (model.Task, error) {
	if duration <= 0 {
		duration = model.PomodoroSeconds * time.Second
	}
	task, err := r.tasks.RecordPomodoro(taskName, int(duration/time.Second))
	if err != nil {
		return model.Task{}, err
	}
	r.journal(ctx, storage.Session{
		TaskName:    task.Name,
		Kind:        storage.SessionKindWork,
		DurationSec: int(duration / time.Second),
		StartedAt:   endedAt.Add(-duration),
		EndedAt:     endedAt,
	})
	return task, nil
}

func (r *Recorder) CompleteBreak(ctx context.Context, phase Phase, endedAt time.Time, duration time.Duration) {
	kind := storage.SessionKindShortBreak
	if phase == PhaseLongBreak {
		kind = storage.SessionKindLongBreak
	}
	r.journal(ctx, storage.Session{
		Kind:        kind,
		DurationSec: int(duration / time.Second),
		StartedAt:   endedAt.Add(-duration),
		EndedAt:     endedAt,
	})
}

// DeleteTask removes the task, then its history.
func (r *Recorder) DeleteTask(ctx context.Context, name string) error {
	if err := r.tasks.Delete(name); err != nil {
		return err
	}
	if r.history == nil {
		return nil
	}
	if _, err := r.history.DeleteSessionsForTask(ctx, name); err != nil {
		r.logger.Printf("warning: task %q deleted but its history was kept: %v", name, err)
	}
	return nil
}

func (r *Recorder) journal(ctx context.Context, s storage.Session) {
	if r.history == nil {
		return
	}
	s.ID = r.newID()
	if err := r.history.CreateSession(ctx, s); err != nil {
		r.logger.Printf("warning: %s session not saved to history: %v", s.Kind, fmt.Errorf("create session: %w", err))
	}
}

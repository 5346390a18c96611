package storage

import (
	"fmt"
	"strings"
	"time"
)

type SessionKind string

const (
	SessionKindWork       SessionKind = "work"
	SessionKindShortBreak SessionKind = "short_break"
	SessionKindLongBreak  SessionKind = "long_break"
)

func (k SessionKind) IsValid() bool {
	switch k {
	case SessionKindWork, SessionKindShortBreak, SessionKindLongBreak:
		return true
	default:
		return false
	}
}

type Session struct {
	ID          string
	TaskName    string
	Kind        SessionKind
	DurationSec int
	StartedAt   time.Time
	EndedAt     time.Time
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("storage: session id is required")
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("storage: invalid session kind %q", s.Kind)
	}
	if s.Kind == SessionKindWork && strings.TrimSpace(s.TaskName) == "" {
		return fmt.Errorf("storage: work session requires a task name")
	}
	if s.DurationSec < 0 {
		return fmt.Errorf("storage: session duration must not be negative")
	}
	if s.EndedAt.Before(s.StartedAt) {
		return fmt.Errorf("storage: session ends before it starts")
	}
	return nil
}

type SessionListFilter struct {
	TaskName string
	Kind     SessionKind
	Since    *time.Time
	Limit    int
	Offset   int
}

type TaskTotal struct {
	TaskName    string
	Sessions    int
	DurationSec int
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	PomodoroSeconds = 25 * 60
	DefaultStatus   = "Pending"
	DefaultPriority = 1
)

var (
	ErrMalformedRecord = errors.New("model: malformed task record")
	ErrInvalidTarget   = errors.New("model: target pomodoros must not be negative")
)

type Task struct {
	Name               string
	AccumulatedSeconds int
	Status             string
	Priority           int
	CreatedAt          time.Time
	DueAt              *time.Time
	Tags               []string
	Subtasks           []json.RawMessage
	TargetPomodoros    int
}

// Options enumerates every optional attribute a new task accepts. Zero values
// mean "use the default".
type Options struct {
	Status          string
	Priority        int
	DueAt           *time.Time
	Tags            []string
	Subtasks        []json.RawMessage
	TargetPomodoros int
}

func (o Options) WithDefaults() Options {
	out := o
	if strings.TrimSpace(out.Status) == "" {
		out.Status = DefaultStatus
	}
	if out.Priority == 0 {
		out.Priority = DefaultPriority
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	if out.Subtasks == nil {
		out.Subtasks = []json.RawMessage{}
	}
	return out
}

func (o Options) Validate() error {
	if o.TargetPomodoros < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTarget, o.TargetPomodoros)
	}
	return nil
}

func NewTask(name string, opts Options, now time.Time) (Task, error) {
	if err := opts.Validate(); err != nil {
		return Task{}, err
	}
	opts = opts.WithDefaults()
	return Task{
		Name:            name,
		Status:          opts.Status,
		Priority:        opts.Priority,
		CreatedAt:       now,
		DueAt:           cloneTime(opts.DueAt),
		Tags:            slices.Clone(opts.Tags),
		Subtasks:        cloneRaw(opts.Subtasks),
		TargetPomodoros: opts.TargetPomodoros,
	}, nil
}

func (t Task) CompletedPomodoros() int {
	return t.AccumulatedSeconds / PomodoroSeconds
}

func (t Task) ProgressPercent() float64 {
	if t.TargetPomodoros <= 0 {
		return 0
	}
	return roundTo(float64(t.CompletedPomodoros())/float64(t.TargetPomodoros)*100, 1)
}

func (t Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

type Stats struct {
	Name               string
	TotalMinutes       int
	TotalHours         float64
	CompletedPomodoros int
	TargetPomodoros    int
	ProgressPercent    float64
}

func (t Task) Stats() Stats {
	return Stats{
		Name:               t.Name,
		TotalMinutes:       t.AccumulatedSeconds / 60,
		TotalHours:         roundTo(float64(t.AccumulatedSeconds)/3600, 2),
		CompletedPomodoros: t.CompletedPomodoros(),
		TargetPomodoros:    t.TargetPomodoros,
		ProgressPercent:    t.ProgressPercent(),
	}
}

func (t Task) Clone() Task {
	out := t
	out.DueAt = cloneTime(t.DueAt)
	out.Tags = slices.Clone(t.Tags)
	out.Subtasks = cloneRaw(t.Subtasks)
	return out
}

func (t Task) String() string {
	return fmt.Sprintf("[%d] %s (%s) - %d min", t.Priority, t.Name, t.Status, t.AccumulatedSeconds/60)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func cloneTime(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneRaw(in []json.RawMessage) []json.RawMessage {
	if in == nil {
		return nil
	}
	out := make([]json.RawMessage, len(in))
	for i, raw := range in {
		out[i] = slices.Clone(raw)
	}
	return out
}

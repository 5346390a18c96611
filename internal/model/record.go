package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const RecordTimeLayout = time.RFC3339Nano

// Older logs carry timestamps without an offset.
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

type Record struct {
	Name               string            `json:"name"`
	AccumulatedSeconds int               `json:"accumulated_seconds"`
	Status             string            `json:"status"`
	Priority           *int              `json:"priority"`
	CreatedAt          string            `json:"created_at"`
	DueAt              *string           `json:"due_at"`
	Tags               []string          `json:"tags"`
	Subtasks           []json.RawMessage `json:"subtasks"`
	TargetPomodoros    int               `json:"target_pomodoros"`
}

func (t Task) ToRecord() Record {
	priority := t.Priority
	rec := Record{
		Name:               t.Name,
		AccumulatedSeconds: t.AccumulatedSeconds,
		Status:             t.Status,
		Priority:           &priority,
		CreatedAt:          formatTime(t.CreatedAt),
		Tags:               t.Tags,
		Subtasks:           t.Subtasks,
		TargetPomodoros:    t.TargetPomodoros,
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	if rec.Subtasks == nil {
		rec.Subtasks = []json.RawMessage{}
	}
	if t.DueAt != nil {
		due := formatTime(*t.DueAt)
		rec.DueAt = &due
	}
	return rec
}

func FromRecord(rec Record) (Task, error) {
	if strings.TrimSpace(rec.Name) == "" {
		return Task{}, fmt.Errorf("%w: name is required", ErrMalformedRecord)
	}
	if strings.TrimSpace(rec.CreatedAt) == "" {
		return Task{}, fmt.Errorf("%w: %q has no created_at", ErrMalformedRecord, rec.Name)
	}
	created, err := ParseTime(rec.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("%w: %q created_at: %v", ErrMalformedRecord, rec.Name, err)
	}
	if rec.AccumulatedSeconds < 0 {
		return Task{}, fmt.Errorf("%w: %q has negative accumulated_seconds", ErrMalformedRecord, rec.Name)
	}
	if rec.TargetPomodoros < 0 {
		return Task{}, fmt.Errorf("%w: %q has negative target_pomodoros", ErrMalformedRecord, rec.Name)
	}

	opts := Options{
		Status:          rec.Status,
		Tags:            rec.Tags,
		Subtasks:        rec.Subtasks,
		TargetPomodoros: rec.TargetPomodoros,
	}
	if rec.Priority != nil {
		opts.Priority = *rec.Priority
	}
	if rec.DueAt != nil && strings.TrimSpace(*rec.DueAt) != "" {
		due, err := ParseTime(*rec.DueAt)
		if err != nil {
			return Task{}, fmt.Errorf("%w: %q due_at: %v", ErrMalformedRecord, rec.Name, err)
		}
		opts.DueAt = &due
	}

	task, err := NewTask(rec.Name, opts, created)
	if err != nil {
		return Task{}, err
	}
	// An explicit priority of 0 survives the round trip.
	if rec.Priority != nil {
		task.Priority = *rec.Priority
	}
	task.AccumulatedSeconds = rec.AccumulatedSeconds
	return task, nil
}

func (t Task) MarshalLine() ([]byte, error) {
	raw, err := json.Marshal(t.ToRecord())
	if err != nil {
		return nil, fmt.Errorf("encode task %q: %w", t.Name, err)
	}
	return append(raw, '\n'), nil
}

func ParseRecordLine(line []byte) (Task, error) {
	var rec Record
	dec := json.NewDecoder(bytes.NewReader(line))
	if err := dec.Decode(&rec); err != nil {
		return Task{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if dec.More() {
		return Task{}, fmt.Errorf("%w: trailing data after record", ErrMalformedRecord)
	}
	return FromRecord(rec)
}

func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	out, err := time.Parse(RecordTimeLayout, raw)
	if err == nil {
		return out, nil
	}
	for _, layout := range legacyTimeLayouts {
		if legacy, legacyErr := time.ParseInLocation(layout, raw, time.UTC); legacyErr == nil {
			return legacy, nil
		}
	}
	return time.Time{}, err
}

func formatTime(t time.Time) string {
	return t.Format(RecordTimeLayout)
}

package views

import (
	"fmt"
	"strings"
)

type TaskPanelData struct {
	ListView    string
	FilterLabel string
	SortLabel   string
	Empty       bool
}

type FocusPanelData struct {
	TaskName        string
	Phase           string
	Running         bool
	Timer           string
	ProgressView    string
	ProgressPct     int
	CompletedCycles int
	TaskPomodoros   int
	TaskTarget      int
}

type StatsPanelData struct {
	Name               string
	TotalMinutes       int
	TotalHours         float64
	CompletedPomodoros int
	TargetPomodoros    int
	ProgressPercent    float64
	Status             string
	Priority           int
	Tags               []string
	DueAt              string
	CreatedAt          string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(fmt.Sprintf("filter: %s | sort: %s\n", data.FilterLabel, data.SortLabel))
	b.WriteString("actions: [j/k]move [a]add [f]focus [s]stats [x]delete [/]command\n")
	if data.Empty {
		b.WriteString("(no tasks, press [a] to add one)")
		return b.String()
	}
	b.WriteString(data.ListView)
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskName != "" {
		b.WriteString(fmt.Sprintf("task: %s (%d/%d pomodoros)\n", data.TaskName, data.TaskPomodoros, data.TaskTarget))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	state := "paused"
	if data.Running {
		state = "running"
	}
	b.WriteString(fmt.Sprintf("phase: %s (%s)\n", strings.ToUpper(data.Phase), state))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("cycles this session: %d\n", data.CompletedCycles))
	b.WriteString("actions: [space]start/pause [r]reset [n]skip phase")
	return b.String()
}

// StatsMarkdown renders the task statistics as a markdown document for
// RenderMarkdown.
func StatsMarkdown(data StatsPanelData) string {
	if strings.TrimSpace(data.Name) == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", data.Name))
	b.WriteString("| metric | value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| pomodoros | %d of %d |\n", data.CompletedPomodoros, data.TargetPomodoros))
	b.WriteString(fmt.Sprintf("| progress | %.1f%% |\n", data.ProgressPercent))
	b.WriteString(fmt.Sprintf("| time invested | %d min (%.2f h) |\n", data.TotalMinutes, data.TotalHours))
	b.WriteString(fmt.Sprintf("| status | %s |\n", data.Status))
	b.WriteString(fmt.Sprintf("| priority | %d |\n", data.Priority))
	if len(data.Tags) > 0 {
		b.WriteString(fmt.Sprintf("| tags | %s |\n", strings.Join(data.Tags, ", ")))
	}
	if data.DueAt != "" {
		b.WriteString(fmt.Sprintf("| due | %s |\n", data.DueAt))
	}
	b.WriteString(fmt.Sprintf("| created | %s |\n", data.CreatedAt))
	return b.String()
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("\nhelp (%s view):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

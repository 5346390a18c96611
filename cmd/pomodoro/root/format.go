package root

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/views"
)

const dateLayout = "2006-01-02"

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printTasks(w io.Writer, title string, tasks []model.Task) error {
	fmt.Fprintln(w, headingStyle.Render(title))
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no tasks"))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tPRIORITY\tPOMODOROS\tMINUTES\tDUE\tTAGS")
	for _, task := range tasks {
		due := "-"
		if task.DueAt != nil {
			due = task.DueAt.Local().Format(dateLayout)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%d\t%s\t%s\n",
			task.Name,
			task.Status,
			task.Priority,
			task.CompletedPomodoros(),
			task.TargetPomodoros,
			task.AccumulatedSeconds/60,
			due,
			strings.Join(task.Tags, ","),
		)
	}
	return tw.Flush()
}

func printTask(w io.Writer, task model.Task) {
	fmt.Fprintln(w, headingStyle.Render(task.Name))
	fmt.Fprintf(w, "status:     %s\n", task.Status)
	fmt.Fprintf(w, "priority:   %d\n", task.Priority)
	fmt.Fprintf(w, "pomodoros:  %d/%d (%.1f%%)\n", task.CompletedPomodoros(), task.TargetPomodoros, task.ProgressPercent())
	fmt.Fprintf(w, "invested:   %d min\n", task.AccumulatedSeconds/60)
	fmt.Fprintf(w, "created at: %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if task.DueAt != nil {
		fmt.Fprintf(w, "due at:     %s\n", task.DueAt.Local().Format(dateLayout))
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "tags:       %s\n", strings.Join(task.Tags, ", "))
	}
	if len(task.Subtasks) > 0 {
		fmt.Fprintf(w, "subtasks:   %d\n", len(task.Subtasks))
	}
}

func statsMarkdown(task model.Task) string {
	stats := task.Stats()
	data := views.StatsPanelData{
		Name:               stats.Name,
		TotalMinutes:       stats.TotalMinutes,
		TotalHours:         stats.TotalHours,
		CompletedPomodoros: stats.CompletedPomodoros,
		TargetPomodoros:    stats.TargetPomodoros,
		ProgressPercent:    stats.ProgressPercent,
		Status:             task.Status,
		Priority:           task.Priority,
		Tags:               task.Tags,
		CreatedAt:          task.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
	if task.DueAt != nil {
		data.DueAt = task.DueAt.Local().Format(dateLayout)
	}
	return views.StatsMarkdown(data)
}

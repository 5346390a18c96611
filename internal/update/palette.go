package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/commands"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/views"
)

func (m Model) openPalette(prefill string) Model {
	m.Palette.Active = true
	m.Palette.Input = prefill
	m.commandInput.SetValue(prefill)
	m.commandInput.CursorEnd()
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active", IsError: false}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	ctx := context.Background()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.store.Add(a.Name, model.Options{
				Status:          a.Status,
				Priority:        a.Priority,
				DueAt:           a.DueAt,
				Tags:            a.Tags,
				TargetPomodoros: a.TargetPomodoros,
			})
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedTask = task.Name
			m.CurrentView = ViewTasks
			return commands.Result{Message: fmt.Sprintf("added task: %s", task.Name)}, nil
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			if err := m.recorder.DeleteTask(ctx, t.Name); err != nil {
				return commands.Result{}, err
			}
			if m.FocusTask == t.Name {
				m.FocusTask = ""
				m.Timer.Reset()
				m.tickSeq++
			}
			return commands.Result{Message: fmt.Sprintf("deleted task: %s", t.Name)}, nil
		},
		Stats: func(t commands.TargetArgs) (commands.Result, error) {
			stats, err := m.store.Stats(t.Name)
			if err != nil {
				return commands.Result{}, err
			}
			m.SelectedTask = stats.Name
			m.CurrentView = ViewStats
			return commands.Result{Message: fmt.Sprintf("%s: %d/%d pomodoros, %.1f%%",
				stats.Name, stats.CompletedPomodoros, stats.TargetPomodoros, stats.ProgressPercent)}, nil
		},
		Record: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.recorder.CompleteWork(ctx, t.Name, m.now().UTC(), 0)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("recorded pomodoro for %s (%d/%d)",
				task.Name, task.CompletedPomodoros(), task.TargetPomodoros)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.Filter = storage.TaskFilter{Status: f.Status, Tag: f.Tag}
			m.CurrentView = ViewTasks
			return commands.Result{Message: "filter: " + filterLabel(m.Filter)}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			key := storage.SortKey(s.By)
			if !key.IsValid() {
				return commands.Result{}, fmt.Errorf("%w: %q", storage.ErrInvalidSortKey, s.By)
			}
			m.Sort = SortState{Active: true, Key: key, Descending: s.Descending}
			m.CurrentView = ViewTasks
			return commands.Result{Message: "sort: " + sortLabel(m.Sort)}, nil
		},
	})
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
	}
	m.refreshTasks()
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

func filterLabel(f storage.TaskFilter) string {
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status="+f.Status)
	}
	if f.Tag != "" {
		parts = append(parts, "#"+f.Tag)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}

func sortLabel(s SortState) string {
	if !s.Active {
		return "insertion"
	}
	dir := "asc"
	if s.Descending {
		dir = "desc"
	}
	return fmt.Sprintf("%s %s", s.Key, dir)
}

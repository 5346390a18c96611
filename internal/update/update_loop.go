package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/views"
)

var sortCycle = []storage.SortKey{storage.SortByPriority, storage.SortByDueAt, storage.SortByCreatedAt}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case "/":
			return m.openPalette(""), nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			m.refreshTasks()
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.History:
			m.CurrentView = ViewHistory
			m.refreshHistory()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed)
		case ViewFocus:
			return m.handleFocusKey(typed)
		case ViewHistory:
			if typed.String() == "g" {
				m.refreshHistory()
			}
			return m, nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			switch typed.View {
			case ViewFocus:
				m.bootstrapFocusTask()
			case ViewHistory:
				m.refreshHistory()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick(typed)
	}

	return m, nil
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		m.syncSelectedTask()
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.syncSelectedTask()
	case "a":
		return m.openPalette("add "), nil
	case "f", "enter":
		if m.SelectedTask == "" {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m, nil
		}
		m.CurrentView = ViewFocus
		m.bootstrapFocusTask()
	case "s":
		m.CurrentView = ViewStats
	case "x":
		if m.SelectedTask == "" {
			return m, nil
		}
		m.Palette.Input = "delete " + m.SelectedTask
		return m.executePaletteCommand(), nil
	case "o":
		m.Sort = nextSort(m.Sort)
		m.refreshTasks()
		m.Status = StatusBar{Text: "sort: " + sortLabel(m.Sort), IsError: false}
	case "c":
		m.Filter = storage.TaskFilter{}
		m.refreshTasks()
		m.Status = StatusBar{Text: "filter cleared", IsError: false}
	}
	return m, nil
}

// nextSort steps insertion order -> each key descending -> insertion order.
func nextSort(s SortState) SortState {
	if !s.Active {
		return SortState{Active: true, Key: sortCycle[0], Descending: true}
	}
	for i, key := range sortCycle {
		if key == s.Key && i+1 < len(sortCycle) {
			return SortState{Active: true, Key: sortCycle[i+1], Descending: true}
		}
	}
	return SortState{Key: s.Key, Descending: s.Descending}
}

func (m *Model) alert(n Notification) {
	if strings.TrimSpace(n.Body) == "" || m.notifier == nil {
		return
	}
	if err := m.notifier.Send(n); err != nil {
		m.LastError = fmt.Errorf("send notification: %w", err)
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = views.RenderTaskPanel(views.TaskPanelData{
			ListView:    m.taskList.View(),
			FilterLabel: filterLabel(m.Filter),
			SortLabel:   sortLabel(m.Sort),
			Empty:       len(m.Tasks) == 0,
		})
	case ViewFocus:
		leftPane = m.renderFocusView()
	case ViewStats:
		leftPane = m.renderStatsView()
	case ViewHistory:
		leftPane = m.renderHistoryView()
	}
	rightPane := strings.TrimSpace(m.renderCommandPalette() + m.renderHelpIfVisible())

	timer := ""
	if m.Timer.Phase() != focus.PhaseIdle {
		timer = fmt.Sprintf(" | %s %s", m.Timer.Phase().Label(), focus.FormatClock(m.Timer.RemainingSeconds()))
	}
	return views.RenderApp(views.AppData{
		Tabs:       []string{string(ViewTasks), string(ViewFocus), string(ViewStats), string(ViewHistory)},
		ActiveTab:  string(m.CurrentView),
		Header:     fmt.Sprintf("pomodoro | selected: %s%s", m.SelectedTask, timer),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s tasks | %s focus | %s stats | %s history | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Focus, m.Keys.Stats, m.Keys.History, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderStatsMarkdown() string {
	if m.SelectedTask == "" {
		return ""
	}
	task, err := m.store.Get(m.SelectedTask)
	if err != nil {
		return ""
	}
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
		data.DueAt = task.DueAt.Local().Format("2006-01-02")
	}
	return views.RenderMarkdown(views.StatsMarkdown(data))
}

func (m Model) renderStatsView() string {
	if m.SelectedTask == "" {
		return "stats:\n(no task selected)"
	}
	return "stats:\n" + m.statsViewport.View()
}

func (m Model) renderHistoryView() string {
	if m.history == nil {
		return "history:\n(session history is disabled)"
	}
	if len(m.Totals) == 0 {
		return "history:\n(no finished pomodoros yet)"
	}
	return "history (work sessions per task):\n" + m.historyTable.View()
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewFocus, ViewStats, ViewHistory:
		return true
	default:
		return false
	}
}

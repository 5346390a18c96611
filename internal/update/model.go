package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/config"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/model"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/storage"
)

type View string

const (
	ViewTasks   View = "Tasks"
	ViewFocus   View = "Focus"
	ViewStats   View = "Stats"
	ViewHistory View = "History"
)

// TaskStore is the read side of the task store plus Add. Every other
// mutation goes through the SessionRecorder.
type TaskStore interface {
	Add(name string, opts model.Options) (model.Task, error)
	Get(name string) (model.Task, error)
	Filter(filter storage.TaskFilter) []model.Task
	Sorted(by storage.SortKey, descending bool) ([]model.Task, error)
	Stats(name string) (model.Stats, error)
	LoadErr() error
}

type SessionRecorder interface {
	CompleteWork(ctx context.Context, taskName string, endedAt time.Time, duration time.Duration) (model.Task, error)
	CompleteBreak(ctx context.Context, phase focus.Phase, endedAt time.Time, duration time.Duration)
	DeleteTask(ctx context.Context, name string) error
}

type HistoryReader interface {
	TotalsByTask(ctx context.Context, since *time.Time) ([]storage.TaskTotal, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks   string
	Focus   string
	Stats   string
	History string
	Help    string
	Quit    string
}

type SortState struct {
	Active     bool
	Key        storage.SortKey
	Descending bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView  View
	Tasks        []model.Task
	Cursor       int
	SelectedTask string
	Filter       storage.TaskFilter
	Sort         SortState
	Timer        *focus.Timer
	FocusTask    string
	Totals       []storage.TaskTotal
	Palette      CommandPaletteState
	HelpVisible  bool
	Status       StatusBar
	Keys         GlobalKeyMap
	Quitting     bool
	LastError    error

	store    TaskStore
	recorder SessionRecorder
	history  HistoryReader
	notifier Notifier
	now      func() time.Time
	tickSeq  int

	taskList      list.Model
	commandInput  textinput.Model
	focusProgress progress.Model
	helpModel     help.Model
	statsViewport viewport.Model
	historyTable  table.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// FocusTickMsg carries the tick chain it belongs to; ticks from a chain that
// was restarted are dropped.
type FocusTickMsg struct {
	Seq int
}

// NewModel builds the UI over store. recorder is required for focus and
// delete; history may be nil when the session history is disabled.
func NewModel(store TaskStore, recorder SessionRecorder, history HistoryReader, cfg config.RuntimeConfig, notifier Notifier) Model {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	m := Model{
		CurrentView: ViewTasks,
		Sort: SortState{
			Key:        storage.SortKey(cfg.DefaultSortKey),
			Descending: cfg.DefaultSortDescend,
		},
		Timer: focus.NewTimer(cfg.Durations()),
		Keys: GlobalKeyMap{
			Tasks:   "1",
			Focus:   "2",
			Stats:   "3",
			History: "4",
			Help:    "?",
			Quit:    "q",
		},
		store:    store,
		recorder: recorder,
		history:  history,
		notifier: notifier,
		now:      time.Now,
	}
	if !m.Sort.Key.IsValid() {
		m.Sort.Key = storage.SortByPriority
	}
	m.initBubbleComponents()
	m.refreshTasks()
	if err := store.LoadErr(); err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: fmt.Sprintf("tasks not loaded: %v", err), IsError: true}
	}
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 14)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.focusProgress = progress.New(progress.WithDefaultGradient())
	m.helpModel = help.New()
	m.statsViewport = viewport.New(56, 14)

	cols := []table.Column{
		{Title: "Task", Width: 26},
		{Title: "Sessions", Width: 9},
		{Title: "Minutes", Width: 9},
	}
	m.historyTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))
}

// refreshTasks reloads the visible task list from the store, applying the
// current sort and filter, and keeps the selection on the same task when it
// is still visible.
func (m *Model) refreshTasks() {
	var tasks []model.Task
	if m.Sort.Active {
		sorted, err := m.store.Sorted(m.Sort.Key, m.Sort.Descending)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			sorted = m.store.Filter(storage.TaskFilter{})
		}
		for _, task := range sorted {
			if m.Filter.Matches(task) {
				tasks = append(tasks, task)
			}
		}
	} else {
		tasks = m.store.Filter(m.Filter)
	}
	m.Tasks = tasks

	m.Cursor = 0
	for i, task := range tasks {
		if task.Name == m.SelectedTask {
			m.Cursor = i
			break
		}
	}
	m.syncSelectedTask()
}

func (m *Model) syncSelectedTask() {
	if len(m.Tasks) == 0 {
		m.Cursor = 0
		m.SelectedTask = ""
		return
	}
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTask = m.Tasks[m.Cursor].Name
}

func (m *Model) refreshHistory() {
	if m.history == nil {
		m.Totals = nil
		return
	}
	totals, err := m.history.TotalsByTask(context.Background(), nil)
	if err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("history unavailable: %v", err), IsError: true}
		return
	}
	m.Totals = totals
}

func (m *Model) syncBubbleData() {
	items := make([]list.Item, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		items = append(items, listItem{title: task.Name, description: taskDescription(task)})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	m.statsViewport.SetContent(m.renderStatsMarkdown())

	rows := make([]table.Row, 0, len(m.Totals))
	for _, total := range m.Totals {
		rows = append(rows, table.Row{total.TaskName, fmt.Sprintf("%d", total.Sessions), fmt.Sprintf("%d", total.DurationSec/60)})
	}
	m.historyTable.SetRows(rows)

	_ = m.focusProgress.SetPercent(m.Timer.Progress())
}

func taskDescription(task model.Task) string {
	parts := []string{
		task.Status,
		fmt.Sprintf("p%d", task.Priority),
		fmt.Sprintf("%d/%d pomodoros", task.CompletedPomodoros(), task.TargetPomodoros),
	}
	if task.DueAt != nil {
		parts = append(parts, "due "+task.DueAt.Local().Format("2006-01-02"))
	}
	if len(task.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(task.Tags, " #"))
	}
	return strings.Join(parts, " | ")
}

package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/focus"
	"github.com/LourdesGrandotti/Pomodoro-App-Informatorio/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Timer.Running() {
			m.Timer.Pause()
			m.Status = StatusBar{Text: "focus paused", IsError: false}
			return m, nil
		}
		if m.FocusTask == "" {
			m.Status = StatusBar{Text: "select a task before starting the timer", IsError: true}
			return m, nil
		}
		m.Timer.Start()
		m.tickSeq++
		m.Status = StatusBar{Text: fmt.Sprintf("%s running for %s", m.Timer.Phase().Label(), m.FocusTask), IsError: false}
		return m, focusTickCmd(m.tickSeq)
	case "r":
		m.Timer.Reset()
		m.tickSeq++
		m.Status = StatusBar{Text: "focus reset", IsError: false}
		return m, nil
	case "n":
		next := m.Timer.Skip()
		m.Status = StatusBar{Text: fmt.Sprintf("skipped to %s", next.Label()), IsError: false}
		return m, nil
	}
	return m, nil
}

func (m Model) onFocusTick(msg FocusTickMsg) (Model, tea.Cmd) {
	if msg.Seq != m.tickSeq || !m.Timer.Running() {
		return m, nil
	}
	if tr, ok := m.Timer.Tick(); ok {
		m.completePhase(tr)
	}
	if !m.Timer.Running() {
		return m, nil
	}
	return m, focusTickCmd(m.tickSeq)
}

// completePhase credits a finished work block to the focused task, or
// journals a finished break, then alerts the user.
func (m *Model) completePhase(tr focus.Transition) {
	ctx := context.Background()
	endedAt := m.now().UTC()
	if tr.Finished == focus.PhaseWork {
		task, err := m.recorder.CompleteWork(ctx, m.FocusTask, endedAt, tr.Duration)
		if err != nil {
			m.Timer.Pause()
			m.LastError = err
			m.Status = StatusBar{Text: fmt.Sprintf("record pomodoro for %q: %v", m.FocusTask, err), IsError: true}
			return
		}
		m.Status = StatusBar{
			Text: fmt.Sprintf("pomodoro %d/%d done for %s, %s next",
				task.CompletedPomodoros(), task.TargetPomodoros, task.Name, tr.Next.Label()),
		}
		m.refreshTasks()
	} else {
		m.recorder.CompleteBreak(ctx, tr.Finished, endedAt, tr.Duration)
		m.Status = StatusBar{Text: fmt.Sprintf("%s over, back to focus", tr.Finished.Label())}
	}
	m.alert(Notification{Title: "Pomodoro", Body: m.Status.Text})
}

// bootstrapFocusTask binds the timer to the selected task unless a block is
// already under way for another one.
func (m *Model) bootstrapFocusTask() {
	if m.SelectedTask == "" || m.SelectedTask == m.FocusTask {
		return
	}
	if m.FocusTask != "" && m.Timer.Phase() != focus.PhaseIdle {
		m.Status = StatusBar{Text: fmt.Sprintf("focus stays on %s until reset", m.FocusTask), IsError: false}
		return
	}
	m.FocusTask = m.SelectedTask
}

func (m Model) renderFocusView() string {
	progress := m.Timer.Progress()
	data := views.FocusPanelData{
		TaskName:        m.FocusTask,
		Phase:           m.Timer.Phase().Label(),
		Running:         m.Timer.Running(),
		Timer:           focus.FormatClock(m.Timer.RemainingSeconds()),
		ProgressView:    m.focusProgress.ViewAs(progress),
		ProgressPct:     int(progress * 100),
		CompletedCycles: m.Timer.CompletedCycles(),
	}
	if m.FocusTask != "" {
		if task, err := m.store.Get(m.FocusTask); err == nil {
			data.TaskPomodoros = task.CompletedPomodoros()
			data.TaskTarget = task.TargetPomodoros
		}
	}
	return views.RenderFocusPanel(data)
}

func focusTickCmd(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{Seq: seq} })
}

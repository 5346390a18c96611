package focus

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

func (p Phase) Label() string {
	switch p {
	case PhaseWork:
		return "Focus"
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	default:
		return "Ready"
	}
}

func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

type Durations struct {
	Work             time.Duration
	ShortBreak       time.Duration
	LongBreak        time.Duration
	CyclesBeforeLong int
}

func DefaultDurations() Durations {
	return Durations{
		Work:             25 * time.Minute,
		ShortBreak:       5 * time.Minute,
		LongBreak:        20 * time.Minute,
		CyclesBeforeLong: 4,
	}
}

func (d Durations) normalized() Durations {
	def := DefaultDurations()
	if d.Work <= 0 {
		d.Work = def.Work
	}
	if d.ShortBreak <= 0 {
		d.ShortBreak = def.ShortBreak
	}
	if d.LongBreak <= 0 {
		d.LongBreak = def.LongBreak
	}
	if d.CyclesBeforeLong <= 0 {
		d.CyclesBeforeLong = def.CyclesBeforeLong
	}
	return d
}

// Transition describes a phase that just ran out.
type Transition struct {
	Finished Phase
	Next     Phase
	Duration time.Duration
	Cycle    int
}

// Timer is a one-second-resolution pomodoro countdown. It holds no goroutines;
// callers drive it with Tick.
type Timer struct {
	durations    Durations
	phase        Phase
	remainingSec int
	running      bool
	completed    int
}

func NewTimer(d Durations) *Timer {
	t := &Timer{durations: d.normalized(), phase: PhaseIdle}
	t.remainingSec = t.totalFor(PhaseWork)
	return t
}

func (t *Timer) Phase() Phase          { return t.phase }
func (t *Timer) Running() bool         { return t.running }
func (t *Timer) CompletedCycles() int  { return t.completed }
func (t *Timer) Durations() Durations  { return t.durations }
func (t *Timer) RemainingSeconds() int { return t.remainingSec }

func (t *Timer) Remaining() time.Duration {
	return time.Duration(t.remainingSec) * time.Second
}

// Progress is the elapsed fraction of the current phase in [0, 1].
func (t *Timer) Progress() float64 {
	total := t.totalFor(t.phase)
	if total <= 0 {
		return 0
	}
	return float64(total-t.remainingSec) / float64(total)
}

func (t *Timer) Start() {
	if t.phase == PhaseIdle {
		t.phase = PhaseWork
		t.remainingSec = t.totalFor(PhaseWork)
	}
	if t.remainingSec <= 0 {
		t.remainingSec = t.totalFor(t.phase)
	}
	t.running = true
}

func (t *Timer) Pause() {
	t.running = false
}

func (t *Timer) Toggle() {
	if t.running {
		t.Pause()
		return
	}
	t.Start()
}

// Reset stops the countdown and returns to idle. Completed cycles are kept.
func (t *Timer) Reset() {
	t.running = false
	t.phase = PhaseIdle
	t.remainingSec = t.totalFor(PhaseWork)
}

// Tick advances one second. When the phase runs out the timer moves to the
// next phase, keeps running, and reports the transition.
func (t *Timer) Tick() (Transition, bool) {
	if !t.running {
		return Transition{}, false
	}
	if t.remainingSec > 0 {
		t.remainingSec--
	}
	if t.remainingSec > 0 {
		return Transition{}, false
	}
	return t.advance(), true
}

// Skip ends the current phase immediately without counting it as finished
// work.
func (t *Timer) Skip() Phase {
	switch t.phase {
	case PhaseWork:
		t.enter(t.breakAfter(t.completed))
	default:
		t.enter(PhaseWork)
	}
	return t.phase
}

func (t *Timer) advance() Transition {
	finished := t.phase
	tr := Transition{Finished: finished, Duration: time.Duration(t.totalFor(finished)) * time.Second}
	if finished == PhaseWork {
		t.completed++
		tr.Cycle = t.completed
		t.enter(t.breakAfter(t.completed))
	} else {
		t.enter(PhaseWork)
	}
	tr.Next = t.phase
	return tr
}

func (t *Timer) breakAfter(cycles int) Phase {
	if cycles > 0 && cycles%t.durations.CyclesBeforeLong == 0 {
		return PhaseLongBreak
	}
	return PhaseShortBreak
}

func (t *Timer) enter(p Phase) {
	t.phase = p
	t.remainingSec = t.totalFor(p)
}

func (t *Timer) totalFor(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return int(t.durations.ShortBreak / time.Second)
	case PhaseLongBreak:
		return int(t.durations.LongBreak / time.Second)
	default:
		return int(t.durations.Work / time.Second)
	}
}

func FormatClock(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSec/60, totalSec%60)
}

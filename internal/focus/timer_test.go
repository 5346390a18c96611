package focus

import (
	"testing"
	"time"
)

func shortDurations() Durations {
	return Durations{
		Work:             3 * time.Second,
		ShortBreak:       1 * time.Second,
		LongBreak:        2 * time.Second,
		CyclesBeforeLong: 2,
	}
}

func tickUntilTransition(t *testing.T, timer *Timer, limit int) Transition {
	t.Helper()
	for i := 0; i < limit; i++ {
		if tr, ok := timer.Tick(); ok {
			return tr
		}
	}
	t.Fatalf("no transition after %d ticks (phase %s, remaining %d)", limit, timer.Phase(), timer.RemainingSeconds())
	return Transition{}
}

func TestTimerDefaults(t *testing.T) {
	timer := NewTimer(Durations{})
	if timer.Phase() != PhaseIdle || timer.Running() {
		t.Fatalf("unexpected initial state: %s running=%v", timer.Phase(), timer.Running())
	}
	if timer.RemainingSeconds() != 25*60 {
		t.Fatalf("expected 25 minute work block, got %d", timer.RemainingSeconds())
	}
	if d := timer.Durations(); d.ShortBreak != 5*time.Minute || d.LongBreak != 20*time.Minute || d.CyclesBeforeLong != 4 {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if _, ok := timer.Tick(); ok || timer.RemainingSeconds() != 25*60 {
		t.Fatalf("idle timer must not count down")
	}
}

func TestTimerCycle(t *testing.T) {
	timer := NewTimer(shortDurations())
	timer.Start()
	if timer.Phase() != PhaseWork || !timer.Running() {
		t.Fatalf("expected running work phase, got %s", timer.Phase())
	}

	tr := tickUntilTransition(t, timer, 3)
	if tr.Finished != PhaseWork || tr.Next != PhaseShortBreak || tr.Cycle != 1 || tr.Duration != 3*time.Second {
		t.Fatalf("unexpected first transition: %+v", tr)
	}

	tr = tickUntilTransition(t, timer, 1)
	if tr.Finished != PhaseShortBreak || tr.Next != PhaseWork {
		t.Fatalf("unexpected break transition: %+v", tr)
	}

	tr = tickUntilTransition(t, timer, 3)
	if tr.Next != PhaseLongBreak || tr.Cycle != 2 {
		t.Fatalf("expected long break after second cycle: %+v", tr)
	}
	if timer.RemainingSeconds() != 2 || timer.CompletedCycles() != 2 {
		t.Fatalf("unexpected long break state: remaining=%d cycles=%d", timer.RemainingSeconds(), timer.CompletedCycles())
	}
}

func TestTimerPauseResetSkip(t *testing.T) {
	timer := NewTimer(shortDurations())
	timer.Toggle()
	timer.Tick()
	timer.Toggle()
	if timer.Running() || timer.RemainingSeconds() != 2 {
		t.Fatalf("expected paused at 2s, got running=%v remaining=%d", timer.Running(), timer.RemainingSeconds())
	}
	if _, ok := timer.Tick(); ok || timer.RemainingSeconds() != 2 {
		t.Fatalf("paused timer must not count down")
	}
	if p := timer.Progress(); p < 0.33 || p > 0.34 {
		t.Fatalf("unexpected progress: %v", p)
	}

	if next := timer.Skip(); next != PhaseShortBreak {
		t.Fatalf("expected skip to short break, got %s", next)
	}
	if timer.CompletedCycles() != 0 {
		t.Fatalf("skip must not count a cycle")
	}

	timer.Reset()
	if timer.Phase() != PhaseIdle || timer.Running() || timer.RemainingSeconds() != 3 {
		t.Fatalf("unexpected reset state: %s %v %d", timer.Phase(), timer.Running(), timer.RemainingSeconds())
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{-5: "00:00", 0: "00:00", 59: "00:59", 1500: "25:00", 3661: "61:01"}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d): want %q, got %q", in, want, got)
		}
	}
}

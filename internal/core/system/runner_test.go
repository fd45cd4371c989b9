package system

import (
	"testing"
	"time"
)

type recorder struct {
	phase Phase
	name  string
	trace *[]string
}

func (r recorder) Phase() Phase           { return r.phase }
func (r recorder) Update(_ time.Duration) { *r.trace = append(*r.trace, r.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(recorder{PhaseCleanup, "cleanup", &trace})
	r.Register(recorder{PhaseUpdate, "liquid", &trace})
	r.Register(recorder{PhaseInput, "feed", &trace})
	r.Register(recorder{PhaseInput, "input", &trace})
	r.Register(recorder{PhasePreUpdate, "neighbor", &trace})

	r.Tick(50 * time.Millisecond)
	want := []string{"feed", "input", "neighbor", "liquid", "cleanup"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
	if r.Ticks() != 1 {
		t.Errorf("Ticks = %d", r.Ticks())
	}

	trace = trace[:0]
	r.TickPhase(PhaseInput, 0)
	if len(trace) != 2 || r.Ticks() != 1 {
		t.Errorf("TickPhase ran %v, ticks %d", trace, r.Ticks())
	}
}

type sleeper struct {
	phase Phase
	clock *time.Time
	cost  time.Duration
}

func (s sleeper) Phase() Phase           { return s.phase }
func (s sleeper) Update(_ time.Duration) { *s.clock = s.clock.Add(s.cost) }

func TestRunnerPhaseTiming(t *testing.T) {
	clock := time.Unix(0, 0)
	r := NewRunner()
	r.now = func() time.Time { return clock }
	r.Register(sleeper{PhaseUpdate, &clock, 7 * time.Millisecond})
	r.Register(sleeper{PhaseInput, &clock, time.Millisecond})
	r.Register(sleeper{PhaseUpdate, &clock, 2 * time.Millisecond})

	r.Tick(0)
	if got := r.PhaseTime(PhaseUpdate); got != 9*time.Millisecond {
		t.Errorf("update phase = %v", got)
	}
	if got := r.PhaseTime(PhaseInput); got != time.Millisecond {
		t.Errorf("input phase = %v", got)
	}
	if got := r.LastTick(); got != 10*time.Millisecond {
		t.Errorf("LastTick = %v", got)
	}
	if p, d := r.Slowest(); p != PhaseUpdate || d != 9*time.Millisecond {
		t.Errorf("Slowest = %v %v", p, d)
	}
	if r.PhaseTime(Phase(99)) != 0 {
		t.Error("out of range phase should report zero")
	}
}

func TestPhaseString(t *testing.T) {
	if PhasePostUpdate.String() != "post_update" || Phase(42).String() != "phase(42)" {
		t.Errorf("got %q %q", PhasePostUpdate.String(), Phase(42).String())
	}
}

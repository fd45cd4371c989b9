package system

import (
	"sort"
	"time"
)

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order. The wall time of each phase in the last full
// tick is kept for load reporting.
type Runner struct {
	systems []System
	sorted  bool
	ticks   int64

	lastTick  time.Duration
	phaseTime [phaseCount]time.Duration
	now       func() time.Time
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 8),
		now:     time.Now,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every system once.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	r.phaseTime = [phaseCount]time.Duration{}
	start := r.now()
	mark := start
	for _, s := range r.systems {
		s.Update(dt)
		end := r.now()
		if p := s.Phase(); p >= 0 && p < phaseCount {
			r.phaseTime[p] += end.Sub(mark)
		}
		mark = end
	}
	r.lastTick = mark.Sub(start)
	r.ticks++
}

// TickPhase runs only the systems of one phase, without counting a tick.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(dt)
		}
	}
}

// Ticks returns the number of full ticks run.
func (r *Runner) Ticks() int64 { return r.ticks }

// LastTick returns how long the last full tick took.
func (r *Runner) LastTick() time.Duration { return r.lastTick }

// PhaseTime returns the time spent in phase during the last full tick.
func (r *Runner) PhaseTime(p Phase) time.Duration {
	if p < 0 || p >= phaseCount {
		return 0
	}
	return r.phaseTime[p]
}

// Slowest returns the phase that took longest in the last full tick.
func (r *Runner) Slowest() (Phase, time.Duration) {
	best := PhaseInput
	for p := PhaseInput; p < phaseCount; p++ {
		if r.phaseTime[p] > r.phaseTime[best] {
			best = p
		}
	}
	return best, r.phaseTime[best]
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}

package world

import "container/heap"

// ScheduledUpdate is a pending delayed block update.
type ScheduledUpdate struct {
	Pos Pos
	Due int64
	seq uint64
}

type updateHeap []*ScheduledUpdate

func (h updateHeap) Len() int { return len(h) }
func (h updateHeap) Less(i, j int) bool {
	if h[i].Due != h[j].Due {
		return h[i].Due < h[j].Due
	}
	return h[i].seq < h[j].seq
}
func (h updateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *updateHeap) Push(x any)   { *h = append(*h, x.(*ScheduledUpdate)) }
func (h *updateHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Scheduler delivers delayed block updates on a tick counter. Each position
// holds at most one pending update; a request for a later tick than the one
// already pending is dropped. Updates due on the same tick fire in the order
// they were scheduled.
type Scheduler struct {
	tick    int64
	seq     uint64
	queue   updateHeap
	pending map[Pos]*ScheduledUpdate
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:   make(updateHeap, 0, 256),
		pending: make(map[Pos]*ScheduledUpdate, 256),
	}
}

// CurrentTick returns the scheduler's tick counter.
func (s *Scheduler) CurrentTick() int64 { return s.tick }

// Len returns the number of pending updates.
func (s *Scheduler) Len() int { return len(s.pending) }

// Pending reports whether p has an update queued, and when it is due.
func (s *Scheduler) Pending(p Pos) (int64, bool) {
	u, ok := s.pending[p]
	if !ok {
		return 0, false
	}
	return u.Due, true
}

// ScheduleDelayedUpdate queues an update for p delay ticks from now.
// Delays below one tick are rounded up so an update never fires in the tick
// that scheduled it.
func (s *Scheduler) ScheduleDelayedUpdate(p Pos, delay int) {
	if delay < 1 {
		delay = 1
	}
	due := s.tick + int64(delay)
	if u, ok := s.pending[p]; ok {
		if u.Due <= due {
			return
		}
		u.Due = due
		s.seq++
		u.seq = s.seq
		heap.Fix(&s.queue, s.index(u))
		return
	}
	s.seq++
	u := &ScheduledUpdate{Pos: p, Due: due, seq: s.seq}
	s.pending[p] = u
	heap.Push(&s.queue, u)
}

func (s *Scheduler) index(u *ScheduledUpdate) int {
	for i, it := range s.queue {
		if it == u {
			return i
		}
	}
	return -1
}

// Advance moves the tick counter forward by one.
func (s *Scheduler) Advance() int64 {
	s.tick++
	return s.tick
}

// RunDue pops every update due at or before the current tick and passes its
// position to fn. Updates scheduled by fn for the current tick are not run
// until the next call. limit <= 0 means no limit; the count run is returned.
func (s *Scheduler) RunDue(limit int, fn func(Pos)) int {
	batch := s.popDue(limit)
	for _, p := range batch {
		fn(p)
	}
	return len(batch)
}

func (s *Scheduler) popDue(limit int) []Pos {
	var out []Pos
	for len(s.queue) > 0 && s.queue[0].Due <= s.tick {
		if limit > 0 && len(out) >= limit {
			break
		}
		u := heap.Pop(&s.queue).(*ScheduledUpdate)
		delete(s.pending, u.Pos)
		out = append(out, u.Pos)
	}
	return out
}

// Snapshot returns pending updates as (pos, remaining delay) in firing order.
func (s *Scheduler) Snapshot() []ScheduledUpdate {
	cp := make(updateHeap, len(s.queue))
	copy(cp, s.queue)
	out := make([]ScheduledUpdate, 0, len(cp))
	for cp.Len() > 0 {
		u := heap.Pop(&cp).(*ScheduledUpdate)
		out = append(out, ScheduledUpdate{Pos: u.Pos, Due: u.Due - s.tick})
	}
	return out
}

// Restore re-queues updates captured by Snapshot, relative to the current tick.
func (s *Scheduler) Restore(updates []ScheduledUpdate) {
	for _, u := range updates {
		s.ScheduleDelayedUpdate(u.Pos, int(u.Due))
	}
}

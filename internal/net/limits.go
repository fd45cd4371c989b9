package net

import "time"

// Limits bounds what one watcher connection may queue and send.
type Limits struct {
	InQueue       int // packets waiting for the game loop
	OutQueue      int // packets waiting for the writer
	PacketsPerSec int // 0 = unlimited
}

// rateWindow counts packets in one-second windows.
type rateWindow struct {
	limit int
	count int
	start int64 // unix second the window opened
}

// allow records one packet at now and reports whether it is within the limit.
func (w *rateWindow) allow(now time.Time) bool {
	if w.limit <= 0 {
		return true
	}
	if sec := now.Unix(); sec != w.start {
		w.start = sec
		w.count = 0
	}
	w.count++
	return w.count <= w.limit
}

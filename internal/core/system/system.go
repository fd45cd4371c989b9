package system

import (
	"fmt"
	"time"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: external placements and edits
	PhasePreUpdate               // 1: deliver last tick's grid events
	PhaseUpdate                  // 2: scheduled block updates
	PhasePostUpdate              // 3: physics against the settled grid
	PhaseOutput                  // 4: broadcast grid changes
	PhasePersist                 // 5: periodic save
	PhaseCleanup                 // 6: destroy queued entities

	phaseCount
)

var phaseNames = [phaseCount]string{"input", "pre_update", "update", "post_update", "output", "persist", "cleanup"}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// System is the unit of per-tick work the Runner drives.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

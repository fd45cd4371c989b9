package liquid

import "github.com/voxelflow/server/internal/world"

// Variant is the per-liquid behaviour surface.
type Variant interface {
	Name() string
	TickRate() int
	LevelLossPerBlock() int
	// InfiniteSource enables the two-adjacent-sources regeneration rule.
	InfiniteSource() bool
	// SolidifyBelow returns the state to write into the cell below instead
	// of flowing down, if contact with it reacts.
	SolidifyBelow(below world.Block) (world.State, bool)
	// Harden returns the state self turns into given its six neighbours
	// indexed by world.Side. It runs after every flow check and on
	// neighbour changes; it must not schedule anything.
	Harden(self world.Block, sides [6]world.Block) (world.State, bool)
}

// HardenFunc is a replaceable harden hook, e.g. a script.
type HardenFunc func(self world.Block, sides [6]world.Block) (world.State, bool)

// Contact turns the touched cell into Into when its type id is With.
type Contact struct {
	With uint16
	Into world.State
}

// HardenStep applies when self's raw decay is at most MaxDecay.
type HardenStep struct {
	MaxDecay int
	Into     world.State
}

// HardenRule hardens self when any side other than down holds With.
// Steps are tried in order; the first match wins.
type HardenRule struct {
	With  uint16
	Steps []HardenStep
}

// Standard is the data-driven Variant. The zero value of its optional
// fields gives the default behaviour: no contact reactions.
type Standard struct {
	Label     string
	Rate      int
	LevelLoss int
	Infinite  bool
	Below     *Contact
	Rule      *HardenRule
	// Hook, when set, overrides Rule.
	Hook HardenFunc
}

func (v *Standard) Name() string { return v.Label }

func (v *Standard) TickRate() int {
	if v.Rate < 1 {
		return 1
	}
	return v.Rate
}

func (v *Standard) LevelLossPerBlock() int {
	if v.LevelLoss < 1 {
		return 1
	}
	return v.LevelLoss
}

func (v *Standard) InfiniteSource() bool { return v.Infinite }

func (v *Standard) SolidifyBelow(below world.Block) (world.State, bool) {
	if v.Below == nil || below.State.ID != v.Below.With {
		return world.State{}, false
	}
	return v.Below.Into, true
}

func (v *Standard) Harden(self world.Block, sides [6]world.Block) (world.State, bool) {
	if v.Hook != nil {
		return v.Hook(self, sides)
	}
	if v.Rule == nil {
		return world.State{}, false
	}
	touching := false
	for _, s := range world.Sides {
		if s == world.SideDown {
			continue
		}
		if sides[s].State.ID == v.Rule.With {
			touching = true
			break
		}
	}
	if !touching {
		return world.State{}, false
	}
	d := int(self.State.Meta & world.MetaMask)
	for _, step := range v.Rule.Steps {
		if d <= step.MaxDecay {
			return step.Into, true
		}
	}
	return world.State{}, false
}

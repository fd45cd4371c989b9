package liquid

import "github.com/voxelflow/server/internal/world"

const (
	// NotThisLiquid is returned by the decay lookups when the cell holds
	// anything other than this liquid. It is an expected outcome, not an error.
	NotThisLiquid = -1

	// FallingBit marks a vertical stream; the low three bits keep the level.
	FallingBit = 0x8

	levelMask = 0x7
)

// CellState classifies a liquid cell.
type CellState uint8

const (
	Removed CellState = iota
	Source
	Flowing
	Falling
)

func (s CellState) String() string {
	switch s {
	case Source:
		return "source"
	case Flowing:
		return "flowing"
	case Falling:
		return "falling"
	}
	return "removed"
}

// DecayOf returns the raw decay stored in b, falling bit included, or
// NotThisLiquid.
func (l *Liquid) DecayOf(b world.Block) int {
	if b.State.ID != l.id {
		return NotThisLiquid
	}
	return int(b.State.Meta & world.MetaMask)
}

// EffectiveDecayOf is DecayOf with falling streams normalised to 0.
func (l *Liquid) EffectiveDecayOf(b world.Block) int {
	return effective(l.DecayOf(b))
}

// StateOf classifies b relative to this liquid.
func (l *Liquid) StateOf(b world.Block) CellState {
	d := l.DecayOf(b)
	switch {
	case d < 0:
		return Removed
	case d == 0:
		return Source
	case d&FallingBit != 0:
		return Falling
	}
	return Flowing
}

func effective(d int) int {
	if d >= FallingBit {
		return 0
	}
	return d
}

// Level returns the spread level of a raw decay, dropping the falling bit.
func Level(decay int) int { return decay & levelMask }

// IsFalling reports whether a raw decay carries the falling marker.
func IsFalling(decay int) bool { return decay >= 0 && decay&FallingBit != 0 }

// FluidHeightPercent is the empty fraction of a cell above the surface of a
// liquid holding meta. Falling streams count as sources.
func FluidHeightPercent(meta uint8) float64 {
	d := int(meta & world.MetaMask)
	if d >= FallingBit {
		d = 0
	}
	return float64(d+1) / 9
}

package world

// MetaMask bounds the metadata nibble stored per cell.
const MetaMask = 0x0f

// AirID is the type id of the empty block. The registry must define it.
const AirID uint16 = 0

// State is the raw (type id, meta) pair stored per cell.
type State struct {
	ID   uint16
	Meta uint8
}

// Air is the zero state.
var Air = State{ID: AirID}

// BlockType holds the static properties of a block type id.
type BlockType struct {
	ID       uint16
	Name     string
	Solid    bool // full collision box; liquids regenerate on top of it
	Flowable bool // liquids may flow into the cell
	Liquid   bool
	Hardness float64
}

// Block is a resolved view of one grid cell.
type Block struct {
	Pos   Pos
	State State
	Type  *BlockType
}

// IsAir reports whether the cell holds nothing.
func (b Block) IsAir() bool { return b.State.ID == AirID }

// CanBeFlowedInto reports whether a liquid may occupy the cell.
func (b Block) CanBeFlowedInto() bool {
	return b.Type != nil && b.Type.Flowable
}

// IsSolid reports whether the cell has a full collision box.
func (b Block) IsSolid() bool {
	return b.Type != nil && b.Type.Solid
}

// IsLiquid reports whether the cell holds any liquid type.
func (b Block) IsLiquid() bool {
	return b.Type != nil && b.Type.Liquid
}

// Registry resolves type ids and names to block types.
type Registry interface {
	Type(id uint16) *BlockType
	Lookup(name string) (*BlockType, bool)
}

package world

// Grid events travel on the core event bus and are delivered one tick after
// the mutation that produced them.

// NeighborChanged tells the block at Pos that it, or a block next to it,
// changed. Source is the cell that was written.
type NeighborChanged struct {
	Pos    Pos
	Source Pos
}

// BlockBroken is emitted when a block is destroyed to make room for another
// one. Drop handling belongs to whoever subscribes.
type BlockBroken struct {
	Pos   Pos
	State State
}

package world

import (
	"sort"

	"github.com/voxelflow/server/internal/core/event"
)

// Change is a cell write flagged for broadcast to viewers.
type Change struct {
	Pos   Pos
	State State
}

// Grid is the block store of one world: sparse 16³ chunks between MinY and
// MaxY. Cells outside the vertical bounds read as air and ignore writes.
// Accessed only from the game loop goroutine, no locks.
type Grid struct {
	reg        Registry
	bus        *event.Bus
	minY, maxY int32

	chunks   map[ChunkPos]*chunk
	dirty    map[ChunkPos]struct{}
	changes  []Change
	revision uint64
}

// NewGrid creates an empty grid. bus may be nil, in which case no neighbour
// or break events are emitted.
func NewGrid(reg Registry, bus *event.Bus, minY, maxY int32) *Grid {
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	return &Grid{
		reg:    reg,
		bus:    bus,
		minY:   minY,
		maxY:   maxY,
		chunks: make(map[ChunkPos]*chunk, 64),
		dirty:  make(map[ChunkPos]struct{}),
	}
}

// Registry returns the block type registry the grid resolves against.
func (g *Grid) Registry() Registry { return g.reg }

// Bounds returns the inclusive vertical range.
func (g *Grid) Bounds() (minY, maxY int32) { return g.minY, g.maxY }

// InBounds reports whether p lies within the vertical range.
func (g *Grid) InBounds(p Pos) bool {
	return p.Y >= g.minY && p.Y <= g.maxY
}

// State returns the raw state at p.
func (g *Grid) State(p Pos) State {
	if !g.InBounds(p) {
		return Air
	}
	c := g.chunks[ChunkOf(p)]
	if c == nil {
		return Air
	}
	return c.get(cellIndex(p))
}

// BlockAt resolves the cell at p against the registry.
func (g *Grid) BlockAt(p Pos) Block {
	s := g.State(p)
	return Block{Pos: p, State: s, Type: g.reg.Type(s.ID)}
}

// SetBlock writes s at p. Meta is masked to four bits. With updateNeighbors
// the cell and its six neighbours receive a NeighborChanged event next tick;
// with network the write is queued for viewers. Writing an identical state
// is still treated as a change so scheduled re-evaluation stays consistent.
func (g *Grid) SetBlock(p Pos, s State, updateNeighbors, network bool) bool {
	if !g.InBounds(p) {
		return false
	}
	s.Meta &= MetaMask
	cp := ChunkOf(p)
	c := g.chunks[cp]
	if c == nil && s.ID != AirID {
		c = &chunk{}
		g.chunks[cp] = c
	}
	if c != nil {
		c.set(cellIndex(p), s)
		if c.blocks == 0 {
			delete(g.chunks, cp)
		}
	}
	g.dirty[cp] = struct{}{}
	g.revision++

	if network {
		g.changes = append(g.changes, Change{Pos: p, State: s})
	}
	if updateNeighbors && g.bus != nil {
		event.Emit(g.bus, NeighborChanged{Pos: p, Source: p})
		for _, side := range Sides {
			event.Emit(g.bus, NeighborChanged{Pos: p.Side(side), Source: p})
		}
	}
	return true
}

// BreakBlock destroys the block at p, leaving air. Drops are left to
// BlockBroken subscribers.
func (g *Grid) BreakBlock(p Pos) {
	old := g.State(p)
	if old.ID == AirID {
		return
	}
	if !g.SetBlock(p, Air, true, true) {
		return
	}
	if g.bus != nil {
		event.Emit(g.bus, BlockBroken{Pos: p, State: old})
	}
}

// Fill writes s into every cell of the inclusive box between a and b.
func (g *Grid) Fill(a, b Pos, s State, updateNeighbors bool) int {
	lo := Pos{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
	hi := Pos{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
	n := 0
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				if g.SetBlock(Pos{x, y, z}, s, updateNeighbors, false) {
					n++
				}
			}
		}
	}
	return n
}

// Revision increments on every successful write. Caches keyed on it are
// valid until the grid changes.
func (g *Grid) Revision() uint64 { return g.revision }

// DrainChanges returns and clears the writes flagged for broadcast.
func (g *Grid) DrainChanges() []Change {
	out := g.changes
	g.changes = nil
	return out
}

// ChunkCount returns the number of non-empty chunks held in memory.
func (g *Grid) ChunkCount() int { return len(g.chunks) }

// DirtyChunks returns chunks written since the last ClearDirty, sorted for
// stable persistence order.
func (g *Grid) DirtyChunks() []ChunkPos {
	out := make([]ChunkPos, 0, len(g.dirty))
	for cp := range g.dirty {
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

// ClearDirty forgets the given chunks' dirty flags.
func (g *Grid) ClearDirty(cps []ChunkPos) {
	for _, cp := range cps {
		delete(g.dirty, cp)
	}
}

// ExportChunk encodes the chunk at cp. An absent chunk encodes as nil,
// meaning all air.
func (g *Grid) ExportChunk(cp ChunkPos) []byte {
	c := g.chunks[cp]
	if c == nil {
		return nil
	}
	return c.encode()
}

// ImportChunk replaces the chunk at cp with decoded data without emitting
// events. A nil buffer clears the chunk.
func (g *Grid) ImportChunk(cp ChunkPos, data []byte) error {
	if data == nil {
		delete(g.chunks, cp)
		g.revision++
		return nil
	}
	c, err := decodeChunk(data)
	if err != nil {
		return err
	}
	if c.blocks == 0 {
		delete(g.chunks, cp)
	} else {
		g.chunks[cp] = c
	}
	g.revision++
	return nil
}

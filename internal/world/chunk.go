package world

import (
	"encoding/binary"
	"fmt"
)

const (
	chunkShift = 4
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
	chunkCells = chunkSize * chunkSize * chunkSize

	// ChunkDataLen is the length of an encoded chunk: ids (uint16 LE) then metas.
	ChunkDataLen = chunkCells*2 + chunkCells
)

// ChunkPos addresses a 16x16x16 section of the grid.
type ChunkPos struct {
	X, Y, Z int32
}

func toChunkCoord(v int32) int32 {
	return v >> chunkShift // arithmetic shift floors negatives
}

// ChunkOf returns the chunk holding p.
func ChunkOf(p Pos) ChunkPos {
	return ChunkPos{toChunkCoord(p.X), toChunkCoord(p.Y), toChunkCoord(p.Z)}
}

func cellIndex(p Pos) int {
	return int(p.X&chunkMask)<<8 | int(p.Z&chunkMask)<<4 | int(p.Y&chunkMask)
}

// chunk stores block states in flat arrays, x-major then z then y.
type chunk struct {
	ids    [chunkCells]uint16
	metas  [chunkCells]uint8
	blocks int // non-air cells; a chunk with zero may be dropped
}

func (c *chunk) get(i int) State {
	return State{ID: c.ids[i], Meta: c.metas[i]}
}

func (c *chunk) set(i int, s State) {
	was := c.ids[i] != AirID
	now := s.ID != AirID
	switch {
	case now && !was:
		c.blocks++
	case was && !now:
		c.blocks--
	}
	c.ids[i] = s.ID
	c.metas[i] = s.Meta & MetaMask
}

func (c *chunk) encode() []byte {
	buf := make([]byte, ChunkDataLen)
	for i, id := range c.ids {
		binary.LittleEndian.PutUint16(buf[i*2:], id)
	}
	copy(buf[chunkCells*2:], c.metas[:])
	return buf
}

func decodeChunk(buf []byte) (*chunk, error) {
	if len(buf) != ChunkDataLen {
		return nil, fmt.Errorf("chunk data: want %d bytes, got %d", ChunkDataLen, len(buf))
	}
	c := &chunk{}
	for i := range c.ids {
		c.set(i, State{
			ID:   binary.LittleEndian.Uint16(buf[i*2:]),
			Meta: buf[chunkCells*2+i],
		})
	}
	return c, nil
}

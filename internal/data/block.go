package data

import (
	"fmt"
	"os"
	"sort"

	"github.com/voxelflow/server/internal/world"
	"gopkg.in/yaml.v3"
)

// BlockEntry is one block type as written in block_list.yaml.
type BlockEntry struct {
	ID       uint16  `yaml:"id"`
	Name     string  `yaml:"name"`
	Solid    bool    `yaml:"solid"`
	Flowable bool    `yaml:"flowable"` // liquids may replace it
	Liquid   bool    `yaml:"liquid"`
	Hardness float64 `yaml:"hardness"`
	Glyph    string  `yaml:"glyph"` // viewer rune
	Color    string  `yaml:"color"` // viewer colour name or #rrggbb
}

// BlockTable indexes block types by id and name. It implements world.Registry.
type BlockTable struct {
	byID    map[uint16]*world.BlockType
	byName  map[string]*world.BlockType
	entries map[uint16]*BlockEntry
	unknown *world.BlockType
}

type blockListFile struct {
	Blocks []BlockEntry `yaml:"blocks"`
}

// LoadBlockTable loads block_list.yaml.
func LoadBlockTable(path string) (*BlockTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block list %s: %w", path, err)
	}
	return ParseBlockTable(raw)
}

// ParseBlockTable builds a table from YAML bytes. Id 0 must be air.
func ParseBlockTable(raw []byte) (*BlockTable, error) {
	var f blockListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse block list: %w", err)
	}
	t := &BlockTable{
		byID:    make(map[uint16]*world.BlockType, len(f.Blocks)),
		byName:  make(map[string]*world.BlockType, len(f.Blocks)),
		entries: make(map[uint16]*BlockEntry, len(f.Blocks)),
		// unknown ids behave like an unbreakable wall
		unknown: &world.BlockType{ID: 0xffff, Name: "unknown", Solid: true},
	}
	for i := range f.Blocks {
		e := &f.Blocks[i]
		if e.Name == "" {
			return nil, fmt.Errorf("block %d: missing name", e.ID)
		}
		if _, dup := t.byID[e.ID]; dup {
			return nil, fmt.Errorf("block %d: duplicate id", e.ID)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("block %q: duplicate name", e.Name)
		}
		bt := &world.BlockType{
			ID:       e.ID,
			Name:     e.Name,
			Solid:    e.Solid,
			Flowable: e.Flowable || e.Liquid,
			Liquid:   e.Liquid,
			Hardness: e.Hardness,
		}
		t.byID[e.ID] = bt
		t.byName[e.Name] = bt
		t.entries[e.ID] = e
	}
	air, ok := t.byID[world.AirID]
	if !ok {
		return nil, fmt.Errorf("block list: id %d (air) not defined", world.AirID)
	}
	if air.Solid || !air.Flowable {
		return nil, fmt.Errorf("block list: air must be non-solid and flowable")
	}
	return t, nil
}

// Type returns the block type for id. Undefined ids resolve to a solid
// placeholder so they stop liquids.
func (t *BlockTable) Type(id uint16) *world.BlockType {
	if bt, ok := t.byID[id]; ok {
		return bt
	}
	return t.unknown
}

// Lookup returns the block type called name.
func (t *BlockTable) Lookup(name string) (*world.BlockType, bool) {
	bt, ok := t.byName[name]
	return bt, ok
}

// State returns the zero-meta state for name.
func (t *BlockTable) State(name string) (world.State, error) {
	bt, ok := t.byName[name]
	if !ok {
		return world.State{}, fmt.Errorf("unknown block %q", name)
	}
	return world.State{ID: bt.ID}, nil
}

// Entry returns the raw YAML entry for id, or nil.
func (t *BlockTable) Entry(id uint16) *BlockEntry {
	return t.entries[id]
}

// Entries returns every raw entry in id order.
func (t *BlockTable) Entries() []*BlockEntry {
	out := make([]*BlockEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of block types loaded.
func (t *BlockTable) Count() int {
	return len(t.byID)
}

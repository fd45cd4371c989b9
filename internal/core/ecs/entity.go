package ecs

// EntityID packs a slot index (low 32 bits) with the slot's generation
// (high 32 bits). Destroying an entity bumps the generation, so old ids
// stop resolving. The zero id is never issued.
type EntityID uint64

func makeID(slot, gen uint32) EntityID {
	return EntityID(uint64(gen)<<32 | uint64(slot))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// EntityPool hands out ids, recycling freed slots last-in first-out.
type EntityPool struct {
	gens []uint32 // by slot; slot 0 is reserved
	free []uint32
	live int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{gens: make([]uint32, 1, 64)}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return makeID(slot, p.gens[slot])
	}
	p.gens = append(p.gens, 0)
	return makeID(uint32(len(p.gens)-1), 0)
}

func (p *EntityPool) Alive(id EntityID) bool {
	slot := id.Index()
	return slot != 0 && int(slot) < len(p.gens) && p.gens[slot] == id.Generation()
}

// Destroy frees id. Stale and unknown ids are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	slot := id.Index()
	p.gens[slot]++
	p.free = append(p.free, slot)
	p.live--
}

func (p *EntityPool) Live() int { return p.live }

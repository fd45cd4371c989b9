package ecs

// remover is any Store, seen without its component type.
type remover interface {
	Remove(id EntityID)
}

// World ties the entity pool to the stores that hold entity data. Entities
// are destroyed in batches at end of tick so systems never see a half
// removed entity mid-update.
type World struct {
	pool   *EntityPool
	stores []remover
	doomed []EntityID
}

func NewWorld() *World {
	return &World{pool: NewEntityPool()}
}

// Track makes destroyed entities leave store as well.
func (w *World) Track(store remover) {
	w.stores = append(w.stores, store)
}

func (w *World) CreateEntity() EntityID         { return w.pool.Create() }
func (w *World) Alive(id EntityID) bool         { return w.pool.Alive(id) }
func (w *World) Live() int                      { return w.pool.Live() }
func (w *World) MarkForDestruction(id EntityID) { w.doomed = append(w.doomed, id) }

// FlushDestroyQueue destroys every marked entity and returns how many were
// still alive.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.doomed {
		if !w.pool.Alive(id) {
			continue
		}
		for _, s := range w.stores {
			s.Remove(id)
		}
		w.pool.Destroy(id)
		n++
	}
	w.doomed = w.doomed[:0]
	return n
}

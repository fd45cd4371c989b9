package ecs

import "sort"

// Store holds one component type for many entities. Entries are kept sorted
// by id so every walk visits entities in the same order, tick after tick.
type Store[T any] struct {
	ids  []EntityID
	vals []*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{}
}

func (s *Store[T]) find(id EntityID) (int, bool) {
	i := sort.Search(len(s.ids), func(i int) bool { return s.ids[i] >= id })
	return i, i < len(s.ids) && s.ids[i] == id
}

// Set stores c for id, replacing any previous value.
func (s *Store[T]) Set(id EntityID, c *T) {
	i, ok := s.find(id)
	if ok {
		s.vals[i] = c
		return
	}
	s.ids = append(s.ids, 0)
	s.vals = append(s.vals, nil)
	copy(s.ids[i+1:], s.ids[i:])
	copy(s.vals[i+1:], s.vals[i:])
	s.ids[i], s.vals[i] = id, c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	if i, ok := s.find(id); ok {
		return s.vals[i], true
	}
	return nil, false
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.find(id)
	return ok
}

func (s *Store[T]) Remove(id EntityID) {
	i, ok := s.find(id)
	if !ok {
		return
	}
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	s.vals[i] = nil
	s.vals = append(s.vals[:i], s.vals[i+1:]...)
}

func (s *Store[T]) Len() int { return len(s.ids) }

// Each visits every entry in id order. fn must not add or remove entries.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for i, id := range s.ids {
		fn(id, s.vals[i])
	}
}

// Join visits, in id order, every entity present in both a and b.
func Join[A, B any](a *Store[A], b *Store[B], fn func(EntityID, *A, *B)) {
	i, j := 0, 0
	for i < len(a.ids) && j < len(b.ids) {
		switch ia, ib := a.ids[i], b.ids[j]; {
		case ia < ib:
			i++
		case ia > ib:
			j++
		default:
			fn(ia, a.vals[i], b.vals[j])
			i++
			j++
		}
	}
}

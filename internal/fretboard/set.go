package fretboard

import "slices"

// ValueSet is an insertion-ordered set of comparable values.
// The zero value is ready to use.
type ValueSet[T comparable] struct {
	items []T
	index map[T]int
}

// PositionSet is the set of user-selected or outlined positions
type PositionSet = ValueSet[Position]

// NewValueSet creates a set holding items in first-seen order
func NewValueSet[T comparable](items ...T) *ValueSet[T] {
	s := &ValueSet[T]{}
	s.Add(items...)
	return s
}

// NewPositionSet creates a PositionSet
func NewPositionSet(positions ...Position) *PositionSet {
	return NewValueSet(positions...)
}

// Add appends items not already present
func (s *ValueSet[T]) Add(items ...T) {
	if s.index == nil {
		s.index = make(map[T]int, len(items))
	}
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = len(s.items)
		s.items = append(s.items, item)
	}
}

// Remove deletes items; absent items are ignored
func (s *ValueSet[T]) Remove(items ...T) {
	removed := false
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			delete(s.index, item)
			removed = true
		}
	}
	if !removed {
		return
	}

	s.items = slices.DeleteFunc(s.items, func(item T) bool {
		_, ok := s.index[item]
		return !ok
	})
	for i, item := range s.items {
		s.index[item] = i
	}
}

// Toggle removes the item when present and adds it otherwise. It reports
// whether the item is in the set afterwards.
func (s *ValueSet[T]) Toggle(item T) bool {
	if s.Contains(item) {
		s.Remove(item)
		return false
	}
	s.Add(item)
	return true
}

func (s *ValueSet[T]) Contains(item T) bool {
	_, ok := s.index[item]
	return ok
}

func (s *ValueSet[T]) Len() int {
	return len(s.items)
}

// Clear removes every item
func (s *ValueSet[T]) Clear() {
	s.items = nil
	s.index = nil
}

// Slice returns the items in insertion order
func (s *ValueSet[T]) Slice() []T {
	return slices.Clone(s.items)
}

// All iterates in insertion order
func (s *ValueSet[T]) All() func(yield func(T) bool) {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

func (s *ValueSet[T]) Clone() *ValueSet[T] {
	return NewValueSet(s.items...)
}

package good

import (
	json "github.com/goccy/go-json"
)

// Keyed is implemented by entities stored in a Set. The identity key decides
// membership; two entities with the same key are the same item.
type Keyed[K comparable] interface {
	Identity() K
}

// Set is an insertion-ordered collection of entities unique by identity key.
// The zero value is an empty set ready to use.
type Set[K comparable, T Keyed[K]] struct {
	index map[K]int
	items []T
}

// Replace stores item, overwriting the entry with the same identity key in place.
// It reports whether an existing entry was overwritten.
func (s *Set[K, T]) Replace(item T) bool {
	if s.index == nil {
		s.index = make(map[K]int)
	}
	key := item.Identity()
	if i, ok := s.index[key]; ok {
		s.items[i] = item
		return true
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, item)
	return false
}

func (s *Set[K, T]) Get(key K) (T, bool) {
	if i, ok := s.index[key]; ok {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

func (s *Set[K, T]) Len() int {
	return len(s.items)
}

// Items returns a copy of the entries in insertion order.
func (s *Set[K, T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s Set[K, T]) MarshalJSON() ([]byte, error) {
	if s.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.items)
}

// UnmarshalJSON reads a JSON array; entries sharing an identity key collapse
// into the last one.
func (s *Set[K, T]) UnmarshalJSON(data []byte) error {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	s.index = make(map[K]int, len(items))
	s.items = make([]T, 0, len(items))
	for _, item := range items {
		s.Replace(item)
	}
	return nil
}

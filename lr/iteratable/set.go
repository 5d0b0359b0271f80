package iteratable

// Set is an insertion-ordered set of comparable values.
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	cursor int
}

// NewSet creates an empty set with an initial capacity.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		index:  make(map[interface{}]int, capacity),
		cursor: -1,
	}
}

// Add inserts an element. It returns true if the element was not yet present.
func (s *Set) Add(x interface{}) bool {
	if _, ok := s.index[x]; ok {
		return false
	}
	s.index[x] = len(s.items)
	s.items = append(s.items, x)
	return true
}

// Contains checks for membership of x.
func (s *Set) Contains(x interface{}) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[x]
	return ok
}

// Size returns the number of elements.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty is true for a set without elements.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// Values returns the elements in insertion order. The slice is a copy.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	v := make([]interface{}, len(s.items))
	copy(v, s.items)
	return v
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	if s != nil {
		for _, x := range s.items {
			c.Add(x)
		}
	}
	return c
}

// Union adds all elements of other to s and returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, x := range other.items {
		s.Add(x)
	}
	return s
}

// Difference removes all elements of other from s and returns s.
// Difference must not be called during an iteration of s.
func (s *Set) Difference(other *Set) *Set {
	if other == nil || other.Empty() {
		return s
	}
	return s.Subset(func(x interface{}) bool {
		return !other.Contains(x)
	})
}

// Subset keeps the elements of s for which predicate is true, and returns s.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	kept := s.items[:0]
	for _, x := range s.items {
		if predicate(x) {
			kept = append(kept, x)
		} else {
			delete(s.index, x)
		}
	}
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	for i, x := range s.items {
		s.index[x] = i
	}
	return s
}

// Equals compares two sets for equality of their elements, disregarding order.
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	if s.Size() == 0 {
		return true
	}
	for _, x := range s.items {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Each calls f for every element in insertion order.
func (s *Set) Each(f func(interface{})) {
	if s == nil {
		return
	}
	for _, x := range s.items {
		f(x)
	}
}

// --- Iteration -------------------------------------------------------------

// IterateOnce starts an iteration over the set. Usage:
//
//    S.IterateOnce()
//    for S.Next() {
//        x := S.Item()
//        …
//    }
//
// Elements added during the iteration will be visited, too.
func (s *Set) IterateOnce() {
	s.cursor = -1
}

// Next moves the iteration cursor to the next element. It returns false if the
// iteration is exhausted.
func (s *Set) Next() bool {
	if s.cursor >= len(s.items) {
		return false
	}
	s.cursor++
	return s.cursor < len(s.items)
}

// Item returns the element under the iteration cursor.
func (s *Set) Item() interface{} {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}

package util

// Stack is a LIFO of screens visited. The zero value is ready to use.
// When Limit is positive the oldest entries are dropped past that depth.
type Stack[T any] struct {
	Limit int
	items []T
}

func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
	if s.Limit > 0 && len(s.items) > s.Limit {
		s.items = append(s.items[:0], s.items[len(s.items)-s.Limit:]...)
	}
}

// Pop returns the zero value when empty.
func (s *Stack[T]) Pop() T {
	item, _ := s.TryPop()
	return item
}

// TryPop removes the top entry, reporting false when there is none.
func (s *Stack[T]) TryPop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}

	last := len(s.items) - 1
	item = s.items[last]
	s.items = s.items[:last]
	return item, true
}

// Peek returns the zero value when empty.
func (s *Stack[T]) Peek() (item T) {
	if len(s.items) > 0 {
		item = s.items[len(s.items)-1]
	}
	return
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Clear() {
	s.items = nil
}

// Package stack provides the LIFO value container used by the interpreter.
package stack

// Stack is a LIFO container. The top is the most recently pushed value.
// The zero value is an empty stack ready to use.
type Stack[T any] struct {
	inner []T
}

func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Push appends v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.inner = append(s.inner, v)
}

// Pop removes the last n pushed values and returns them top first: out[0] is
// the most recently pushed value. When fewer than n values are present Pop
// returns false and leaves the stack untouched.
func (s *Stack[T]) Pop(n int) ([]T, bool) {
	if n < 0 || n > len(s.inner) {
		return nil, false
	}

	out := make([]T, n)
	top := len(s.inner) - 1
	for i := range out {
		out[i] = s.inner[top-i]
	}

	var zero T
	rest := len(s.inner) - n
	for i := rest; i < len(s.inner); i++ {
		s.inner[i] = zero
	}
	s.inner = s.inner[:rest]

	return out, true
}

// Pop1 removes and returns the top value.
func (s *Stack[T]) Pop1() (T, bool) {
	var zero T
	if len(s.inner) == 0 {
		return zero, false
	}
	top := len(s.inner) - 1
	v := s.inner[top]
	s.inner[top] = zero
	s.inner = s.inner[:top]
	return v, true
}

// Peek returns the top value without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.inner) == 0 {
		var zero T
		return zero, false
	}
	return s.inner[len(s.inner)-1], true
}

func (s *Stack[T]) Len() int {
	return len(s.inner)
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.inner) == 0
}

// Values returns a copy of the contents, bottom first.
func (s *Stack[T]) Values() []T {
	out := make([]T, len(s.inner))
	copy(out, s.inner)
	return out
}

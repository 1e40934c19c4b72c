// Package optional holds a value that may be absent.
package optional

type Optional[T any] struct {
	present bool
	value   T
}

func (self Optional[T]) IsPresent() bool {
	return self.present
}

// Value returns the held value, or the zero value when absent.
func (self Optional[T]) Value() T {
	return self.value
}

// Get returns the value along with whether it is present.
func (self Optional[T]) Get() (T, bool) {
	return self.value, self.present
}

// OrElse returns the held value or v when absent.
func (self Optional[T]) OrElse(v T) T {
	if !self.present {
		return v
	}
	return self.value
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{
		present: true,
		value:   v,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

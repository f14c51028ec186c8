package filex

// Collection is a store that moves a whole value at a time.
type Collection[T any] interface {
	Load() (T, error)
	Store(v T) error
}

// Staged buffers a Collection for the span of one unit of work: the first
// Load reads through, later Loads see staged values, and Store only reaches
// the underlying collection on Flush. Dropping a Staged discards its writes.
type Staged[T any] struct {
	base   Collection[T]
	value  T
	loaded bool
	dirty  bool
}

func NewStaged[T any](base Collection[T]) *Staged[T] {
	return &Staged[T]{base: base}
}

func (s *Staged[T]) Load() (T, error) {
	if !s.loaded {
		v, err := s.base.Load()
		if err != nil {
			var zero T
			return zero, err
		}
		s.value, s.loaded = v, true
	}
	return s.value, nil
}

func (s *Staged[T]) Store(v T) error {
	s.value, s.loaded, s.dirty = v, true, true
	return nil
}

// Dirty reports whether Flush would write.
func (s *Staged[T]) Dirty() bool { return s.dirty }

// Flush writes a staged value through, if any.
func (s *Staged[T]) Flush() error {
	if !s.dirty {
		return nil
	}
	if err := s.base.Store(s.value); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

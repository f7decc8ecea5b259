package resolve

// Sequence is a lazy, pull-based, restartable enumeration of T. Next returns
// the next element and true, or the zero value and false once exhausted.
// A Sequence may be iterated more than once from the start via Reset;
// restartability is what lets the Merger re-walk a dependency's subtree
// enumeration for each candidate of the package before it without
// re-running the (possibly expensive) work that produced the elements in
// the first place, since SubtreeSolver memoizes what it has already
// produced.
type Sequence[T any] interface {
	Next() (T, bool)
	Reset()
}

// sliceSequence adapts a pre-computed, already-materialized slice to the
// Sequence interface. It's the base case lazy composition bottoms out on:
// once a subtree's results are fully enumerated and memoized, replaying them
// is just walking a slice.
type sliceSequence[T any] struct {
	items []T
	pos   int
}

// NewSliceSequence returns a Sequence that replays items in order.
func NewSliceSequence[T any](items []T) Sequence[T] {
	return &sliceSequence[T]{items: items}
}

func (s *sliceSequence[T]) Next() (T, bool) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, false
	}
	v := s.items[s.pos]
	s.pos++
	return v, true
}

func (s *sliceSequence[T]) Reset() {
	s.pos = 0
}

// funcSequence adapts a generator function to the Sequence interface. reset
// re-creates the generator from scratch, since the function itself may be
// closing over mutable iteration state (e.g. a VersionQueue cursor).
type funcSequence[T any] struct {
	make func() func() (T, bool)
	pull func() (T, bool)
}

// NewFuncSequence returns a Sequence driven by a generator factory: each
// call to make must return a fresh closure that produces successive
// elements on each call, and (zero, false) once exhausted.
func NewFuncSequence[T any](make func() func() (T, bool)) Sequence[T] {
	return &funcSequence[T]{make: make, pull: make()}
}

func (f *funcSequence[T]) Next() (T, bool) {
	return f.pull()
}

func (f *funcSequence[T]) Reset() {
	f.pull = f.make()
}

// mapSequence lazily applies fn to each element pulled from src.
type mapSequence[T, U any] struct {
	src Sequence[T]
	fn  func(T) U
}

// MapSequence returns a Sequence that applies fn to each element of src as
// it is pulled, without materializing src eagerly.
func MapSequence[T, U any](src Sequence[T], fn func(T) U) Sequence[U] {
	return &mapSequence[T, U]{src: src, fn: fn}
}

func (m *mapSequence[T, U]) Next() (U, bool) {
	v, ok := m.src.Next()
	if !ok {
		var zero U
		return zero, false
	}
	return m.fn(v), true
}

func (m *mapSequence[T, U]) Reset() {
	m.src.Reset()
}

// concatSequence lazily chains a list of Sequence factories: the i'th
// factory is not invoked until every element of the (i-1)'th sequence has
// been pulled. This is how SubtreeSolver concatenates the per-candidate lazy
// sequences in version-descending order without enumerating a later
// candidate before an earlier one is exhausted.
type concatSequence[T any] struct {
	thunks []func() Sequence[T]
	idx    int
	cur    Sequence[T]
}

// ConcatSequence lazily concatenates the sequence produced by each thunk, in
// order, without invoking a thunk before its predecessor is exhausted.
func ConcatSequence[T any](thunks []func() Sequence[T]) Sequence[T] {
	return &concatSequence[T]{thunks: thunks}
}

func (c *concatSequence[T]) Next() (T, bool) {
	for {
		if c.cur == nil {
			if c.idx >= len(c.thunks) {
				var zero T
				return zero, false
			}
			c.cur = c.thunks[c.idx]()
			c.idx++
		}
		v, ok := c.cur.Next()
		if ok {
			return v, true
		}
		c.cur = nil
	}
}

func (c *concatSequence[T]) Reset() {
	c.idx = 0
	c.cur = nil
}

// flatMapSequence lazily applies fn to each element pulled from src and
// concatenates the resulting sequences - the combinator the Merger's fold is
// built from: for each (assignment, constraint) pair in seq, for each
// subtree assignment the next dependency admits, composed without
// materializing either level eagerly.
type flatMapSequence[T, U any] struct {
	src Sequence[T]
	fn  func(T) Sequence[U]
	cur Sequence[U]
}

// FlatMapSequence lazily maps fn over src and concatenates the results.
func FlatMapSequence[T, U any](src Sequence[T], fn func(T) Sequence[U]) Sequence[U] {
	return &flatMapSequence[T, U]{src: src, fn: fn}
}

func (f *flatMapSequence[T, U]) Next() (U, bool) {
	for {
		if f.cur == nil {
			t, ok := f.src.Next()
			if !ok {
				var zero U
				return zero, false
			}
			f.cur = f.fn(t)
		}
		u, ok := f.cur.Next()
		if ok {
			return u, true
		}
		f.cur = nil
	}
}

func (f *flatMapSequence[T, U]) Reset() {
	f.src.Reset()
	f.cur = nil
}

// mapFilterSequence lazily maps T to (U, ok), skipping elements where ok is
// false. Used to project a successful merge's result while discarding
// failed merge attempts without ever materializing the intermediate pairs.
type mapFilterSequence[T, U any] struct {
	src Sequence[T]
	fn  func(T) (U, bool)
}

// MapFilterSequence lazily maps and filters src in one pass.
func MapFilterSequence[T, U any](src Sequence[T], fn func(T) (U, bool)) Sequence[U] {
	return &mapFilterSequence[T, U]{src: src, fn: fn}
}

func (m *mapFilterSequence[T, U]) Next() (U, bool) {
	for {
		t, ok := m.src.Next()
		if !ok {
			var zero U
			return zero, false
		}
		u, ok := m.fn(t)
		if ok {
			return u, true
		}
	}
}

func (m *mapFilterSequence[T, U]) Reset() {
	m.src.Reset()
}

// EmptySequence returns a Sequence that yields nothing.
func EmptySequence[T any]() Sequence[T] {
	return NewSliceSequence[T](nil)
}

// ToSlice fully drains s, materializing every remaining element. Intended
// for tests and for the Resolver facade's final, single successful result -
// never for use inside the search itself, which must stay lazy for its
// short-circuiting to mean anything.
func ToSlice[T any](s Sequence[T]) []T {
	var out []T
	for {
		v, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

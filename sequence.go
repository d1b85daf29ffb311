package items

import "github.com/cockroachdb/errors"

// EditOp names a structural edit on a Sequence.
type EditOp string

const (
	EditInsert  EditOp = "insert"
	EditRemove  EditOp = "remove"
	EditMove    EditOp = "move"
	EditReplace EditOp = "replace"
)

// Edit records one structural change. For moves From is the source index and
// Index the destination.
type Edit[T any] struct {
	Op    EditOp
	Index int
	From  int
	Value T
}

// Sequence is an ordered list that records its structural edits since it was
// loaded, or since the last Commit.
type Sequence[T any] struct {
	values   []T
	original []T
	edits    []Edit[T]
}

// NewSequence returns a sequence whose baseline is values.
func NewSequence[T any](values ...T) *Sequence[T] {
	return &Sequence[T]{
		values:   append([]T(nil), values...),
		original: append([]T(nil), values...),
	}
}

// Len returns the number of values.
func (s *Sequence[T]) Len() int { return len(s.values) }

// At returns the value at index i.
func (s *Sequence[T]) At(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(s.values) {
		return zero, s.outOfRange(i)
	}
	return s.values[i], nil
}

// Values returns a copy of the current values.
func (s *Sequence[T]) Values() []T { return append([]T(nil), s.values...) }

// Original returns a copy of the baseline values.
func (s *Sequence[T]) Original() []T { return append([]T(nil), s.original...) }

// Edits returns a copy of the edit log.
func (s *Sequence[T]) Edits() []Edit[T] { return append([]Edit[T](nil), s.edits...) }

// Modified reports whether any edit was recorded.
func (s *Sequence[T]) Modified() bool { return len(s.edits) > 0 }

// Append adds value at the end.
func (s *Sequence[T]) Append(value T) {
	s.values = append(s.values, value)
	s.edits = append(s.edits, Edit[T]{Op: EditInsert, Index: len(s.values) - 1, Value: value})
}

// Insert places value at index i, shifting later values. i may equal Len.
func (s *Sequence[T]) Insert(i int, value T) error {
	if i < 0 || i > len(s.values) {
		return s.outOfRange(i)
	}
	s.values = append(s.values, value)
	copy(s.values[i+1:], s.values[i:])
	s.values[i] = value
	s.edits = append(s.edits, Edit[T]{Op: EditInsert, Index: i, Value: value})
	return nil
}

// Remove deletes and returns the value at index i.
func (s *Sequence[T]) Remove(i int) (T, error) {
	var zero T
	if i < 0 || i >= len(s.values) {
		return zero, s.outOfRange(i)
	}
	value := s.values[i]
	s.values = append(s.values[:i], s.values[i+1:]...)
	s.edits = append(s.edits, Edit[T]{Op: EditRemove, Index: i, Value: value})
	return value, nil
}

// Move relocates the value at from so that it ends up at index to.
func (s *Sequence[T]) Move(from, to int) error {
	if from < 0 || from >= len(s.values) {
		return s.outOfRange(from)
	}
	if to < 0 || to >= len(s.values) {
		return s.outOfRange(to)
	}
	if from == to {
		return nil
	}
	value := s.values[from]
	s.values = append(s.values[:from], s.values[from+1:]...)
	s.values = append(s.values, value)
	copy(s.values[to+1:], s.values[to:])
	s.values[to] = value
	s.edits = append(s.edits, Edit[T]{Op: EditMove, Index: to, From: from, Value: value})
	return nil
}

// Replace swaps the value at index i and returns the previous one.
func (s *Sequence[T]) Replace(i int, value T) (T, error) {
	var zero T
	if i < 0 || i >= len(s.values) {
		return zero, s.outOfRange(i)
	}
	previous := s.values[i]
	s.values[i] = value
	s.edits = append(s.edits, Edit[T]{Op: EditReplace, Index: i, Value: value})
	return previous, nil
}

// Commit makes the current values the new baseline and clears the edit log.
func (s *Sequence[T]) Commit() {
	s.original = append([]T(nil), s.values...)
	s.edits = nil
}

func (s *Sequence[T]) outOfRange(i int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", i, len(s.values))
}

// DiffSequence computes what changed between the baseline and the current
// values: added follows the current order, removed follows the baseline
// order. Repeated values are matched by count.
func DiffSequence[T comparable](s *Sequence[T]) (added, removed []T) {
	remaining := make(map[T]int, len(s.original))
	for _, value := range s.original {
		remaining[value]++
	}
	kept := make(map[T]int, len(s.values))
	for _, value := range s.values {
		if remaining[value] > 0 {
			remaining[value]--
			kept[value]++
			continue
		}
		added = append(added, value)
	}
	for _, value := range s.original {
		if kept[value] > 0 {
			kept[value]--
			continue
		}
		removed = append(removed, value)
	}
	return added, removed
}

// Package sequence provides a saturating cursor over an ordered, non-empty
// list of steps.
package sequence

import "errors"

// ErrEmptySequence is returned when a cursor is requested over no steps.
var ErrEmptySequence = errors.New("sequence has no steps")

// Cursor tracks a position within [0, Len()-1]. Moves past either end are
// no-ops rather than errors or wrap-arounds.
type Cursor[T any] struct {
	steps    []T
	position int
}

// New returns a cursor at position 0. An empty steps slice is rejected: callers
// report "no data" instead of constructing a cursor.
func New[T any](steps []T) (*Cursor[T], error) {
	if len(steps) == 0 {
		return nil, ErrEmptySequence
	}
	return &Cursor[T]{steps: steps}, nil
}

// Advance moves forward one step and reports whether the position changed.
func (c *Cursor[T]) Advance() bool {
	if c.position >= len(c.steps)-1 {
		return false
	}
	c.position++
	return true
}

// Retreat moves back one step and reports whether the position changed.
func (c *Cursor[T]) Retreat() bool {
	if c.position <= 0 {
		return false
	}
	c.position--
	return true
}

// Current returns the step at the current position.
func (c *Cursor[T]) Current() T {
	return c.steps[c.position]
}

func (c *Cursor[T]) Position() int { return c.position }

func (c *Cursor[T]) Len() int { return len(c.steps) }

// AtStart reports whether Retreat is disabled.
func (c *Cursor[T]) AtStart() bool { return c.position == 0 }

// AtEnd reports whether Advance is disabled.
func (c *Cursor[T]) AtEnd() bool { return c.position == len(c.steps)-1 }

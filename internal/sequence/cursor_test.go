package sequence_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"opensynth/internal/sequence"
)

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := sequence.New[int](nil); !errors.Is(err, sequence.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := sequence.New([]string{}); !errors.Is(err, sequence.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestRetreatSaturatesAtZero(t *testing.T) {
	c, err := sequence.New([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		if c.Retreat() {
			t.Fatal("retreat from position 0 should not move")
		}
	}
	if c.Position() != 0 {
		t.Fatalf("expected position 0, got %d", c.Position())
	}
	if !c.AtStart() {
		t.Fatal("expected AtStart")
	}
}

func TestAdvanceSaturatesAtEnd(t *testing.T) {
	c, err := sequence.New([]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.Advance() || !c.Advance() {
		t.Fatal("expected two successful advances")
	}
	if c.Advance() {
		t.Fatal("advance from last position should not move")
	}
	if c.Position() != 2 || c.Current() != "c" || !c.AtEnd() {
		t.Fatalf("unexpected state: position=%d current=%q", c.Position(), c.Current())
	}
}

func TestSingleStepIsBothEnds(t *testing.T) {
	c, err := sequence.New([]int{7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Advance() || c.Retreat() {
		t.Fatal("single-step cursor should never move")
	}
	if !c.AtStart() || !c.AtEnd() || c.Current() != 7 {
		t.Fatal("single-step cursor should sit on both boundaries")
	}
}

func TestRandomWalkStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for length := 1; length <= 8; length++ {
		steps := make([]int, length)
		for i := range steps {
			steps[i] = i
		}
		c, err := sequence.New(steps)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		for move := 0; move < 500; move++ {
			before := c.Position()
			var moved bool
			if rng.IntN(2) == 0 {
				moved = c.Advance()
			} else {
				moved = c.Retreat()
			}
			pos := c.Position()
			if pos < 0 || pos > length-1 {
				t.Fatalf("length %d: position %d out of range", length, pos)
			}
			if moved != (pos != before) {
				t.Fatalf("length %d: moved=%v but position %d -> %d", length, moved, before, pos)
			}
			if c.Current() != pos {
				t.Fatalf("current %d does not match position %d", c.Current(), pos)
			}
		}
	}
}

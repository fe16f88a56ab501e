package regex

import (
	"testing"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
)

// sizeCalculator counts operator nodes.
type sizeCalculator struct{}

func (sizeCalculator) Atom(*Atom) (int, error)         { return 1, nil }
func (sizeCalculator) Sharp(*Sharp) (int, error)       { return 1, nil }
func (sizeCalculator) Wildcard(*Wildcard) (int, error) { return 1, nil }
func (sizeCalculator) Empty(*Empty) (int, error)       { return 1, nil }
func (sizeCalculator) Seq(_ *Seq, ops []int) (int, error) {
	return sum(ops) + 1, nil
}
func (sizeCalculator) Choice(_ *Choice, ops []int) (int, error) {
	return sum(ops) + 1, nil
}
func (sizeCalculator) Star(_ *Star, op int) (int, error) { return op + 1, nil }
func (sizeCalculator) Plus(_ *Plus, op int) (int, error) { return op + 1, nil }
func (sizeCalculator) Inv(_ *Inv, op int) (int, error)   { return op + 1, nil }
func (sizeCalculator) Neg(*Neg, int) (int, error)        { return 0, ErrNegation }

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"a", 1},
		{"a.b", 3},
		{"(a|b)*.-c", 7},
		{"?+", 2},
	}
	for _, tt := range tests {
		got, err := Calculate[int](MustParse(tt.input), sizeCalculator{})
		if err != nil {
			t.Fatalf("Calculate(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Calculate(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCalculateNegation(t *testing.T) {
	_, err := Calculate[int](MustParse("a.!b"), sizeCalculator{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Calculate(negation) error = %v, want UNSUPPORTED", err)
	}
}

package organ

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/viant/scalpel/inspector/graph"
)

// Individual is one minimization candidate: a duplicate free subset of organ lines
type Individual struct {
	ID      int
	Fitness float64
	Lines   []int
}

// NewIndividual creates an individual keeping the first occurrence of every line
func NewIndividual(id int, lines []int) *Individual {
	seen := make(map[int]bool, len(lines))
	unique := make([]int, 0, len(lines))
	for _, line := range lines {
		if seen[line] {
			continue
		}
		seen[line] = true
		unique = append(unique, line)
	}
	return &Individual{ID: id, Lines: unique}
}

// Seed returns individual 0 selecting the whole organ
func Seed(o *Organ) *Individual {
	return &Individual{ID: 0, Lines: o.Universe()}
}

// Random draws a subset of size uniform in [max(1, N/2), N] without replacement
func Random(id int, o *Organ, rng *rand.Rand) *Individual {
	n := o.Size()
	if n == 0 {
		return &Individual{ID: id}
	}
	lower := max(1, n/2)
	size := lower + rng.IntN(n-lower+1)
	perm := rng.Perm(n)
	lines := make([]int, size)
	for i := 0; i < size; i++ {
		lines[i] = perm[i] + 1
	}
	return &Individual{ID: id, Lines: lines}
}

// Size returns the number of selected lines
func (i *Individual) Size() int {
	return len(i.Lines)
}

// Contains returns true if line is selected
func (i *Individual) Contains(line int) bool {
	for _, candidate := range i.Lines {
		if candidate == line {
			return true
		}
	}
	return false
}

// Sorted returns selected lines in ascending order
func (i *Individual) Sorted() []int {
	result := append([]int(nil), i.Lines...)
	sort.Ints(result)
	return result
}

// Clone copies the individual under a new id
func (i *Individual) Clone(id int) *Individual {
	return &Individual{ID: id, Fitness: i.Fitness, Lines: append([]int(nil), i.Lines...)}
}

// Fingerprint identifies the selected line set regardless of order
func (i *Individual) Fingerprint() (uint64, error) {
	return graph.HashInts(i.Sorted())
}

// Validate checks the individual is a duplicate free subset of the organ universe
func (i *Individual) Validate(o *Organ) error {
	seen := make(map[int]bool, len(i.Lines))
	for _, line := range i.Lines {
		if line < 1 || line > o.Size() {
			return fmt.Errorf("%w: individual %d line %d outside 1..%d", ErrInvalidState, i.ID, line, o.Size())
		}
		if seen[line] {
			return fmt.Errorf("%w: individual %d duplicates line %d", ErrInvalidState, i.ID, line)
		}
		seen[line] = true
	}
	return nil
}

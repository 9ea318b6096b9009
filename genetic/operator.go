package genetic

import (
	"math/rand/v2"

	"github.com/viant/scalpel/organ"
)

// Fittest returns the highest fitness candidate, the earliest one on ties
func Fittest(candidates []*organ.Individual) *organ.Individual {
	var best *organ.Individual
	for _, candidate := range candidates {
		if best == nil || candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

// Tournament samples size individuals uniformly with replacement and keeps the fittest
func Tournament(population []*organ.Individual, size int, rng *rand.Rand) *organ.Individual {
	if len(population) == 0 {
		return nil
	}
	sample := make([]*organ.Individual, size)
	for i := range sample {
		sample[i] = population[rng.IntN(len(population))]
	}
	return Fittest(sample)
}

// Select copies the single fittest individual then fills up to size by tournament
func Select(population []*organ.Individual, size, tournamentSize int, rng *rand.Rand) []*organ.Individual {
	if len(population) == 0 || size <= 0 {
		return nil
	}
	selected := make([]*organ.Individual, 0, size)
	selected = append(selected, Fittest(population))
	for len(selected) < size {
		selected = append(selected, Tournament(population, tournamentSize, rng))
	}
	return selected
}

// Crossover cuts both parents at a point uniform in [0, min(|p1|, |p2|)).
// An empty parent yields an empty child.
func Crossover(id int, p1, p2 *organ.Individual, rng *rand.Rand) *organ.Individual {
	shortest := min(len(p1.Lines), len(p2.Lines))
	if shortest == 0 {
		return &organ.Individual{ID: id}
	}
	return CrossoverAt(id, p1, p2, rng.IntN(shortest))
}

// CrossoverAt joins p1.Lines[:cut] with p2.Lines[cut:] dropping duplicates
func CrossoverAt(id int, p1, p2 *organ.Individual, cut int) *organ.Individual {
	if len(p1.Lines) == 0 || len(p2.Lines) == 0 {
		return &organ.Individual{ID: id}
	}
	cut = max(0, min(cut, len(p1.Lines), len(p2.Lines)))
	lines := make([]int, 0, len(p2.Lines))
	lines = append(lines, p1.Lines[:cut]...)
	lines = append(lines, p2.Lines[cut:]...)
	return organ.NewIndividual(id, lines)
}

// Mutate independently adds a universe line and removes a selected line
func Mutate(ind *organ.Individual, universe int, addProbability, removeProbability float64, rng *rand.Rand) {
	if universe > 0 && rng.Float64() < addProbability {
		line := 1 + rng.IntN(universe)
		if !ind.Contains(line) {
			ind.Lines = append(ind.Lines, line)
		}
	}
	if len(ind.Lines) > 0 && rng.Float64() < removeProbability {
		idx := rng.IntN(len(ind.Lines))
		ind.Lines = append(ind.Lines[:idx], ind.Lines[idx+1:]...)
	}
}

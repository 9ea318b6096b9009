package genetic

// Stall stops the run after generations consecutive generations without a better best fitness
func Stall(generations int) Terminator {
	best := 0.0
	stalled := 0
	started := false
	return func(population *Population, _ int) bool {
		if generations <= 0 {
			return false
		}
		current := population.Stats.Best
		if !started || current > best {
			started = true
			best = current
			stalled = 0
			return false
		}
		stalled++
		return stalled >= generations
	}
}

// Compiles stops the run once some individual of the generation compiles
func Compiles(population *Population, _ int) bool {
	return population.Stats.Compiled > 0
}

// Any stops the run when one of terminators fires
func Any(terminators ...Terminator) Terminator {
	return func(population *Population, generation int) bool {
		for _, terminator := range terminators {
			if terminator != nil && terminator(population, generation) {
				return true
			}
		}
		return false
	}
}

package evo

import (
	"fmt"
	"math/rand"
)

// TournamentSelect picks one parent index by repeated uniform sampling with
// replacement: the winner starts as one uniform draw and is replaced by a
// later draw only on strictly greater fitness. Size 1 degenerates to uniform
// selection; size near the population makes picking the global best almost
// certain.
func TournamentSelect(rng *rand.Rand, fitness []float64, size int) (int, error) {
	if len(fitness) == 0 {
		return 0, fmt.Errorf("tournament over empty population")
	}
	if size < 1 {
		return 0, fmt.Errorf("tournament size must be >= 1, got %d", size)
	}

	winner := rng.Intn(len(fitness))
	for i := 1; i < size; i++ {
		candidate := rng.Intn(len(fitness))
		if fitness[candidate] > fitness[winner] {
			winner = candidate
		}
	}
	return winner, nil
}

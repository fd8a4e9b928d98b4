package ga

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	MeanFitness float64
}

// RunGenerations advances the engine exactly n times with no early stopping
// and returns per-generation population statistics. With elitism the best
// fitness never regresses across the returned history.
func RunGenerations(ctx context.Context, e *Engine, n int) ([]GenerationStats, error) {
	if e == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if n <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}

	history := make([]GenerationStats, 0, n)
	for gen := 0; gen < n; gen++ {
		if err := e.AdvanceGeneration(ctx); err != nil {
			return nil, err
		}
		stats, err := e.LastGenerationStats()
		if err != nil {
			return nil, err
		}
		history = append(history, stats)
	}
	return history, nil
}

// LastGenerationStats summarizes the most recently evaluated population.
func (e *Engine) LastGenerationStats() (GenerationStats, error) {
	if e.scored == nil {
		return GenerationStats{}, fmt.Errorf("population has not been evaluated")
	}
	fitness := make([]float64, len(e.scored))
	for i, s := range e.scored {
		fitness[i] = s.Fitness
	}
	return GenerationStats{
		Generation:  e.generation,
		BestFitness: e.scored[0].Fitness,
		MeanFitness: stat.Mean(fitness, nil),
	}, nil
}

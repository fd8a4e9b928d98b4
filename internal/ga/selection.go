package ga

import (
	"fmt"
	"math/rand"
)

// Selector chooses a parent from the ranked population for replication.
// The ranked slice is sorted ascending by fitness, best first.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []ScoredChromosome) (Chromosome, error)
}

// TournamentSelector samples candidates uniformly and picks the lowest
// fitness among them.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []ScoredChromosome) (Chromosome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return nil, fmt.Errorf("empty population")
	}

	tournamentSize := s.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 3
	}
	if tournamentSize > len(ranked) {
		tournamentSize = len(ranked)
	}

	best := ranked[rng.Intn(len(ranked))]
	for i := 1; i < tournamentSize; i++ {
		candidate := ranked[rng.Intn(len(ranked))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return cloneChromosome(best.Chromosome), nil
}

// RankSelector picks chromosomes with probability proportional to their rank:
// the best of n chromosomes carries weight n, the worst weight 1.
type RankSelector struct{}

func (RankSelector) Name() string {
	return "rank"
}

func (RankSelector) PickParent(rng *rand.Rand, ranked []ScoredChromosome) (Chromosome, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	n := len(ranked)
	if n == 0 {
		return nil, fmt.Errorf("empty population")
	}

	total := n * (n + 1) / 2
	ticket := rng.Intn(total)
	for i := 0; i < n; i++ {
		ticket -= n - i
		if ticket < 0 {
			return cloneChromosome(ranked[i].Chromosome), nil
		}
	}
	return cloneChromosome(ranked[n-1].Chromosome), nil
}

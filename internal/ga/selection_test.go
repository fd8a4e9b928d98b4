package ga

import (
	"math/rand"
	"testing"
)

func rankedPopulation() []ScoredChromosome {
	return []ScoredChromosome{
		{Chromosome: Chromosome{0}, Fitness: 0.1},
		{Chromosome: Chromosome{1}, Fitness: 0.5},
		{Chromosome: Chromosome{2}, Fitness: 0.9},
		{Chromosome: Chromosome{3}, Fitness: 1.3},
	}
}

func TestTournamentSelectorFavorsLowFitness(t *testing.T) {
	selector := TournamentSelector{TournamentSize: 2}
	rng := rand.New(rand.NewSource(17))
	ranked := rankedPopulation()

	counts := make(map[float64]int)
	for i := 0; i < 2000; i++ {
		parent, err := selector.PickParent(rng, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		counts[parent[0]]++
	}
	if counts[0] <= counts[3] {
		t.Fatalf("expected best chromosome picked more often: best=%d worst=%d", counts[0], counts[3])
	}
}

func TestRankSelectorFavorsLowFitness(t *testing.T) {
	selector := RankSelector{}
	rng := rand.New(rand.NewSource(23))
	ranked := rankedPopulation()

	counts := make(map[float64]int)
	for i := 0; i < 4000; i++ {
		parent, err := selector.PickParent(rng, ranked)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		counts[parent[0]]++
	}
	if counts[0] <= counts[3] {
		t.Fatalf("expected rank bias toward best: best=%d worst=%d", counts[0], counts[3])
	}
}

func TestSelectorsRejectBadInput(t *testing.T) {
	ranked := rankedPopulation()
	selectors := []Selector{TournamentSelector{}, RankSelector{}}
	for _, s := range selectors {
		if _, err := s.PickParent(nil, ranked); err == nil {
			t.Fatalf("%s: expected error for nil rng", s.Name())
		}
		if _, err := s.PickParent(rand.New(rand.NewSource(1)), nil); err == nil {
			t.Fatalf("%s: expected error for empty population", s.Name())
		}
	}
}

func TestSelectorsReturnCopies(t *testing.T) {
	ranked := rankedPopulation()
	rng := rand.New(rand.NewSource(31))
	for _, s := range []Selector{TournamentSelector{}, RankSelector{}} {
		parent, err := s.PickParent(rng, ranked)
		if err != nil {
			t.Fatalf("%s: pick parent: %v", s.Name(), err)
		}
		original := parent[0]
		parent[0] = -1
		for _, scored := range ranked {
			if scored.Chromosome[0] == -1 {
				t.Fatalf("%s: parent aliases population (original %g)", s.Name(), original)
			}
		}
	}
}

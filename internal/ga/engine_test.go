package ga

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

// sphere is a smooth minimization objective with its optimum at the origin.
func sphere(c Chromosome) (float64, error) {
	total := 0.0
	for _, g := range c {
		total += g * g
	}
	return total, nil
}

func bounds(genes int, lo, hi float64) ([]float64, []float64) {
	lower := make([]float64, genes)
	upper := make([]float64, genes)
	for i := range lower {
		lower[i] = lo
		upper[i] = hi
	}
	return lower, upper
}

func newSphereEngine(t *testing.T, seed int64, workers int) *Engine {
	t.Helper()
	lower, upper := bounds(3, -5, 5)
	engine, err := NewEngine(EngineConfig{
		Objective: ObjectiveFunc(sphere),
		Genes:     3,
		Lower:     lower,
		Upper:     upper,
		Workers:   workers,
		Rand:      rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestNewEngineValidation(t *testing.T) {
	lower, upper := bounds(2, 0, 1)
	valid := EngineConfig{
		Objective: ObjectiveFunc(sphere),
		Genes:     2,
		Lower:     lower,
		Upper:     upper,
		Rand:      rand.New(rand.NewSource(1)),
	}

	cases := []struct {
		name   string
		mutate func(cfg EngineConfig) EngineConfig
	}{
		{"missing objective", func(cfg EngineConfig) EngineConfig { cfg.Objective = nil; return cfg }},
		{"zero genes", func(cfg EngineConfig) EngineConfig { cfg.Genes = 0; return cfg }},
		{"elite exceeds population", func(cfg EngineConfig) EngineConfig { cfg.Chromosomes = 2; cfg.EliteCount = 5; return cfg }},
		{"mutation above one", func(cfg EngineConfig) EngineConfig { cfg.PMutation = 1.5; return cfg }},
		{"bounds length", func(cfg EngineConfig) EngineConfig { cfg.Lower = []float64{0}; return cfg }},
		{"inverted bound", func(cfg EngineConfig) EngineConfig { cfg.Lower = []float64{2, 0}; return cfg }},
		{"missing rand", func(cfg EngineConfig) EngineConfig { cfg.Rand = nil; return cfg }},
	}
	for _, tc := range cases {
		if _, err := NewEngine(tc.mutate(valid)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestEngineDefaults(t *testing.T) {
	engine := newSphereEngine(t, 1, 0)
	if len(engine.population) != defaultChromosomes {
		t.Fatalf("got population %d want %d", len(engine.population), defaultChromosomes)
	}
	if engine.cfg.EliteCount != defaultEliteCount {
		t.Fatalf("got elite %d want %d", engine.cfg.EliteCount, defaultEliteCount)
	}
	if engine.cfg.PMutation != defaultPMutation {
		t.Fatalf("got p_mutation %g want %g", engine.cfg.PMutation, defaultPMutation)
	}
}

func TestEngineInitializationWithinBounds(t *testing.T) {
	engine := newSphereEngine(t, 2, 0)
	for i, c := range engine.population {
		for g, v := range c {
			if v < -5 || v > 5 {
				t.Fatalf("chromosome %d gene %d out of bounds: %g", i, g, v)
			}
		}
	}
}

func TestBestBeforeAdvanceEvaluatesOnDemand(t *testing.T) {
	engine := newSphereEngine(t, 3, 0)
	best, err := engine.Best(context.Background(), 2)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("got %d results want 2", len(best))
	}
	if best[0].Fitness > best[1].Fitness {
		t.Fatalf("best not sorted: %g > %g", best[0].Fitness, best[1].Fitness)
	}
}

func TestBestRejectsInvalidCount(t *testing.T) {
	engine := newSphereEngine(t, 3, 0)
	for _, k := range []int{0, -1, defaultChromosomes + 1} {
		if _, err := engine.Best(context.Background(), k); err == nil {
			t.Fatalf("expected error for k=%d", k)
		}
	}
}

func TestMonotonicImprovement(t *testing.T) {
	engine := newSphereEngine(t, 4, 0)
	history, err := RunGenerations(context.Background(), engine, 30)
	if err != nil {
		t.Fatalf("run generations: %v", err)
	}
	if len(history) != 30 {
		t.Fatalf("got %d generations want 30", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].BestFitness > history[i-1].BestFitness {
			t.Fatalf("best fitness regressed at generation %d: %g > %g", i, history[i].BestFitness, history[i-1].BestFitness)
		}
	}
	if history[len(history)-1].BestFitness >= history[0].BestFitness {
		t.Fatalf("no improvement over 30 generations: %g -> %g", history[0].BestFitness, history[len(history)-1].BestFitness)
	}
}

func TestDeterministicWithFixedSeed(t *testing.T) {
	first := newSphereEngine(t, 99, 0)
	second := newSphereEngine(t, 99, 0)

	ctx := context.Background()
	if _, err := RunGenerations(ctx, first, 10); err != nil {
		t.Fatalf("run first: %v", err)
	}
	if _, err := RunGenerations(ctx, second, 10); err != nil {
		t.Fatalf("run second: %v", err)
	}

	bestFirst, err := first.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best first: %v", err)
	}
	bestSecond, err := second.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best second: %v", err)
	}
	if bestFirst[0].Fitness != bestSecond[0].Fitness {
		t.Fatalf("fitness differs: %g vs %g", bestFirst[0].Fitness, bestSecond[0].Fitness)
	}
	for g := range bestFirst[0].Chromosome {
		if bestFirst[0].Chromosome[g] != bestSecond[0].Chromosome[g] {
			t.Fatalf("gene %d differs", g)
		}
	}
}

func TestParallelEvaluationMatchesSequential(t *testing.T) {
	sequential := newSphereEngine(t, 42, 1)
	parallel := newSphereEngine(t, 42, 4)

	ctx := context.Background()
	if _, err := RunGenerations(ctx, sequential, 8); err != nil {
		t.Fatalf("run sequential: %v", err)
	}
	if _, err := RunGenerations(ctx, parallel, 8); err != nil {
		t.Fatalf("run parallel: %v", err)
	}

	bestSeq, err := sequential.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best sequential: %v", err)
	}
	bestPar, err := parallel.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best parallel: %v", err)
	}
	if bestSeq[0].Fitness != bestPar[0].Fitness {
		t.Fatalf("fitness differs: %g vs %g", bestSeq[0].Fitness, bestPar[0].Fitness)
	}
}

func TestBestReturnsCopies(t *testing.T) {
	engine := newSphereEngine(t, 5, 0)
	ctx := context.Background()
	if err := engine.AdvanceGeneration(ctx); err != nil {
		t.Fatalf("advance: %v", err)
	}

	first, err := engine.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	first[0].Chromosome[0] = 1e9

	second, err := engine.Best(ctx, 1)
	if err != nil {
		t.Fatalf("best again: %v", err)
	}
	if second[0].Chromosome[0] == 1e9 {
		t.Fatal("best chromosome aliases engine state")
	}
}

func TestObjectiveErrorPropagates(t *testing.T) {
	objErr := errors.New("objective failed")
	lower, upper := bounds(2, 0, 1)
	engine, err := NewEngine(EngineConfig{
		Objective: ObjectiveFunc(func(Chromosome) (float64, error) { return 0, objErr }),
		Genes:     2,
		Lower:     lower,
		Upper:     upper,
		Rand:      rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.AdvanceGeneration(context.Background()); !errors.Is(err, objErr) {
		t.Fatalf("expected objective error, got %v", err)
	}
}

func TestNaNFitnessRejected(t *testing.T) {
	lower, upper := bounds(1, 0, 1)
	engine, err := NewEngine(EngineConfig{
		Objective: ObjectiveFunc(func(Chromosome) (float64, error) { return math.NaN(), nil }),
		Genes:     1,
		Lower:     lower,
		Upper:     upper,
		Rand:      rand.New(rand.NewSource(1)),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.AdvanceGeneration(context.Background()); err == nil {
		t.Fatal("expected NaN fitness error")
	}
}

func TestAdvanceRespectsContextCancellation(t *testing.T) {
	engine := newSphereEngine(t, 6, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := engine.AdvanceGeneration(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestRunGenerationsValidation(t *testing.T) {
	if _, err := RunGenerations(context.Background(), nil, 3); err == nil {
		t.Fatal("expected error for nil engine")
	}
	engine := newSphereEngine(t, 7, 0)
	if _, err := RunGenerations(context.Background(), engine, 0); err == nil {
		t.Fatal("expected error for zero generations")
	}
}

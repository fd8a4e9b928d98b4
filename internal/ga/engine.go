// Package ga implements an elitist, real-coded, single-objective genetic
// algorithm. Fitness is minimized: lower values rank first.
package ga

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Chromosome is a candidate solution vector. The engine owns its population
// exclusively; chromosomes are copied on the way in and on the way out, so a
// reported best cannot be altered by later generations.
type Chromosome []float64

// Objective scores one chromosome; lower is better. Evaluation errors abort
// the generation and propagate to the caller unchanged.
type Objective interface {
	Evaluate(c Chromosome) (float64, error)
}

// ObjectiveFunc adapts a plain function to the Objective interface.
type ObjectiveFunc func(c Chromosome) (float64, error)

func (f ObjectiveFunc) Evaluate(c Chromosome) (float64, error) {
	return f(c)
}

// ScoredChromosome pairs a chromosome with its most recently computed fitness.
type ScoredChromosome struct {
	Chromosome Chromosome
	Fitness    float64
}

const (
	defaultChromosomes = 100
	defaultEliteCount  = 3
	defaultPMutation   = 0.3
)

type EngineConfig struct {
	Objective Objective
	// Genes is the chromosome length.
	Genes int
	// Chromosomes is the population size. Zero selects the default of 100.
	Chromosomes int
	// EliteCount is the number of best chromosomes carried unchanged into the
	// next generation. Zero selects the default of 3.
	EliteCount int
	// PMutation is the per-child mutation probability. A mutated child has
	// one random gene redrawn uniformly within its bound. Zero or negative
	// selects the default of 0.3.
	PMutation float64
	// Lower and Upper bound each gene for initialization and mutation.
	Lower []float64
	Upper []float64
	// Selector picks parents from the ranked population. Nil selects a
	// size-3 tournament.
	Selector Selector
	// Crossover combines two parents into one child. Nil selects per-gene
	// arithmetic blending.
	Crossover Crossover
	// Workers bounds concurrent fitness evaluation. Zero or negative means
	// sequential evaluation.
	Workers int
	Rand    *rand.Rand
}

// Engine evolves a population one generation at a time. Fitness values are
// valid only for the population they were computed on; every advance
// re-evaluates before ranking.
type Engine struct {
	cfg        EngineConfig
	rng        *rand.Rand
	population []Chromosome
	// scored holds the ranking of the most recently evaluated population,
	// ascending by fitness. Nil until the first evaluation.
	scored     []ScoredChromosome
	generation int
}

func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Objective == nil {
		return nil, fmt.Errorf("objective is required")
	}
	if cfg.Genes <= 0 {
		return nil, fmt.Errorf("genes must be > 0")
	}
	if cfg.Chromosomes == 0 {
		cfg.Chromosomes = defaultChromosomes
	}
	if cfg.Chromosomes < 0 {
		return nil, fmt.Errorf("chromosomes must be > 0")
	}
	if cfg.EliteCount == 0 {
		cfg.EliteCount = defaultEliteCount
	}
	if cfg.EliteCount < 0 || cfg.EliteCount > cfg.Chromosomes {
		return nil, fmt.Errorf("elite count must be in [1, chromosomes]")
	}
	if cfg.PMutation <= 0 {
		cfg.PMutation = defaultPMutation
	}
	if cfg.PMutation > 1 {
		return nil, fmt.Errorf("mutation probability must be <= 1")
	}
	if len(cfg.Lower) != cfg.Genes || len(cfg.Upper) != cfg.Genes {
		return nil, fmt.Errorf("bounds length mismatch: lower=%d upper=%d want=%d", len(cfg.Lower), len(cfg.Upper), cfg.Genes)
	}
	for g := 0; g < cfg.Genes; g++ {
		if math.IsNaN(cfg.Lower[g]) || math.IsNaN(cfg.Upper[g]) || cfg.Lower[g] > cfg.Upper[g] {
			return nil, fmt.Errorf("invalid bound for gene %d: [%g, %g]", g, cfg.Lower[g], cfg.Upper[g])
		}
	}
	if cfg.Selector == nil {
		cfg.Selector = TournamentSelector{}
	}
	if cfg.Crossover == nil {
		cfg.Crossover = ArithmeticCrossover{}
	}
	if cfg.Workers < 0 {
		cfg.Workers = 1
	}
	if cfg.Rand == nil {
		return nil, fmt.Errorf("random source is required")
	}

	e := &Engine{cfg: cfg, rng: cfg.Rand}
	e.population = make([]Chromosome, cfg.Chromosomes)
	for i := range e.population {
		c := make(Chromosome, cfg.Genes)
		for g := 0; g < cfg.Genes; g++ {
			c[g] = cfg.Lower[g] + e.rng.Float64()*(cfg.Upper[g]-cfg.Lower[g])
		}
		e.population[i] = c
	}
	return e, nil
}

// Generation returns the number of completed advances.
func (e *Engine) Generation() int {
	return e.generation
}

// AdvanceGeneration evaluates the current population, then replaces it with
// the next generation: the EliteCount best carried unchanged, the remainder
// bred by selection, crossover and mutation.
func (e *Engine) AdvanceGeneration(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	scored, err := e.evaluate(ctx, e.population)
	if err != nil {
		return err
	}
	e.scored = scored

	next := make([]Chromosome, 0, len(e.population))
	for i := 0; i < e.cfg.EliteCount; i++ {
		next = append(next, cloneChromosome(scored[i].Chromosome))
	}
	for len(next) < len(e.population) {
		mother, err := e.cfg.Selector.PickParent(e.rng, scored)
		if err != nil {
			return err
		}
		father, err := e.cfg.Selector.PickParent(e.rng, scored)
		if err != nil {
			return err
		}
		child := e.cfg.Crossover.Combine(e.rng, mother, father)
		if e.rng.Float64() < e.cfg.PMutation {
			e.mutate(child)
		}
		next = append(next, child)
	}

	e.population = next
	e.generation++
	return nil
}

// Best returns the k lowest-fitness chromosomes of the most recently
// evaluated population, ascending by fitness. It reuses the scores computed
// by the last AdvanceGeneration; before the first advance it evaluates the
// initial population on demand.
func (e *Engine) Best(ctx context.Context, k int) ([]ScoredChromosome, error) {
	if k <= 0 || k > len(e.population) {
		return nil, fmt.Errorf("invalid best count: %d", k)
	}
	if e.scored == nil {
		scored, err := e.evaluate(ctx, e.population)
		if err != nil {
			return nil, err
		}
		e.scored = scored
	}

	out := make([]ScoredChromosome, k)
	for i := 0; i < k; i++ {
		out[i] = ScoredChromosome{
			Chromosome: cloneChromosome(e.scored[i].Chromosome),
			Fitness:    e.scored[i].Fitness,
		}
	}
	return out, nil
}

// mutate redraws one random gene uniformly within its bound.
func (e *Engine) mutate(c Chromosome) {
	g := e.rng.Intn(len(c))
	c[g] = e.cfg.Lower[g] + e.rng.Float64()*(e.cfg.Upper[g]-e.cfg.Lower[g])
}

func (e *Engine) evaluate(ctx context.Context, population []Chromosome) ([]ScoredChromosome, error) {
	scored := make([]ScoredChromosome, len(population))

	if e.cfg.Workers <= 1 {
		for i, c := range population {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fitness, err := e.cfg.Objective.Evaluate(c)
			if err != nil {
				return nil, err
			}
			scored[i] = ScoredChromosome{Chromosome: c, Fitness: fitness}
		}
	} else {
		if err := e.evaluateParallel(ctx, population, scored); err != nil {
			return nil, err
		}
	}

	for i, s := range scored {
		if math.IsNaN(s.Fitness) {
			return nil, fmt.Errorf("fitness is NaN for chromosome %d", i)
		}
	}

	// Stable sort keeps evaluation order as the tie-break, so ranking stays
	// deterministic under parallel evaluation.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Fitness < scored[j].Fitness
	})
	return scored, nil
}

func (e *Engine) evaluateParallel(ctx context.Context, population []Chromosome, scored []ScoredChromosome) error {
	type job struct {
		idx int
		c   Chromosome
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := e.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				fitness, err := e.cfg.Objective.Evaluate(j.c)
				results <- result{idx: j.idx, fitness: fitness, err: err}
			}
		}()
	}

	go func() {
		for i, c := range population {
			jobs <- job{idx: i, c: c}
		}
		close(jobs)
	}()

	var firstErr error
	for range population {
		r := <-results
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		scored[r.idx] = ScoredChromosome{Chromosome: population[r.idx], Fitness: r.fitness}
	}
	wg.Wait()
	return firstErr
}

func cloneChromosome(c Chromosome) Chromosome {
	return append(Chromosome(nil), c...)
}

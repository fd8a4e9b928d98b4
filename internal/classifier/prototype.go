// Package classifier implements prototype-based classification fitted by
// genetic search. The single-prototype variant evolves one representative
// point per class; the ensemble variant evolves several per class over
// bootstrap resamples and aggregates their distances.
package classifier

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"garules/internal/dataset"
	"garules/internal/distance"
	"garules/internal/ga"
)

const (
	defaultIterations = 10
	defaultModels     = 3
)

// prototypeObjective scores a candidate prototype by its total distance to a
// fixed set of training rows. It owns the subset and the measure for the
// lifetime of the search.
type prototypeObjective struct {
	x       *mat.Dense
	measure distance.Measure
}

func (o prototypeObjective) Evaluate(c ga.Chromosome) (float64, error) {
	distances, err := o.measure.Pairwise(o.x, []float64(c))
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, d := range distances {
		total += d
	}
	return total, nil
}

// searchConfig carries the GA knobs shared by both classifier variants.
type searchConfig struct {
	iterations  int
	chromosomes int
	eliteCount  int
	pMutation   float64
	workers     int
}

// fitPrototype evolves one prototype against the given training subset and
// returns it together with per-generation population statistics.
func fitPrototype(ctx context.Context, subset *mat.Dense, measure distance.Measure, rng *rand.Rand, cfg searchConfig) (ga.Chromosome, []ga.GenerationStats, error) {
	if subset == nil {
		return nil, nil, dataset.DataError{Reason: "empty class subset"}
	}
	rows, cols := subset.Dims()
	if rows == 0 {
		return nil, nil, dataset.DataError{Reason: "empty class subset"}
	}

	lower, upper, err := dataset.FeatureRanges(subset)
	if err != nil {
		return nil, nil, err
	}

	engine, err := ga.NewEngine(ga.EngineConfig{
		Objective:   prototypeObjective{x: subset, measure: measure},
		Genes:       cols,
		Chromosomes: cfg.chromosomes,
		EliteCount:  cfg.eliteCount,
		PMutation:   cfg.pMutation,
		Lower:       lower,
		Upper:       upper,
		Workers:     cfg.workers,
		Rand:        rng,
	})
	if err != nil {
		return nil, nil, err
	}

	history, err := ga.RunGenerations(ctx, engine, cfg.iterations)
	if err != nil {
		return nil, nil, err
	}
	best, err := engine.Best(ctx, 1)
	if err != nil {
		return nil, nil, err
	}
	return best[0].Chromosome, history, nil
}

// newRand builds the classifier's random source: seeded deterministically
// when a seed is supplied, from the wall clock otherwise.
func newRand(seed *int64) (*rand.Rand, int64, bool) {
	if seed != nil {
		return rand.New(rand.NewSource(*seed)), *seed, true
	}
	s := time.Now().UnixNano()
	return rand.New(rand.NewSource(s)), s, false
}

// argminLabels maps each row of a score matrix to the class with the lowest
// score. Ties break toward the lowest class index, first occurrence wins.
func argminLabels(scores [][]float64, classes []string) []string {
	out := make([]string, len(scores))
	for i, row := range scores {
		best := 0
		for c := 1; c < len(row); c++ {
			if row[c] < row[best] {
				best = c
			}
		}
		out[i] = classes[best]
	}
	return out
}

// denseCopy returns x as a dense matrix, copying unless it already is one.
func denseCopy(x mat.Matrix) *mat.Dense {
	if d, ok := x.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(x)
}

func checkPredictInput(x mat.Matrix, features int) error {
	if x == nil {
		return dataset.ShapeError{Reason: "nil feature matrix"}
	}
	rows, cols := x.Dims()
	if rows == 0 {
		return dataset.ShapeError{Reason: "no rows"}
	}
	if cols != features {
		return DimensionError{Got: cols, Want: features}
	}
	return nil
}

func classSubset(t dataset.Table, label string) (*mat.Dense, error) {
	subset := dataset.RowsWithLabel(t, label)
	if subset == nil {
		return nil, dataset.DataError{Reason: fmt.Sprintf("class %q has no rows", label)}
	}
	return subset, nil
}

// Package distance provides the range-normalized Manhattan distance used by
// the prototype classifiers. Both the single-prototype and the ensemble
// classifier score candidates through the same Measure implementation; they
// differ only in how the scale vector is derived.
package distance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"garules/internal/dataset"
)

// Measure computes per-point distances from a set of points to one reference
// point.
type Measure interface {
	Name() string
	// Pairwise returns one distance per row of x to the reference point c.
	Pairwise(x mat.Matrix, c []float64) ([]float64, error)
}

// Factory derives a Measure from training data.
type Factory func(x mat.Matrix) (Measure, error)

// Stoean is the range-normalized Manhattan distance: the absolute per-feature
// difference divided by the per-feature range of the training data, summed
// over features.
//
// Policy for degenerate terms: a feature whose range is zero contributes zero
// distance (it carries no separating information), and a NaN feature value is
// treated as missing and skipped.
type Stoean struct {
	scale []float64
}

// NewStoean builds the measure from a precomputed scale vector. Scale entries
// must be finite and non-negative.
func NewStoean(scale []float64) (*Stoean, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("scale vector is required")
	}
	for f, d := range scale {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return nil, dataset.DataError{Reason: fmt.Sprintf("invalid scale for feature %d: %g", f, d)}
		}
	}
	return &Stoean{scale: append([]float64(nil), scale...)}, nil
}

// StoeanFactory computes the scale vector as the per-feature max − min over
// the full training set, ignoring missing values. This is the default
// distance factory of both classifiers.
func StoeanFactory(x mat.Matrix) (Measure, error) {
	scale, err := dataset.Scale(x)
	if err != nil {
		return nil, err
	}
	return NewStoean(scale)
}

func (s *Stoean) Name() string {
	return "stoean"
}

// Scale returns a copy of the per-feature normalization vector.
func (s *Stoean) Scale() []float64 {
	return append([]float64(nil), s.scale...)
}

func (s *Stoean) Pairwise(x mat.Matrix, c []float64) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(s.scale) {
		return nil, fmt.Errorf("feature count mismatch: got=%d want=%d", cols, len(s.scale))
	}
	if len(c) != len(s.scale) {
		return nil, fmt.Errorf("reference point length mismatch: got=%d want=%d", len(c), len(s.scale))
	}

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		total := 0.0
		for f := 0; f < cols; f++ {
			if s.scale[f] == 0 {
				continue
			}
			v := x.At(i, f)
			if math.IsNaN(v) {
				continue
			}
			total += math.Abs(v-c[f]) / s.scale[f]
		}
		out[i] = total
	}
	return out, nil
}

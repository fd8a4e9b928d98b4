package dataset

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// FeatureRanges returns the per-feature minimum and maximum over x, ignoring
// NaN entries. A column consisting only of NaN values yields a DataError.
func FeatureRanges(x mat.Matrix) (lo, hi []float64, err error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, ShapeError{Reason: "empty feature matrix"}
	}

	lo = make([]float64, cols)
	hi = make([]float64, cols)
	for f := 0; f < cols; f++ {
		min := math.Inf(1)
		max := math.Inf(-1)
		seen := false
		for i := 0; i < rows; i++ {
			v := x.At(i, f)
			if math.IsNaN(v) {
				continue
			}
			seen = true
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		if !seen {
			return nil, nil, DataError{Reason: fmt.Sprintf("feature %d has no observed values", f)}
		}
		lo[f] = min
		hi[f] = max
	}
	return lo, hi, nil
}

// Scale returns the per-feature range hi − lo, the normalization constant of
// the distance measure.
func Scale(x mat.Matrix) ([]float64, error) {
	lo, hi, err := FeatureRanges(x)
	if err != nil {
		return nil, err
	}
	d := make([]float64, len(lo))
	for i := range d {
		d[i] = hi[i] - lo[i]
	}
	return d, nil
}

// UniqueLabels returns the sorted set of distinct labels.
func UniqueLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// RowsWithLabel copies the rows of t carrying the given label into a new
// dense matrix.
func RowsWithLabel(t Table, label string) *mat.Dense {
	_, cols := t.X.Dims()
	var indices []int
	for i, l := range t.Labels {
		if l == label {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return nil
	}
	out := mat.NewDense(len(indices), cols, nil)
	for i, idx := range indices {
		out.SetRow(i, mat.Row(nil, idx, t.X))
	}
	return out
}

package dataset

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// BlobsConfig controls synthetic cluster generation for benchmarks and tests.
type BlobsConfig struct {
	// Centers holds one prototype point per class; all centers must share the
	// same dimensionality.
	Centers [][]float64
	// RowsPerClass is the number of observations drawn around each center.
	RowsPerClass int
	// Spread is the standard deviation of the per-feature Gaussian noise.
	Spread float64
	Rand   *rand.Rand
}

// Blobs draws a labeled dataset of Gaussian clusters, one cluster per center.
// Labels are "c0", "c1", ... in center order.
func Blobs(cfg BlobsConfig) (Table, error) {
	if len(cfg.Centers) == 0 {
		return Table{}, fmt.Errorf("at least one center is required")
	}
	if cfg.RowsPerClass <= 0 {
		return Table{}, fmt.Errorf("rows per class must be > 0")
	}
	if cfg.Spread < 0 {
		return Table{}, fmt.Errorf("spread must be >= 0")
	}
	if cfg.Rand == nil {
		return Table{}, fmt.Errorf("random source is required")
	}
	features := len(cfg.Centers[0])
	if features == 0 {
		return Table{}, fmt.Errorf("centers must have at least one feature")
	}
	for i, center := range cfg.Centers {
		if len(center) != features {
			return Table{}, fmt.Errorf("center %d has %d features, want %d", i, len(center), features)
		}
	}

	rows := len(cfg.Centers) * cfg.RowsPerClass
	x := mat.NewDense(rows, features, nil)
	labels := make([]string, rows)
	row := 0
	for c, center := range cfg.Centers {
		label := fmt.Sprintf("c%d", c)
		for i := 0; i < cfg.RowsPerClass; i++ {
			for f := 0; f < features; f++ {
				x.Set(row, f, center[f]+cfg.Rand.NormFloat64()*cfg.Spread)
			}
			labels[row] = label
			row++
		}
	}
	return Table{X: x, Labels: labels}, nil
}

// Split partitions a table into train and test halves using a shuffled row
// permutation. trainFrac is clamped so both halves keep at least one row.
func Split(t Table, trainFrac float64, rng *rand.Rand) (train, test Table, err error) {
	if err := Validate(t.X, t.Labels); err != nil {
		return Table{}, Table{}, err
	}
	if rng == nil {
		return Table{}, Table{}, fmt.Errorf("random source is required")
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return Table{}, Table{}, fmt.Errorf("train fraction must be in (0, 1): %g", trainFrac)
	}

	rows, cols := t.X.Dims()
	if rows < 2 {
		return Table{}, Table{}, DataError{Reason: "need at least two rows to split"}
	}
	cut := int(float64(rows) * trainFrac)
	if cut < 1 {
		cut = 1
	}
	if cut > rows-1 {
		cut = rows - 1
	}

	perm := rng.Perm(rows)
	trainX := mat.NewDense(cut, cols, nil)
	testX := mat.NewDense(rows-cut, cols, nil)
	trainLabels := make([]string, cut)
	testLabels := make([]string, rows-cut)
	for i, idx := range perm {
		if i < cut {
			trainX.SetRow(i, mat.Row(nil, idx, t.X))
			trainLabels[i] = t.Labels[idx]
		} else {
			testX.SetRow(i-cut, mat.Row(nil, idx, t.X))
			testLabels[i-cut] = t.Labels[idx]
		}
	}
	return Table{X: trainX, Labels: trainLabels}, Table{X: testX, Labels: testLabels}, nil
}

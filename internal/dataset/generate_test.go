package dataset

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestBlobs(t *testing.T) {
	table, err := Blobs(BlobsConfig{
		Centers:      [][]float64{{0, 0}, {10, 10}},
		RowsPerClass: 5,
		Spread:       0.5,
		Rand:         rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("blobs: %v", err)
	}
	if table.Rows() != 10 || table.Features() != 2 {
		t.Fatalf("got %dx%d want 10x2", table.Rows(), table.Features())
	}
	if got := table.Classes(); !reflect.DeepEqual(got, []string{"c0", "c1"}) {
		t.Fatalf("got classes %v", got)
	}
}

func TestBlobsDeterministic(t *testing.T) {
	cfg := BlobsConfig{
		Centers:      [][]float64{{0}, {5}},
		RowsPerClass: 4,
		Spread:       1,
	}

	cfg.Rand = rand.New(rand.NewSource(11))
	first, err := Blobs(cfg)
	if err != nil {
		t.Fatalf("blobs: %v", err)
	}
	cfg.Rand = rand.New(rand.NewSource(11))
	second, err := Blobs(cfg)
	if err != nil {
		t.Fatalf("blobs: %v", err)
	}

	for i := 0; i < first.Rows(); i++ {
		if first.X.At(i, 0) != second.X.At(i, 0) {
			t.Fatalf("row %d differs: %g vs %g", i, first.X.At(i, 0), second.X.At(i, 0))
		}
	}
}

func TestBlobsValidation(t *testing.T) {
	cases := []BlobsConfig{
		{},
		{Centers: [][]float64{{1}}, RowsPerClass: 0, Rand: rand.New(rand.NewSource(1))},
		{Centers: [][]float64{{1}}, RowsPerClass: 2, Spread: -1, Rand: rand.New(rand.NewSource(1))},
		{Centers: [][]float64{{1}}, RowsPerClass: 2},
		{Centers: [][]float64{{1}, {1, 2}}, RowsPerClass: 2, Rand: rand.New(rand.NewSource(1))},
	}
	for i, cfg := range cases {
		if _, err := Blobs(cfg); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestSplit(t *testing.T) {
	table, err := Blobs(BlobsConfig{
		Centers:      [][]float64{{0, 0}, {10, 10}},
		RowsPerClass: 10,
		Spread:       1,
		Rand:         rand.New(rand.NewSource(3)),
	})
	if err != nil {
		t.Fatalf("blobs: %v", err)
	}

	train, test, err := Split(table, 0.7, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if train.Rows()+test.Rows() != table.Rows() {
		t.Fatalf("split rows %d+%d != %d", train.Rows(), test.Rows(), table.Rows())
	}
	if train.Rows() != 14 {
		t.Fatalf("got %d train rows want 14", train.Rows())
	}
}

func TestSplitRejectsBadFraction(t *testing.T) {
	table, err := FromRows([][]float64{{1}, {2}}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	for _, frac := range []float64{0, 1, -0.5, 2} {
		if _, _, err := Split(table, frac, rand.New(rand.NewSource(1))); err == nil {
			t.Fatalf("expected error for fraction %g", frac)
		}
	}
}

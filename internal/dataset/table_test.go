package dataset

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestFromRows(t *testing.T) {
	table, err := FromRows([][]float64{{1, 2}, {3, 4}}, []string{"a", "b"})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	if table.Rows() != 2 || table.Features() != 2 {
		t.Fatalf("got %dx%d want 2x2", table.Rows(), table.Features())
	}
	if got := table.Classes(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got classes %v", got)
	}
}

func TestFromRowsShapeErrors(t *testing.T) {
	cases := []struct {
		name   string
		rows   [][]float64
		labels []string
	}{
		{name: "empty", rows: nil, labels: nil},
		{name: "label mismatch", rows: [][]float64{{1}}, labels: []string{"a", "b"}},
		{name: "ragged", rows: [][]float64{{1, 2}, {3}}, labels: []string{"a", "b"}},
		{name: "no columns", rows: [][]float64{{}}, labels: []string{"a"}},
	}
	for _, tc := range cases {
		_, err := FromRows(tc.rows, tc.labels)
		var shapeErr ShapeError
		if !errors.As(err, &shapeErr) {
			t.Fatalf("%s: expected ShapeError, got %v", tc.name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	table, err := FromRows([][]float64{{1, 2}}, []string{"a"})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	if err := Validate(table.X, table.Labels); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := Validate(table.X, []string{"a", "b"}); err == nil {
		t.Fatal("expected shape error for label mismatch")
	}
	if err := Validate(nil, nil); err == nil {
		t.Fatal("expected shape error for nil matrix")
	}
}

func TestReadCSV(t *testing.T) {
	in := strings.NewReader("f1,f2,label\n1.5,2,a\n,4,b\n\n3,5,a\n")
	table, err := ReadCSV(in, true)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if table.Rows() != 3 || table.Features() != 2 {
		t.Fatalf("got %dx%d want 3x2", table.Rows(), table.Features())
	}
	if !math.IsNaN(table.X.At(1, 0)) {
		t.Fatalf("expected NaN for empty cell, got %g", table.X.At(1, 0))
	}
	if !reflect.DeepEqual(table.Labels, []string{"a", "b", "a"}) {
		t.Fatalf("got labels %v", table.Labels)
	}
}

func TestReadCSVRejectsBadNumbers(t *testing.T) {
	in := strings.NewReader("1,abc,x\n")
	if _, err := ReadCSV(in, false); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader(""), false); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestUniqueLabelsSorted(t *testing.T) {
	got := UniqueLabels([]string{"b", "a", "b", "c", "a"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRowsWithLabel(t *testing.T) {
	table, err := FromRows([][]float64{{1, 1}, {2, 2}, {3, 3}}, []string{"a", "b", "a"})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}

	subset := RowsWithLabel(table, "a")
	rows, cols := subset.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("got %dx%d want 2x2", rows, cols)
	}
	if subset.At(1, 0) != 3 {
		t.Fatalf("got %g want 3", subset.At(1, 0))
	}

	if RowsWithLabel(table, "missing") != nil {
		t.Fatal("expected nil subset for unknown label")
	}
}

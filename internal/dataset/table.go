package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Table is a labeled numeric dataset: one row per observation, the label
// slice parallel to the rows of X.
type Table struct {
	X      *mat.Dense
	Labels []string
}

// Rows returns the number of observations in the table.
func (t Table) Rows() int {
	if t.X == nil {
		return 0
	}
	r, _ := t.X.Dims()
	return r
}

// Features returns the number of feature columns in the table.
func (t Table) Features() int {
	if t.X == nil {
		return 0
	}
	_, c := t.X.Dims()
	return c
}

// Classes returns the sorted unique labels of the table.
func (t Table) Classes() []string {
	return UniqueLabels(t.Labels)
}

// FromRows builds a table from row-major float data and parallel labels.
func FromRows(rows [][]float64, labels []string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ShapeError{Reason: "no rows"}
	}
	if len(rows) != len(labels) {
		return Table{}, ShapeError{Reason: fmt.Sprintf("rows=%d labels=%d", len(rows), len(labels))}
	}
	cols := len(rows[0])
	if cols == 0 {
		return Table{}, ShapeError{Reason: "no feature columns"}
	}
	x := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return Table{}, ShapeError{Reason: fmt.Sprintf("row %d has %d columns, want %d", i, len(row), cols)}
		}
		x.SetRow(i, row)
	}
	return Table{X: x, Labels: append([]string(nil), labels...)}, nil
}

// Validate checks that a feature matrix and a label slice form a rectangular
// labeled dataset.
func Validate(x mat.Matrix, labels []string) error {
	if x == nil {
		return ShapeError{Reason: "nil feature matrix"}
	}
	rows, cols := x.Dims()
	if rows == 0 {
		return ShapeError{Reason: "no rows"}
	}
	if cols == 0 {
		return ShapeError{Reason: "no feature columns"}
	}
	if rows != len(labels) {
		return ShapeError{Reason: fmt.Sprintf("rows=%d labels=%d", rows, len(labels))}
	}
	return nil
}

// ReadCSV parses a labeled dataset from CSV. The last column holds the class
// label, all preceding columns must be numeric; empty numeric cells become
// NaN (missing). A header row is skipped when hasHeader is set.
func ReadCSV(in io.Reader, hasHeader bool) (Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	if hasHeader {
		if _, err := reader.Read(); err == io.EOF {
			return Table{}, ShapeError{Reason: "no rows"}
		} else if err != nil {
			return Table{}, fmt.Errorf("read csv header: %w", err)
		}
	}

	var rows [][]float64
	var labels []string
	rowIndex := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read csv row %d: %w", rowIndex, err)
		}
		if blankRecord(record) {
			continue
		}
		if len(record) < 2 {
			return Table{}, ShapeError{Reason: fmt.Sprintf("row %d has %d columns, want at least 2", rowIndex, len(record))}
		}

		row := make([]float64, len(record)-1)
		for i, field := range record[:len(record)-1] {
			field = strings.TrimSpace(field)
			if field == "" {
				row[i] = math.NaN()
				continue
			}
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Table{}, fmt.Errorf("parse csv row %d column %d: %w", rowIndex, i+1, err)
			}
			row[i] = value
		}
		rows = append(rows, row)
		labels = append(labels, strings.TrimSpace(record[len(record)-1]))
		rowIndex++
	}

	return FromRows(rows, labels)
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

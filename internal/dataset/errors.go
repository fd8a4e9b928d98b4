package dataset

import "fmt"

// ShapeError reports a malformed or mismatched input table.
type ShapeError struct {
	Reason string
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("invalid input shape: %s", e.Reason)
}

// DataError reports data that cannot support the requested computation,
// such as an all-missing feature column or an empty class subset.
type DataError struct {
	Reason string
}

func (e DataError) Error() string {
	return fmt.Sprintf("degenerate data: %s", e.Reason)
}

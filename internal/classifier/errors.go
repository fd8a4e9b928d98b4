package classifier

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned by Predict when Fit has not completed.
var ErrNotFitted = errors.New("classifier is not fitted")

// DimensionError reports a feature-count mismatch between the data seen at
// fit time and the data offered at predict time.
type DimensionError struct {
	Got  int
	Want int
}

func (e DimensionError) Error() string {
	return fmt.Sprintf("feature count mismatch: got=%d want=%d", e.Got, e.Want)
}

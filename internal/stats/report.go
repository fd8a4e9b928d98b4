package stats

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Report summarizes classification quality on a labeled evaluation set.
type Report struct {
	Rows     int                `json:"rows"`
	Accuracy float64            `json:"accuracy"`
	PerClass map[string]float64 `json:"per_class_accuracy"`
}

// BuildReport compares predicted labels against actual labels.
func BuildReport(predicted, actual []string) (Report, error) {
	if len(predicted) != len(actual) {
		return Report{}, fmt.Errorf("label length mismatch: predicted=%d actual=%d", len(predicted), len(actual))
	}
	if len(actual) == 0 {
		return Report{}, fmt.Errorf("no labels to score")
	}

	hits := make([]float64, len(actual))
	classHits := make(map[string][]float64)
	for i := range actual {
		hit := 0.0
		if predicted[i] == actual[i] {
			hit = 1.0
		}
		hits[i] = hit
		classHits[actual[i]] = append(classHits[actual[i]], hit)
	}

	perClass := make(map[string]float64, len(classHits))
	for class, h := range classHits {
		perClass[class] = stat.Mean(h, nil)
	}

	return Report{
		Rows:     len(actual),
		Accuracy: stat.Mean(hits, nil),
		PerClass: perClass,
	}, nil
}

// Render formats the report as a small fixed-order text table.
func (r Report) Render() string {
	classes := make([]string, 0, len(r.PerClass))
	for class := range r.PerClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", r.Rows)
	fmt.Fprintf(&b, "accuracy: %.4f\n", r.Accuracy)
	for _, class := range classes {
		fmt.Fprintf(&b, "class %s: %.4f\n", class, r.PerClass[class])
	}
	return b.String()
}

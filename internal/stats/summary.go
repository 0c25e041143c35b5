// Package stats aggregates per-generation fitness distributions and renders
// run reports.
package stats

import (
	"fmt"
	"sort"
)

// Summary is the fitness distribution of one generation.
type Summary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Sum    float64 `json:"sum"`
	ArgMin int     `json:"arg_min"`
	ArgMax int     `json:"arg_max"`
}

// Summarize computes min, max, mean, median and sum over the fitness vector.
// An empty vector is a configuration fault of the caller.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("cannot summarize an empty fitness vector")
	}

	s := Summary{Min: values[0], Max: values[0]}
	for i, v := range values {
		s.Sum += v
		if v < s.Min {
			s.Min = v
			s.ArgMin = i
		}
		if v > s.Max {
			s.Max = v
			s.ArgMax = i
		}
	}
	s.Mean = s.Sum / float64(len(values))

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		s.Median = sorted[mid]
	} else {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return s, nil
}

package deident

import (
	"math"
	"math/rand"

	"echo-deidentifier/internal/table"
)

// Perturb replaces every numeric value in each jittered feature column with
// value + U(-m, +m). Magnitudes of one or more round to the nearest integer,
// smaller magnitudes to one decimal. Draws are independent per cell; no
// patient-level consistency is kept, the goal is value obfuscation rather
// than trend-preserving noise. Returns the number of cells modified.
// Non-numeric and null cells are left alone.
func Perturb(t *table.Table, features []Feature, rng *rand.Rand) int {
	modified := 0
	for _, f := range features {
		if f.Remove || f.Jitter == 0 {
			continue
		}
		col, ok := table.Resolve(t.Columns, f.Column)
		if !ok {
			continue
		}
		for _, r := range t.Rows {
			cell, present := r[col]
			if !present {
				continue
			}
			v, numeric := table.ParseNumber(cell)
			if !numeric {
				continue
			}
			jittered := v + (rng.Float64()*2-1)*f.Jitter
			if f.Jitter >= 1 {
				jittered = math.Round(jittered)
			} else {
				jittered = math.Round(jittered*10) / 10
			}
			r[col] = table.Number(jittered)
			modified++
		}
	}
	return modified
}

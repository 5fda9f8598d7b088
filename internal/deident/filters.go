package deident

import (
	"echo-deidentifier/internal/table"
)

// Each cohort filter decides per patient whether the patient qualifies and
// then keeps all of that patient's rows, not just the qualifying one. The
// three qualifications commute; their order only affects which upstream
// state the diagnostic samples reflect.

const indicatorEligible = 8.0

// FilterIndicator keeps patients with at least one row whose indicator
// column numerically equals 8. Textual "8" and "8.0" count; non-numeric
// cells are skipped, never coerced to zero.
func FilterIndicator(t *table.Table, pnrColumn, indikColumn string) (*table.Table, error) {
	qualifies := func(r table.Row) bool {
		v, ok := table.ParseNumber(r[indikColumn])
		return ok && v == indicatorEligible
	}
	out := keepQualifyingPatients(t, pnrColumn, qualifies)
	if len(out.Rows) == 0 {
		return nil, &EmptyCohortError{
			Stage:   "indicator filter",
			Column:  indikColumn,
			Samples: sampleValues(t.Rows, indikColumn, 10),
		}
	}
	return out, nil
}

// FilterThreshold keeps patients with at least one visit whose peak velocity
// is at or above the threshold.
func FilterThreshold(t *table.Table, pnrColumn, vmaxColumn string, threshold float64) (*table.Table, error) {
	qualifies := func(r table.Row) bool {
		v, ok := table.ParseNumber(r[vmaxColumn])
		return ok && v >= threshold
	}
	out := keepQualifyingPatients(t, pnrColumn, qualifies)
	if len(out.Rows) == 0 {
		return nil, &EmptyCohortError{
			Stage:   "velocity threshold filter",
			Column:  vmaxColumn,
			Samples: sampleValues(t.Rows, vmaxColumn, 10),
		}
	}
	return out, nil
}

// FilterMinVisits keeps patients with at least minVisits rows remaining
// after the upstream filters.
func FilterMinVisits(t *table.Table, pnrColumn string, minVisits int) (*table.Table, error) {
	out := table.New(t.Columns)
	for _, g := range table.GroupByPatient(t.Rows, pnrColumn) {
		if len(g.Indices) < minVisits {
			continue
		}
		for _, i := range g.Indices {
			out.Rows = append(out.Rows, t.Rows[i].Clone())
		}
	}
	if len(out.Rows) == 0 {
		return nil, &EmptyCohortError{Stage: "visit frequency filter", Column: pnrColumn}
	}
	return out, nil
}

// keepQualifyingPatients rebuilds the table with every row of every patient
// for whom qualifies returns true on at least one row. Table order among the
// surviving rows is preserved.
func keepQualifyingPatients(t *table.Table, pnrColumn string, qualifies func(table.Row) bool) *table.Table {
	keep := make(map[string]bool)
	for _, g := range table.GroupByPatient(t.Rows, pnrColumn) {
		for _, i := range g.Indices {
			if qualifies(t.Rows[i]) {
				keep[g.Key] = true
				break
			}
		}
	}

	out := table.New(t.Columns)
	for _, r := range t.Rows {
		if keep[r[pnrColumn].Text()] {
			out.Rows = append(out.Rows, r.Clone())
		}
	}
	return out
}

// sampleValues collects up to max distinct raw values of a column, in row
// order, for empty-cohort diagnostics. Absent cells are skipped.
func sampleValues(rows []table.Row, column string, max int) []string {
	seen := make(map[string]bool)
	var samples []string
	for _, r := range rows {
		c, ok := r[column]
		if !ok {
			continue
		}
		v := c.Text()
		if seen[v] {
			continue
		}
		seen[v] = true
		samples = append(samples, v)
		if len(samples) == max {
			break
		}
	}
	return samples
}

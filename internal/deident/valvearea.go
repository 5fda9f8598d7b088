package deident

import (
	"math"

	"echo-deidentifier/internal/table"
)

// ComputeAVA derives the aortic valve area for every row via the continuity
// equation: the LVOT diameter (millimeters) gives the outflow-tract
// cross-section, scaled by the ratio of the two velocity-time integrals.
//
//	area = pi * (d_cm / 2)^2
//	AVA  = area * VTI_lvot / VTI_ao
//
// Rows with a missing or non-numeric input, or a zero denominator, get an
// explicit null marker and are kept. Returns how many rows computed.
func ComputeAVA(t *table.Table, diamColumn, lvotVTIColumn, aoVTIColumn string) int {
	t.Columns = append(t.Columns, AVAColumn)

	computed := 0
	for _, r := range t.Rows {
		diam, okD := table.ParseNumber(r[diamColumn])
		lvotVTI, okL := table.ParseNumber(r[lvotVTIColumn])
		aoVTI, okA := table.ParseNumber(r[aoVTIColumn])
		if !okD || !okL || !okA || aoVTI == 0 {
			r[AVAColumn] = table.Null
			continue
		}
		radius := diam / 10 / 2
		area := math.Pi * radius * radius
		r[AVAColumn] = table.Number(area * lvotVTI / aoVTI)
		computed++
	}
	return computed
}

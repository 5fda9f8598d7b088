package deident

import (
	"fmt"

	"echo-deidentifier/internal/table"
)

// Canonical column names of the echo export. Resolution is always by
// normalized spelling, so case and stray whitespace in the source header do
// not matter.
const (
	ColumnPNR       = "PNR"
	ColumnDate      = "Datum"
	ColumnIndicator = "INDIK"
)

// VmaxSpellings are the spellings under which the peak-velocity column has
// been seen in source files, tried in order. The first hit wins; later
// spellings are never merged in.
var VmaxSpellings = []string{
	"Vmax, m/s",
	"Vmax (m/s)",
	"Vmax m/s",
	"Vmax,m/s",
	"Vmax",
}

// Source columns for the derived valve-area field.
var (
	LVOTDiamSpellings = []string{"LVOT diam", "LVOT diam (mm)", "LVOT-diam"}
	LVOTVTISpellings  = []string{"LVOT VTI", "VTI LVOT"}
	AOVTISpellings    = []string{"AO VTI", "Ao VTI (m/s)", "VTI AO"}
)

// AVAColumn is the derived aortic-valve-area column added by the calculator.
const AVAColumn = "AVA (calc)"

// Feature declares the de-identification action for one canonical column:
// either remove the column entirely, or jitter its numeric values by a
// magnitude. A column never carries both actions.
type Feature struct {
	Column string
	Remove bool
	Jitter float64
}

// DefaultFeatures is the fixed feature map for echocardiography visit
// exports. Direct identifiers and free text are removed; quasi-identifying
// measurements are jittered. PNR and Datum are handled by their own stages
// and must never appear here.
var DefaultFeatures = []Feature{
	{Column: "Namn", Remove: true},
	{Column: "Remissnr", Remove: true},
	{Column: "Kommentar", Remove: true},
	{Column: "Ålder", Jitter: 2},
	{Column: "Längd", Jitter: 3},
	{Column: "Vikt", Jitter: 3},
	{Column: "BSA", Jitter: 0.1},
}

// ValidateFeatures rejects maps where a column is named twice or carries
// both actions.
func ValidateFeatures(features []Feature) error {
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		key := table.Normalize(f.Column)
		if seen[key] {
			return fmt.Errorf("feature map names column %q more than once", f.Column)
		}
		seen[key] = true
		if f.Remove && f.Jitter != 0 {
			return fmt.Errorf("feature map column %q has both remove and jitter actions", f.Column)
		}
		if f.Jitter < 0 {
			return fmt.Errorf("feature map column %q has negative jitter magnitude", f.Column)
		}
	}
	return nil
}

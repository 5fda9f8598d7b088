// Package deident implements the de-identification pipeline for
// echocardiography visit exports: cohort filtering, patient-key
// pseudonymization, date-to-relative-day rewriting, bounded numeric
// perturbation, derived valve area, and sensitive-column pruning.
package deident

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"echo-deidentifier/internal/export"
	"echo-deidentifier/internal/progress"
	"echo-deidentifier/internal/table"
)

// Config holds one run's settings. Thresholds and the feature map are fixed
// before the run starts; nothing is reconfigurable mid-pipeline.
type Config struct {
	Threshold       float64 // peak-velocity cutoff, m/s
	MinVisits       int     // visit-frequency floor
	IndicatorFilter bool    // legacy indicator-code filter
	DropIndicator   bool    // remove the indicator column from the export
	ComputeAVA      bool    // derive valve area via the continuity equation
	Features        []Feature
	DryRun          bool // stop after filtering, report the funnel only

	Rand         *rand.Rand     // injected so tests can pin the draws
	Logger       *zap.Logger    // nil means no logging
	Reporter     *progress.Reporter
	OutputWriter func(string) // shell-facing human text, nil to suppress
}

// Stats are the diagnostic counters returned alongside the output table.
type Stats struct {
	RowsIn             int
	RowsAfterIndicator int
	RowsAfterThreshold int
	RowsAfterFrequency int
	Patients           int
	JitteredCells      int
	AVAComputed        int
	ColumnsRemoved     []string
}

// Run executes the whole pipeline over an in-memory table and returns the
// research-ready table plus diagnostics. Every structural problem is fatal:
// no partial table is ever returned alongside an error.
func Run(cfg Config, t *table.Table) (*table.Table, *Stats, error) {
	output := cfg.OutputWriter
	if output == nil {
		output = func(string) {}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		return nil, nil, fmt.Errorf("configuration: no random source")
	}
	if err := ValidateFeatures(cfg.Features); err != nil {
		return nil, nil, fmt.Errorf("configuration: %w", err)
	}

	if len(t.Rows) == 0 {
		return nil, nil, &InputError{Reason: "the sheet contains no data rows"}
	}

	stats := &Stats{RowsIn: len(t.Rows)}
	cfg.Reporter.Report("parsed", len(t.Rows), len(t.Columns))
	output(fmt.Sprintf("Loaded %d row(s), %d column(s)\n", len(t.Rows), len(t.Columns)))

	// Resolve the required columns up front so a bad header fails before
	// any rows are touched.
	pnrCol, ok := table.Resolve(t.Columns, ColumnPNR)
	if !ok {
		return nil, nil, &MissingColumnError{Column: ColumnPNR}
	}
	dateCol, ok := table.Resolve(t.Columns, ColumnDate)
	if !ok {
		return nil, nil, &MissingColumnError{Column: ColumnDate}
	}
	vmaxCol, ok := table.ResolveAny(t.Columns, VmaxSpellings)
	if !ok {
		return nil, nil, &MissingColumnError{Column: VmaxSpellings[0]}
	}
	indikCol := ""
	if cfg.IndicatorFilter || cfg.DropIndicator {
		indikCol, ok = table.Resolve(t.Columns, ColumnIndicator)
		if !ok {
			return nil, nil, &MissingColumnError{Column: ColumnIndicator}
		}
	}
	logger.Info("columns resolved",
		zap.String("pnr", pnrCol),
		zap.String("date", dateCol),
		zap.String("vmax", vmaxCol),
		zap.String("indicator", indikCol))

	// Cohort filter chain. Each filter qualifies whole patients and keeps
	// all of their rows.
	var err error
	if cfg.IndicatorFilter {
		t, err = FilterIndicator(t, pnrCol, indikCol)
		if err != nil {
			return nil, nil, err
		}
	}
	stats.RowsAfterIndicator = len(t.Rows)
	cfg.Reporter.Report("indicator filter", len(t.Rows), len(t.Columns))

	t, err = FilterThreshold(t, pnrCol, vmaxCol, cfg.Threshold)
	if err != nil {
		return nil, nil, err
	}
	stats.RowsAfterThreshold = len(t.Rows)
	cfg.Reporter.Report("velocity threshold filter", len(t.Rows), len(t.Columns))
	output(fmt.Sprintf("After Vmax >= %.1f m/s: %d row(s)\n", cfg.Threshold, len(t.Rows)))

	t, err = FilterMinVisits(t, pnrCol, cfg.MinVisits)
	if err != nil {
		return nil, nil, err
	}
	stats.RowsAfterFrequency = len(t.Rows)
	cfg.Reporter.Report("visit frequency filter", len(t.Rows), len(t.Columns))
	output(fmt.Sprintf("After >= %d visit(s) per patient: %d row(s)\n", cfg.MinVisits, len(t.Rows)))

	if cfg.DryRun {
		stats.Patients = len(table.GroupByPatient(t.Rows, pnrCol))
		output(fmt.Sprintf("[dry run] %d patient(s) would be de-identified\n", stats.Patients))
		return t, stats, nil
	}

	// De-identification. Rows were rebuilt at the last filter boundary, so
	// in-place rewrites are stage-local from here on.
	stats.Patients = Pseudonymize(t, pnrCol, cfg.Rand)
	cfg.Reporter.Report("pseudonymization", len(t.Rows), len(t.Columns))
	output(fmt.Sprintf("Pseudonymized %d patient(s)\n", stats.Patients))

	if err := AnonymizeDates(t, pnrCol, dateCol); err != nil {
		return nil, nil, err
	}
	cfg.Reporter.Report("date anonymization", len(t.Rows), len(t.Columns))

	stats.JitteredCells = Perturb(t, cfg.Features, cfg.Rand)
	cfg.Reporter.Report("numeric perturbation", len(t.Rows), len(t.Columns))
	output(fmt.Sprintf("Perturbed %d cell value(s)\n", stats.JitteredCells))

	if cfg.ComputeAVA {
		diamCol, _ := table.ResolveAny(t.Columns, LVOTDiamSpellings)
		lvotCol, _ := table.ResolveAny(t.Columns, LVOTVTISpellings)
		aoCol, _ := table.ResolveAny(t.Columns, AOVTISpellings)
		stats.AVAComputed = ComputeAVA(t, diamCol, lvotCol, aoCol)
		cfg.Reporter.Report("valve area", len(t.Rows), len(t.Columns))
		output(fmt.Sprintf("Computed valve area for %d row(s)\n", stats.AVAComputed))
	}

	remove := make([]string, 0, len(cfg.Features)+1)
	for _, f := range cfg.Features {
		if f.Remove {
			remove = append(remove, f.Column)
		}
	}
	if cfg.DropIndicator {
		remove = append(remove, indikCol)
	}
	t, stats.ColumnsRemoved = export.Prune(t, remove)
	cfg.Reporter.Report("column pruning", len(t.Rows), len(t.Columns))
	if len(stats.ColumnsRemoved) > 0 {
		output(fmt.Sprintf("Removed column(s): %v\n", stats.ColumnsRemoved))
	}

	logger.Info("pipeline complete",
		zap.Int("rows", len(t.Rows)),
		zap.Int("patients", stats.Patients),
		zap.Int("jittered", stats.JitteredCells))

	return t, stats, nil
}

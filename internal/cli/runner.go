// Package cli drives a terminal run: parse the workbook, run the pipeline,
// write the CSV next to the input file.
package cli

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"echo-deidentifier/internal/deident"
	"echo-deidentifier/internal/export"
	"echo-deidentifier/internal/progress"
	"echo-deidentifier/internal/xlsx"
)

// Options holds CLI configuration options.
type Options struct {
	InputFile       string
	Threshold       float64
	MinVisits       int
	IndicatorFilter bool
	DropIndicator   bool
	ComputeAVA      bool
	Seed            int64 // 0 means draw a fresh seed
	DryRun          bool
	Verbose         bool
}

// Stage names in pipeline order, for the progress bar.
var stageNames = []string{
	"parsed",
	"indicator filter",
	"velocity threshold filter",
	"visit frequency filter",
	"pseudonymization",
	"date anonymization",
	"numeric perturbation",
	"valve area",
	"column pruning",
}

// Run executes the de-identification pipeline in CLI mode.
func Run(opts Options) error {
	info, err := os.Stat(opts.InputFile)
	if err != nil {
		return fmt.Errorf("input file does not exist: %s", opts.InputFile)
	}
	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a workbook: %s", opts.InputFile)
	}

	logger := zap.NewNop()
	if opts.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("could not create logger: %w", err)
		}
		defer logger.Sync()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = freshSeed()
	}

	printHeader(opts)

	t, err := xlsx.Read(opts.InputFile)
	if err != nil {
		return err
	}

	pb := newProgressBar(40)
	reporter := progress.NewReporter()
	stageIndex := make(map[string]int, len(stageNames))
	for i, n := range stageNames {
		stageIndex[n] = i
	}
	reporter.Subscribe(func(s progress.Stage) {
		pb.update(stageIndex[s.Name]+1, len(stageNames))
		logger.Info("stage", zap.String("name", s.Name),
			zap.Int("rows", s.Rows), zap.Int("columns", s.Columns))
	})

	cfg := deident.Config{
		Threshold:       opts.Threshold,
		MinVisits:       opts.MinVisits,
		IndicatorFilter: opts.IndicatorFilter,
		DropIndicator:   opts.DropIndicator,
		ComputeAVA:      opts.ComputeAVA,
		Features:        deident.DefaultFeatures,
		DryRun:          opts.DryRun,
		Rand:            rand.New(rand.NewSource(seed)),
		Logger:          logger,
		Reporter:        reporter,
	}

	out, stats, err := deident.Run(cfg, t)
	if err != nil {
		fmt.Println()
		return err
	}
	pb.update(len(stageNames), len(stageNames))
	fmt.Println()

	if opts.DryRun {
		printSummary(stats, "(dry run, nothing written)")
		return nil
	}

	outPath := filepath.Join(filepath.Dir(opts.InputFile), export.OutputName(opts.InputFile))
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer f.Close()
	if err := export.WriteCSV(f, out); err != nil {
		return fmt.Errorf("could not write CSV: %w", err)
	}

	printSummary(stats, outPath)
	return nil
}

// freshSeed derives a seed from the system's entropy source so pseudonyms
// differ between runs unless the operator pins -seed.
func freshSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// printHeader prints the CLI header with configuration.
func printHeader(opts Options) {
	fmt.Println("Echo Export De-identifier")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Input:      %s\n", opts.InputFile)
	fmt.Printf("Threshold:  Vmax >= %.1f m/s\n", opts.Threshold)
	fmt.Printf("Min visits: %d\n", opts.MinVisits)

	var options []string
	if opts.IndicatorFilter {
		options = append(options, "Indicator filter")
	}
	if opts.DropIndicator {
		options = append(options, "Drop indicator column")
	}
	if opts.ComputeAVA {
		options = append(options, "Valve area")
	}
	if opts.DryRun {
		options = append(options, "Dry run")
	}
	if len(options) > 0 {
		fmt.Printf("Options:    %s\n", strings.Join(options, ", "))
	}
	fmt.Println()
}

// printSummary prints the processing summary.
func printSummary(stats *deident.Stats, outPath string) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Rows:      %d in, %d exported\n", stats.RowsIn, stats.RowsAfterFrequency)
	fmt.Printf("Patients:  %d pseudonymized\n", stats.Patients)
	fmt.Printf("Cells:     %d perturbed\n", stats.JitteredCells)
	if stats.AVAComputed > 0 {
		fmt.Printf("AVA:       computed for %d row(s)\n", stats.AVAComputed)
	}
	if len(stats.ColumnsRemoved) > 0 {
		fmt.Printf("Removed:   %s\n", strings.Join(stats.ColumnsRemoved, ", "))
	}
	fmt.Printf("Output:    %s\n", outPath)
}

// progressBar represents a terminal progress bar.
type progressBar struct {
	width int
}

func newProgressBar(width int) *progressBar {
	return &progressBar{width: width}
}

// update redraws the bar in place.
func (pb *progressBar) update(current, total int) {
	if total == 0 {
		return
	}
	percent := float64(current) / float64(total)
	filled := int(percent * float64(pb.width))
	if filled > pb.width {
		filled = pb.width
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", pb.width-filled)
	fmt.Printf("\r[%s] %3.0f%%", bar, percent*100)
}

package main

import (
	"flag"
	"fmt"
	"os"

	"echo-deidentifier/internal/cli"
	"echo-deidentifier/internal/config"
	"echo-deidentifier/internal/gui"
)

func main() {
	// Environment/.env defaults; flags override.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	input := flag.String("input", "", "Input workbook (.xlsx)")
	inputShort := flag.String("i", "", "Input workbook (shorthand)")

	threshold := flag.Float64("threshold", cfg.Threshold, "Peak-velocity cohort threshold, m/s")
	minVisits := flag.Int("min-visits", cfg.MinVisits, "Minimum visits per patient")
	indik := flag.Bool("indik", cfg.IndicatorFilter, "Require indicator code 8 (legacy cohorts)")
	dropIndik := flag.Bool("drop-indik", cfg.DropIndicator, "Remove the indicator column from the export")
	ava := flag.Bool("ava", cfg.ComputeAVA, "Compute valve area via the continuity equation")

	seed := flag.Int64("seed", 0, "Random seed for reproducible pseudonyms (0 = fresh)")
	verbose := flag.Bool("v", false, "Verbose stage logging")

	dryRun := flag.Bool("dry-run", false, "Filter and report counts only, write nothing")
	dryRunShort := flag.Bool("n", false, "Dry run (shorthand)")

	help := flag.Bool("help", false, "Show help message")
	helpShort := flag.Bool("h", false, "Help (shorthand)")

	flag.Usage = func() {
		cli.PrintUsage()
	}

	flag.Parse()

	if *help || *helpShort {
		cli.PrintUsage()
		return
	}

	inputFile := *input
	if inputFile == "" {
		inputFile = *inputShort
	}

	// No input file specified = GUI mode
	if inputFile == "" {
		app := gui.NewApp()
		app.Run()
		return
	}

	opts := cli.Options{
		InputFile:       inputFile,
		Threshold:       *threshold,
		MinVisits:       *minVisits,
		IndicatorFilter: *indik,
		DropIndicator:   *dropIndik,
		ComputeAVA:      *ava,
		Seed:            *seed,
		DryRun:          *dryRun || *dryRunShort,
		Verbose:         *verbose,
	}

	if err := cli.Run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

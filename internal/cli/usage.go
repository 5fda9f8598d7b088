package cli

import "fmt"

// PrintUsage prints CLI usage information
func PrintUsage() {
	fmt.Println(`Echo Export De-identifier - Command Line Interface

USAGE:
  echodeid                    Launch GUI (default)
  echodeid -i <file> [flags]  Run CLI mode

The tool reads the first sheet of an echocardiography visit export, keeps
the qualifying patient cohort, de-identifies it (pseudonymized patient IDs,
visit dates rewritten as days since each patient's first visit, jittered
quasi-identifiers, sensitive columns removed) and writes a CSV next to the
input file. The pseudonymization key is never written anywhere: the same
input produces different pseudonyms on every run unless -seed is pinned.

FLAGS:
  -i, --input <file>   Input workbook, .xlsx (required for CLI)
      --threshold <v>  Peak-velocity cohort cutoff in m/s (default 4.0)
      --min-visits <n> Minimum visits per patient (default 5)
      --indik          Require indicator code 8 (legacy cohorts)
      --drop-indik     Remove the indicator column from the export
      --ava            Compute valve area via the continuity equation (default true)
      --seed <n>       Random seed for reproducible pseudonyms
  -n, --dry-run        Filter and report counts only, write nothing
  -v                   Verbose stage logging
  -h, --help           Show this help message

ENVIRONMENT:
  Defaults can also come from the environment or a .env file:
  ECHODEID_THRESHOLD, ECHODEID_MIN_VISITS, ECHODEID_INDICATOR_FILTER,
  ECHODEID_DROP_INDICATOR, ECHODEID_COMPUTE_AVA.

EXAMPLES:
  # Preview the cohort funnel without writing anything
  ./echodeid -i visits.xlsx -n

  # Standard run, CSV written next to the input
  ./echodeid -i visits.xlsx

  # Legacy indicator cohort, indicator column removed from the export
  ./echodeid -i visits.xlsx --indik --drop-indik

OUTPUT:
  <input-basename>.csv, UTF-8 with BOM, every field quoted.`)
}

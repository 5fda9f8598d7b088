package deident

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"echo-deidentifier/internal/progress"
	"echo-deidentifier/internal/table"
)

func cohortFixture() *table.Table {
	columns := []string{"PNR", "Namn", "Datum", "Vmax, m/s", "Ålder", "INDIK"}
	t := table.New(columns)

	// Qualifying patient: five visits, one above the velocity cutoff.
	dates := []string{"20230510", "20230101", "20230216", "20230330", "20230701"}
	vmax := []float64{3.8, 4.5, 3.9, 3.7, 3.6}
	for i, d := range dates {
		t.Rows = append(t.Rows, table.Row{
			"PNR":       table.String("19450101-1111"),
			"Namn":      table.String("Anna Andersson"),
			"Datum":     table.String(d),
			"Vmax, m/s": table.Number(vmax[i]),
			"Ålder":     table.Number(78),
			"INDIK":     table.Number(8),
		})
	}

	// Below threshold on every visit, filtered out with all rows.
	for _, d := range []string{"20230105", "20230207"} {
		t.Rows = append(t.Rows, table.Row{
			"PNR":       table.String("19560202-2222"),
			"Namn":      table.String("Bertil Berg"),
			"Datum":     table.String(d),
			"Vmax, m/s": table.Number(2.1),
			"Ålder":     table.Number(67),
			"INDIK":     table.Number(8),
		})
	}
	return t
}

func baseConfig() Config {
	return Config{
		Threshold:     4.0,
		MinVisits:     5,
		DropIndicator: true,
		Features:      DefaultFeatures,
		Rand:          rand.New(rand.NewSource(11)),
	}
}

func TestRunFullPipeline(t *testing.T) {
	var lines []string
	cfg := baseConfig()
	cfg.OutputWriter = func(s string) { lines = append(lines, s) }

	var stages []string
	reporter := progress.NewReporter()
	reporter.Subscribe(func(s progress.Stage) { stages = append(stages, s.Name) })
	cfg.Reporter = reporter

	out, stats, err := Run(cfg, cohortFixture())
	require.NoError(t, err)

	require.Equal(t, 7, stats.RowsIn)
	require.Equal(t, 5, stats.RowsAfterThreshold)
	require.Equal(t, 5, stats.RowsAfterFrequency)
	require.Equal(t, 1, stats.Patients)
	require.Len(t, out.Rows, 5)

	// Direct identifiers and the indicator column are gone.
	for _, col := range out.Columns {
		norm := table.Normalize(col)
		require.NotEqual(t, "namn", norm)
		require.NotEqual(t, "indik", norm)
	}
	require.ElementsMatch(t, []string{"Namn", "INDIK"}, stats.ColumnsRemoved)

	// One pseudonym shared by all of the surviving patient's rows.
	id, err := strconv.Atoi(out.Rows[0]["PNR"].Text())
	require.NoError(t, err)
	require.GreaterOrEqual(t, id, pseudonymSeedMin)
	for _, r := range out.Rows {
		require.Equal(t, out.Rows[0]["PNR"], r["PNR"])
	}

	// Dates became ascending day offsets starting at zero.
	var prev float64 = -1
	for i, r := range out.Rows {
		offset, ok := r["Datum"].Float()
		require.True(t, ok)
		require.Equal(t, offset, math.Trunc(offset))
		if i == 0 {
			require.Zero(t, offset)
		}
		require.GreaterOrEqual(t, offset, prev)
		prev = offset
	}

	// Ages are jittered integers within the configured bound.
	require.Equal(t, 5, stats.JitteredCells)
	for _, r := range out.Rows {
		age, ok := r["Ålder"].Float()
		require.True(t, ok)
		require.GreaterOrEqual(t, age, 76.0)
		require.LessOrEqual(t, age, 80.0)
	}

	require.Equal(t, []string{
		"parsed",
		"indicator filter",
		"velocity threshold filter",
		"visit frequency filter",
		"pseudonymization",
		"date anonymization",
		"numeric perturbation",
		"column pruning",
	}, stages)
	require.True(t, strings.HasPrefix(lines[0], "Loaded 7 row(s)"))
}

func TestRunComputesValveArea(t *testing.T) {
	in := table.New([]string{"PNR", "Datum", "Vmax", "LVOT diam", "LVOT VTI", "AO VTI"})
	for _, d := range []string{"20230101", "20230201", "20230301", "20230401", "20230501"} {
		in.Rows = append(in.Rows, table.Row{
			"PNR":       table.String("A"),
			"Datum":     table.String(d),
			"Vmax":      table.Number(4.2),
			"LVOT diam": table.Number(20),
			"LVOT VTI":  table.Number(22),
			"AO VTI":    table.Number(55),
		})
	}

	cfg := baseConfig()
	cfg.DropIndicator = false
	cfg.ComputeAVA = true
	cfg.Features = nil

	out, stats, err := Run(cfg, in)
	require.NoError(t, err)
	require.Equal(t, 5, stats.AVAComputed)
	require.Contains(t, out.Columns, AVAColumn)

	got, ok := out.Rows[0][AVAColumn].Float()
	require.True(t, ok)
	require.InDelta(t, math.Pi*22/55, got, 1e-9)
}

func TestRunDryRunStopsAfterFilters(t *testing.T) {
	cfg := baseConfig()
	cfg.DryRun = true

	out, stats, err := Run(cfg, cohortFixture())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Patients)
	require.Zero(t, stats.JitteredCells)

	// Nothing was rewritten: the real patient key and name survive.
	require.Equal(t, "19450101-1111", out.Rows[0]["PNR"].Text())
	require.Equal(t, "Anna Andersson", out.Rows[0]["Namn"].Text())
	require.Equal(t, "20230510", out.Rows[0]["Datum"].Text())
}

func TestRunMissingRequiredColumn(t *testing.T) {
	in := table.New([]string{"Datum", "Vmax"})
	in.Rows = []table.Row{{"Datum": table.String("20230101"), "Vmax": table.Number(4.5)}}

	_, _, err := Run(baseConfig(), in)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "PNR", missing.Column)
}

func TestRunIndicatorColumnOnlyRequiredWhenUsed(t *testing.T) {
	in := cohortFixture()
	in.Columns = in.Columns[:len(in.Columns)-1] // drop INDIK from the header
	for _, r := range in.Rows {
		delete(r, "INDIK")
	}

	cfg := baseConfig()
	cfg.DropIndicator = false
	_, _, err := Run(cfg, in)
	require.NoError(t, err)

	cfg.IndicatorFilter = true
	_, _, err = Run(cfg, cohortFixture())
	require.NoError(t, err, "indicator filter resolves the column when present")

	_, _, err = Run(cfg, in)
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "INDIK", missing.Column)
}

func TestRunEmptyInput(t *testing.T) {
	_, _, err := Run(baseConfig(), table.New([]string{"PNR"}))
	var input *InputError
	require.ErrorAs(t, err, &input)
}

func TestRunRequiresRandomSource(t *testing.T) {
	cfg := baseConfig()
	cfg.Rand = nil
	_, _, err := Run(cfg, cohortFixture())
	require.Error(t, err)
}

func TestRunDeterministicWithSeed(t *testing.T) {
	run := func() *table.Table {
		cfg := baseConfig()
		cfg.Rand = rand.New(rand.NewSource(99))
		out, _, err := Run(cfg, cohortFixture())
		require.NoError(t, err)
		return out
	}

	one := run()
	two := run()
	require.Equal(t, one.Columns, two.Columns)
	require.Equal(t, one.Rows, two.Rows)
}

func TestValidateFeatures(t *testing.T) {
	require.NoError(t, ValidateFeatures(DefaultFeatures))

	err := ValidateFeatures([]Feature{{Column: "Namn", Remove: true}, {Column: "namn ", Jitter: 1}})
	require.Error(t, err, "duplicate columns by normalized spelling")

	err = ValidateFeatures([]Feature{{Column: "Ålder", Remove: true, Jitter: 2}})
	require.Error(t, err, "a column cannot both be removed and jittered")

	err = ValidateFeatures([]Feature{{Column: "Vikt", Jitter: -1}})
	require.Error(t, err)
}

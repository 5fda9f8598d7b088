package deident

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"echo-deidentifier/internal/table"
)

func TestPseudonymizerCounter(t *testing.T) {
	p := NewPseudonymizer(rand.New(rand.NewSource(1)))

	first := p.ID("a")
	require.GreaterOrEqual(t, first, pseudonymSeedMin)
	require.LessOrEqual(t, first, pseudonymSeedMax)

	require.Equal(t, first, p.ID("a"), "repeat lookups are stable")
	require.Equal(t, first+1, p.ID("b"), "counter is contiguous")
	require.Equal(t, 2, p.Count())
}

func TestPseudonymizerSeedRange(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		p := NewPseudonymizer(rand.New(rand.NewSource(seed)))
		id := p.ID("x")
		require.GreaterOrEqual(t, id, pseudonymSeedMin)
		require.LessOrEqual(t, id, pseudonymSeedMax)
	}
}

func TestPseudonymizeRewritesAllVisits(t *testing.T) {
	in := visitTable([]string{"PNR", "Vmax"},
		table.Row{"PNR": table.String("19230115-1234"), "Vmax": table.Number(4.5)},
		table.Row{"PNR": table.String("19340216-5678"), "Vmax": table.Number(4.1)},
		table.Row{"PNR": table.String("19230115-1234"), "Vmax": table.Number(4.8)},
	)

	patients := Pseudonymize(in, "PNR", rand.New(rand.NewSource(7)))
	require.Equal(t, 2, patients)

	// Same patient, same pseudonym; distinct patients, distinct pseudonyms.
	require.Equal(t, in.Rows[0]["PNR"], in.Rows[2]["PNR"])
	require.NotEqual(t, in.Rows[0]["PNR"], in.Rows[1]["PNR"])

	for _, r := range in.Rows {
		id, err := strconv.Atoi(r["PNR"].Text())
		require.NoError(t, err, "pseudonyms are plain integers")
		require.GreaterOrEqual(t, id, pseudonymSeedMin)
		v, ok := r["Vmax"].Float()
		require.True(t, ok)
		require.NotZero(t, v, "other fields are untouched")
	}
}

func TestPseudonymizeDeterministicWithSeed(t *testing.T) {
	build := func() *table.Table {
		return visitTable([]string{"PNR"},
			table.Row{"PNR": table.String("a")},
			table.Row{"PNR": table.String("b")},
		)
	}

	one := build()
	two := build()
	Pseudonymize(one, "PNR", rand.New(rand.NewSource(42)))
	Pseudonymize(two, "PNR", rand.New(rand.NewSource(42)))

	require.Equal(t, one.Rows, two.Rows)
}

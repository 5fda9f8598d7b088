package deident

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"echo-deidentifier/internal/table"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseVisitDate(t *testing.T) {
	tests := []struct {
		name     string
		cell     table.Cell
		expected time.Time
		ok       bool
	}{
		{"native date", table.Date(day(2023, time.January, 15)), day(2023, time.January, 15), true},
		{"eight digit string", table.String("20230115"), day(2023, time.January, 15), true},
		{"six digit day first", table.String("150123"), day(2023, time.January, 15), true},
		{"six digit old year", table.String("150173"), day(1973, time.January, 15), true},
		{"punctuated", table.String("15.01.23"), day(2023, time.January, 15), true},
		{"nine digit identifier", table.String("192301155"), day(1923, time.January, 15), true},
		{"integral serial number", table.Number(44927), day(2023, time.January, 1), true},
		{"fractional serial number", table.Number(44927.5), day(2023, time.January, 1), true},
		{"serial as string", table.String("44927"), day(2023, time.January, 1), true},
		{"eight digit number", table.Number(20230115), day(2023, time.January, 15), true},
		{"month thirteen", table.String("20231315"), time.Time{}, false},
		{"february thirtieth", table.String("20230230"), time.Time{}, false},
		{"six digits no valid reading", table.String("999999"), time.Time{}, false},
		{"seven digits out of serial range", table.String("1234567"), time.Time{}, false},
		{"four digits", table.String("1000"), time.Time{}, false},
		{"no digits", table.String("pending"), time.Time{}, false},
		{"null", table.Null, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseVisitDate(tt.cell)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseVisitDateKeepsCalendarDayAcrossZones(t *testing.T) {
	zone := time.FixedZone("CET", 3600)
	got, ok := ParseVisitDate(table.Date(time.Date(2023, time.January, 15, 0, 0, 0, 0, zone)))
	require.True(t, ok)
	require.True(t, got.Equal(day(2023, time.January, 15)), "got %v", got)
}

func TestAnonymizeDatesMixedFormatsSameDay(t *testing.T) {
	// Two spellings of the same calendar day collapse to offset 0 and the
	// rows keep their entry order.
	in := visitTable([]string{"PNR", "Datum", "Vmax"},
		table.Row{"PNR": table.String("A"), "Datum": table.String("20230115"), "Vmax": table.Number(4.1)},
		table.Row{"PNR": table.String("A"), "Datum": table.String("150123"), "Vmax": table.Number(4.6)},
	)

	require.NoError(t, AnonymizeDates(in, "PNR", "Datum"))

	require.Equal(t, "0", in.Rows[0]["Datum"].Text())
	require.Equal(t, "0", in.Rows[1]["Datum"].Text())
	v, _ := in.Rows[0]["Vmax"].Float()
	require.Equal(t, 4.1, v, "ties keep entry order")
}

func TestAnonymizeDatesOffsetsAndReorder(t *testing.T) {
	in := visitTable([]string{"PNR", "Datum"},
		table.Row{"PNR": table.String("A"), "Datum": table.String("20230120")},
		table.Row{"PNR": table.String("B"), "Datum": table.String("20230301")},
		table.Row{"PNR": table.String("A"), "Datum": table.String("20230115")},
		table.Row{"PNR": table.String("B"), "Datum": table.String("20230311")},
	)

	require.NoError(t, AnonymizeDates(in, "PNR", "Datum"))

	// A's rows are sorted within A's positions (0 and 2), B's within 1 and 3.
	require.Equal(t, "0", in.Rows[0]["Datum"].Text())
	require.Equal(t, "0", in.Rows[1]["Datum"].Text())
	require.Equal(t, "5", in.Rows[2]["Datum"].Text())
	require.Equal(t, "10", in.Rows[3]["Datum"].Text())
	require.Equal(t, "A", in.Rows[0]["PNR"].Text())
	require.Equal(t, "B", in.Rows[1]["PNR"].Text())
}

func TestAnonymizeDatesMissingDateFails(t *testing.T) {
	in := visitTable([]string{"PNR", "Datum"},
		table.Row{"PNR": table.String("A"), "Datum": table.String("20230115")},
		table.Row{"PNR": table.String("A")},
	)

	err := AnonymizeDates(in, "PNR", "Datum")
	var malformed *MalformedValueError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "Datum", malformed.Column)
}

func TestAnonymizeDatesUnparseableReportsRaw(t *testing.T) {
	in := visitTable([]string{"PNR", "Datum"},
		table.Row{"PNR": table.String("A"), "Datum": table.String("next week 99")},
	)

	err := AnonymizeDates(in, "PNR", "Datum")
	var malformed *MalformedValueError
	require.ErrorAs(t, err, &malformed)
	require.Equal(t, "next week 99", malformed.Raw)
	require.Equal(t, "99", malformed.Digits)
}

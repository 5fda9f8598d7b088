package deident

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"echo-deidentifier/internal/table"
)

// Spreadsheet day serials count from 1899-12-30, the convention shared by
// the common desktop spreadsheet formats.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Digit strings of ambiguous length are only reinterpreted as day serials
// when their value lands in the plausible serial range (1902..2173).
const (
	serialMin = 1_000
	serialMax = 100_000
)

// ParseVisitDate parses a raw date cell. Accepted shapes, after stripping
// all non-digit characters from strings:
//
//	native calendar date cell
//	numeric day serial (fractional time-of-day truncated)
//	6 digits  DDMMYY, two-digit year mapped to 2000+YY when YY<50 else 1900+YY
//	8 digits  YYYYMMDD
//	9 digits  century-prefixed national identifier, CC YY MM DD + check digit
//	5-7 digits whose value lies in the serial range, as a day serial
//
// Everything else fails; the caller turns the failure into a fatal
// MalformedValueError naming the raw value.
func ParseVisitDate(c table.Cell) (time.Time, bool) {
	if d, ok := c.Time(); ok {
		// Keep the cell's calendar day; truncating in absolute time would
		// shift a non-UTC midnight to the previous day.
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), true
	}

	if v, ok := c.Float(); ok {
		if v != float64(int64(v)) {
			if v >= serialMin && v < serialMax {
				return serialEpoch.AddDate(0, 0, int(v)), true
			}
			return time.Time{}, false
		}
		// Integral numbers go through the same digit classification as
		// strings, so a date typed as the number 20230115 still parses.
		return parseDigits(strconv.FormatInt(int64(v), 10))
	}

	if c.Kind() == table.KindString {
		return parseDigits(cleanDigits(c.Text()))
	}

	return time.Time{}, false
}

func parseDigits(digits string) (time.Time, bool) {
	switch len(digits) {
	case 8:
		return calendarDate(atoi(digits[0:4]), atoi(digits[4:6]), atoi(digits[6:8]))
	case 9:
		year := atoi(digits[0:2])*100 + atoi(digits[2:4])
		return calendarDate(year, atoi(digits[4:6]), atoi(digits[6:8]))
	case 6:
		// Local exports write short dates day-first.
		yy := atoi(digits[4:6])
		year := 1900 + yy
		if yy < 50 {
			year = 2000 + yy
		}
		if d, ok := calendarDate(year, atoi(digits[2:4]), atoi(digits[0:2])); ok {
			return d, true
		}
		return serialInRange(digits)
	case 5, 7:
		return serialInRange(digits)
	default:
		return time.Time{}, false
	}
}

func serialInRange(digits string) (time.Time, bool) {
	v, err := strconv.Atoi(digits)
	if err != nil || v < serialMin || v >= serialMax {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, v), true
}

// calendarDate builds a date and rejects components that time.Date would
// silently normalize, like month 13 or February 30th.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func cleanDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func atoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

// AnonymizeDates sorts each patient's rows by visit date (stable, ties keep
// entry order) and rewrites the date field to whole days since that
// patient's earliest visit. Rows are only reordered within the positions a
// patient already occupies; unrelated patients keep their relative table
// order. A single unparseable or empty date aborts the run.
func AnonymizeDates(t *table.Table, pnrColumn, dateColumn string) error {
	for _, g := range table.GroupByPatient(t.Rows, pnrColumn) {
		dates := make([]time.Time, len(g.Indices))
		for k, i := range g.Indices {
			cell, ok := t.Rows[i][dateColumn]
			if !ok || cell.IsNull() {
				return &MalformedValueError{Column: dateColumn}
			}
			d, parsed := ParseVisitDate(cell)
			if !parsed {
				return &MalformedValueError{
					Column: dateColumn,
					Raw:    cell.Text(),
					Digits: cleanDigits(cell.Text()),
				}
			}
			dates[k] = d
		}

		order := make([]int, len(g.Indices))
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool {
			return dates[order[a]].Before(dates[order[b]])
		})

		first := dates[order[0]]
		sorted := make([]table.Row, len(order))
		for rank, k := range order {
			row := t.Rows[g.Indices[k]]
			offset := int(dates[k].Sub(first).Hours() / 24)
			row[dateColumn] = table.Number(float64(offset))
			sorted[rank] = row
		}
		for rank, i := range g.Indices {
			t.Rows[i] = sorted[rank]
		}
	}
	return nil
}

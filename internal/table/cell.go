package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of value held by a Cell.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindString
	KindDate
)

// Cell is a single spreadsheet cell value. The zero value is a null cell.
// A null cell is distinct from an absent column: absence means the row map
// has no entry for that column at all.
type Cell struct {
	kind Kind
	num  float64
	str  string
	date time.Time
}

// Null is the explicit null marker.
var Null = Cell{}

// Number creates a numeric cell.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// String creates a string cell.
func String(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// Date creates a calendar-date cell.
func Date(t time.Time) Cell {
	return Cell{kind: KindDate, date: t}
}

// Kind returns the cell's value kind.
func (c Cell) Kind() Kind { return c.kind }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.kind == KindNull }

// Float returns the numeric value if the cell is a number.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Time returns the calendar date if the cell is a date.
func (c Cell) Time() (time.Time, bool) {
	if c.kind != KindDate {
		return time.Time{}, false
	}
	return c.date, true
}

// Text renders the cell the way it is shown in diagnostics and in the CSV
// export. Integral numbers render without a decimal point.
func (c Cell) Text() string {
	switch c.kind {
	case KindNumber:
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	case KindString:
		return c.str
	case KindDate:
		return c.date.Format("2006-01-02")
	default:
		return ""
	}
}

// ParseNumber coerces a cell to a number. String cells are parsed after
// trimming whitespace; a decimal comma is accepted because regional exports
// use it. Date and null cells never coerce. This is the single numeric
// coercion point for every threshold and exact-match comparison.
func ParseNumber(c Cell) (float64, bool) {
	switch c.kind {
	case KindNumber:
		return c.num, true
	case KindString:
		s := strings.TrimSpace(c.str)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", ".")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

package table

import (
	"testing"
	"time"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		cell     Cell
		expected float64
		ok       bool
	}{
		{"number", Number(8), 8, true},
		{"integer string", String("8"), 8, true},
		{"decimal string", String("8.0"), 8, true},
		{"decimal comma", String("4,5"), 4.5, true},
		{"padded string", String(" 3.2 "), 3.2, true},
		{"negative", String("-1.5"), -1.5, true},
		{"text", String("n/a"), 0, false},
		{"empty string", String(""), 0, false},
		{"null", Null, 0, false},
		{"date", Date(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.cell)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("ParseNumber(%v) = (%v, %v), want (%v, %v)",
					tt.cell, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		cell     Cell
		expected string
	}{
		{Number(8), "8"},
		{Number(4.5), "4.5"},
		{Number(1234567), "1234567"},
		{String("hello"), "hello"},
		{Date(time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)), "2023-01-15"},
		{Null, ""},
	}

	for _, tt := range tests {
		if got := tt.cell.Text(); got != tt.expected {
			t.Errorf("Text() = %q, want %q", got, tt.expected)
		}
	}
}

func TestRowCloneIsIndependent(t *testing.T) {
	r := Row{"PNR": String("a")}
	c := r.Clone()
	c["PNR"] = String("b")

	if r["PNR"].Text() != "a" {
		t.Errorf("mutating the clone changed the original row")
	}
}

package deident

import (
	"fmt"
	"strings"
)

// The whole run aborts on any of these: silently dropping rows or columns
// from a de-identification export is worse than a loud failure.

// MissingColumnError reports a required column that could not be resolved
// in the sheet's header, under any accepted spelling.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q was not found in the sheet header", e.Column)
}

// EmptyCohortError reports a filter stage that qualified zero patients. It
// carries up to ten distinct raw values observed in the stage's input column
// so the operator can see what the data actually contained.
type EmptyCohortError struct {
	Stage   string
	Column  string
	Samples []string
}

func (e *EmptyCohortError) Error() string {
	msg := fmt.Sprintf("%s: no patients qualified", e.Stage)
	if len(e.Samples) > 0 {
		msg += fmt.Sprintf("; observed values of %q: %s", e.Column, strings.Join(e.Samples, ", "))
	}
	return msg
}

// MalformedValueError reports a date cell that could not be parsed under any
// accepted format, or an empty/absent date value.
type MalformedValueError struct {
	Column string
	Raw    string
	Digits string
}

func (e *MalformedValueError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("column %q: empty date value", e.Column)
	}
	if e.Digits != "" && e.Digits != e.Raw {
		return fmt.Sprintf("column %q: unparseable date %q (digits %q)", e.Column, e.Raw, e.Digits)
	}
	return fmt.Sprintf("column %q: unparseable date %q", e.Column, e.Raw)
}

// InputError reports a source table unusable before any stage runs.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "input: " + e.Reason
}

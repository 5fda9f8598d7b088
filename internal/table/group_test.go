package table

import (
	"reflect"
	"testing"
)

func TestGroupByPatient(t *testing.T) {
	rows := []Row{
		{"PNR": String("a")},
		{"PNR": String("b")},
		{"PNR": String("a")},
		{"PNR": Number(7)},
		{"PNR": String("b")},
	}

	groups := GroupByPatient(rows, "PNR")

	want := []PatientGroup{
		{Key: "a", Indices: []int{0, 2}},
		{Key: "b", Indices: []int{1, 4}},
		{Key: "7", Indices: []int{3}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("GroupByPatient = %+v, want %+v", groups, want)
	}
}

func TestGroupByPatientAbsentKey(t *testing.T) {
	rows := []Row{
		{"PNR": String("a")},
		{}, // no patient key at all
		{"PNR": Null},
	}

	groups := GroupByPatient(rows, "PNR")
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[1].Key != "" || !reflect.DeepEqual(groups[1].Indices, []int{1, 2}) {
		t.Errorf("absent and null keys should group under the empty key, got %+v", groups[1])
	}
}

package table

// PatientGroup holds the ordered row indices belonging to one patient key.
type PatientGroup struct {
	Key     string
	Indices []int
}

// GroupByPatient builds an ordered multimap from patient key to that
// patient's row indices. Patients appear in first-visit order; indices keep
// the table's row order. Rows with an absent or null key cell group under
// the empty key.
func GroupByPatient(rows []Row, pnrColumn string) []PatientGroup {
	byKey := make(map[string]int)
	var groups []PatientGroup
	for i, r := range rows {
		key := r[pnrColumn].Text()
		gi, ok := byKey[key]
		if !ok {
			gi = len(groups)
			byKey[key] = gi
			groups = append(groups, PatientGroup{Key: key})
		}
		groups[gi].Indices = append(groups[gi].Indices, i)
	}
	return groups
}

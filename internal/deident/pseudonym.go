package deident

import (
	"math/rand"

	"echo-deidentifier/internal/table"
)

// Pseudonym counters start at a random 7-digit value so exported IDs carry
// no hint of cohort size or enrollment order.
const (
	pseudonymSeedMin = 1_000_000
	pseudonymSeedMax = 9_999_999
)

// Pseudonymizer assigns each distinct patient key a new integer identifier
// from a single ascending counter. The mapping is a bijection over exactly
// the patients seen in one run and is never written anywhere: once the run
// ends, the key is gone by design.
type Pseudonymizer struct {
	next    int
	mapping map[string]int
}

// NewPseudonymizer seeds the counter uniformly from the 7-digit range using
// the injected random source.
func NewPseudonymizer(rng *rand.Rand) *Pseudonymizer {
	return &Pseudonymizer{
		next:    pseudonymSeedMin + rng.Intn(pseudonymSeedMax-pseudonymSeedMin+1),
		mapping: make(map[string]int),
	}
}

// ID returns the pseudonym for a patient key, assigning the next counter
// value on first sight.
func (p *Pseudonymizer) ID(key string) int {
	if id, ok := p.mapping[key]; ok {
		return id
	}
	id := p.next
	p.next++
	p.mapping[key] = id
	return id
}

// Count returns how many distinct patients have been assigned.
func (p *Pseudonymizer) Count() int { return len(p.mapping) }

// Pseudonymize rewrites every row's patient-key field to the patient's new
// integer identifier, in first-appearance order, and returns the number of
// distinct patients. No other field is touched.
func Pseudonymize(t *table.Table, pnrColumn string, rng *rand.Rand) int {
	p := NewPseudonymizer(rng)
	for _, g := range table.GroupByPatient(t.Rows, pnrColumn) {
		id := p.ID(g.Key)
		for _, i := range g.Indices {
			t.Rows[i][pnrColumn] = table.Number(float64(id))
		}
	}
	return p.Count()
}

package gui

import (
	"sync"
	"testing"

	"echo-deidentifier/internal/table"
)

func TestLoadedTableConcurrentAccess(t *testing.T) {
	// The workbook preview loads on a background goroutine while step
	// validation reads from the UI path; both must go through the guarded
	// accessors.
	s := &StepBuilder{}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.setLoadedTable(table.New([]string{"PNR"}))
		}()
		go func() {
			defer wg.Done()
			s.hasLoadedTable()
		}()
	}
	wg.Wait()

	if !s.hasLoadedTable() {
		t.Errorf("loaded table lost after concurrent updates")
	}
}

func TestSetLoadedTableClears(t *testing.T) {
	s := &StepBuilder{}
	s.setLoadedTable(table.New([]string{"PNR"}))
	s.setLoadedTable(nil)
	if s.hasLoadedTable() {
		t.Errorf("cleared table still reported as loaded")
	}
}

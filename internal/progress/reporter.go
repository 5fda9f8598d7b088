// Package progress fans pipeline stage notifications out to whatever shell
// is driving the run. Notifications are display-only; nothing flows back
// into the pipeline.
package progress

import "sync"

// Stage describes one pipeline stage boundary.
type Stage struct {
	Name    string
	Rows    int
	Columns int
}

// Callback receives stage notifications in pipeline order.
type Callback func(Stage)

// Reporter collects callbacks and broadcasts stage events to all of them.
// A nil *Reporter is valid and reports nothing.
type Reporter struct {
	mu  sync.Mutex
	cbs []Callback
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe registers a callback for stage events.
func (r *Reporter) Subscribe(cb Callback) {
	if r == nil || cb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cbs = append(r.cbs, cb)
}

// Report broadcasts one stage event.
func (r *Reporter) Report(name string, rows, columns int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	cbs := append([]Callback(nil), r.cbs...)
	r.mu.Unlock()

	s := Stage{Name: name, Rows: rows, Columns: columns}
	for _, cb := range cbs {
		cb(s)
	}
}

package core

import "fmt"

// Counters is the per-period triple of report figures, named instead of
// positional — a 3-element array indexed 0/1/2 carries no semantic meaning
// a reader can recover without memorizing the index order.
type Counters struct {
	NewUnique        int64
	Duplicates       int64
	CumulativeUnique int64
}

// Engine ties the Dedup Index, the per-period Counters and the Log
// Buffer together behind one Gate, so a Connection Worker's Apply and the
// Reporter's report generation never interleave.
type Engine struct {
	gate      *Gate
	index     *Index
	counters  Counters
	logBuffer []string
}

// NewEngine returns an Engine with an empty Dedup Index and zeroed
// counters.
func NewEngine() *Engine {
	return &Engine{
		gate:  NewGate(),
		index: NewIndex(),
	}
}

// Apply ingests one record's integer value: index lookup/insert, counter
// update, and — on first sighting — a log buffer append, all under the
// gate.
func (e *Engine) Apply(value int64) {
	e.gate.Enter()
	defer e.gate.Leave()

	switch e.index.Apply(value) {
	case TransitionNewUnique:
		e.counters.NewUnique++
		e.counters.CumulativeUnique++
		e.logBuffer = append(e.logBuffer, formatRecord(value))
	case TransitionFirstDuplicate:
		e.counters.CumulativeUnique--
		e.counters.Duplicates++
	case TransitionRepeatDuplicate:
		e.counters.Duplicates++
	}
}

// Snapshot is an immutable copy of the counters at the moment a report was
// generated.
type Snapshot struct {
	NewUnique        int64
	Duplicates       int64
	CumulativeUnique int64
}

// drainForReport resets the per-period counters and hands back both the
// snapshot to print and the buffered records to flush, all as one atomic
// step under the gate.
func (e *Engine) drainForReport() (Snapshot, []string) {
	e.gate.BeginReport()
	defer e.gate.EndReport()

	snap := Snapshot{
		NewUnique:        e.counters.NewUnique,
		Duplicates:       e.counters.Duplicates,
		CumulativeUnique: e.counters.CumulativeUnique,
	}
	e.counters.NewUnique = 0
	e.counters.Duplicates = 0

	pending := e.logBuffer
	e.logBuffer = nil
	return snap, pending
}

// IndexUniqueCount exposes the Dedup Index's own count of keys with
// duplicated=false, independent of the Counters bookkeeping — used by
// tests to cross-check the two never drift apart.
func (e *Engine) IndexUniqueCount() int {
	return e.index.CountUnique()
}

func formatRecord(value int64) string {
	return fmt.Sprintf("%09d", value)
}

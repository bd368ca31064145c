package core

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// reportLine is the exact stdout line printed once per period.
const reportLine = "Received %d unique numbers, %d duplicates. Unique total: %d\n"

// Reporter is the periodic reporting task: on every fire it snapshots the
// Engine's counters, prints the report line, flushes the buffered log
// records and resets the per-period counters, all as one step so the
// printed line and the persisted records always describe the same
// instant and no record straddles a report.
type Reporter struct {
	engine *Engine
	period time.Duration
	out    io.Writer
	log    io.Writer

	busy int32 // guards against overlapping fires; see Fire.
}

// NewReporter builds a Reporter that prints to out and flushes the Log
// Buffer to log.
func NewReporter(engine *Engine, period time.Duration, out, log io.Writer) *Reporter {
	return &Reporter{engine: engine, period: period, out: out, log: log}
}

// Fire runs one report cycle, skipping the tick outright if a previous
// Fire is still in progress rather than letting two overlap on the gate.
func (r *Reporter) Fire() error {
	if !atomic.CompareAndSwapInt32(&r.busy, 0, 1) {
		return nil
	}
	defer atomic.StoreInt32(&r.busy, 0)

	snap, pending := r.engine.drainForReport()

	if _, err := fmt.Fprintf(r.out, reportLine, snap.NewUnique, snap.Duplicates, snap.CumulativeUnique); err != nil {
		return errors.Wrap(err, "report: write stdout")
	}

	if len(pending) == 0 {
		return nil
	}

	// Every record ends in its own LF so successive flushes concatenate
	// cleanly with no separate separator between them.
	payload := strings.Join(pending, "\n") + "\n"
	if _, err := r.log.Write([]byte(payload)); err != nil {
		return errors.Wrap(err, "report: flush log buffer")
	}
	return nil
}

// Run fires every period until done is closed. Callers are expected to
// have already produced the startup report via Fire before calling Run.
func (r *Reporter) Run(done <-chan struct{}, onError func(error)) {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := r.Fire(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

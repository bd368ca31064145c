package main

import (
	"log"
	"net"

	"github.com/fatih/color"

	"github.com/albertnadal/numbers-server/core"
)

// worker is the Connection Worker: one per admitted connection, owning a
// Framer and driving it against the shared Engine until a terminal
// verdict is reached. State machine:
// Admitted -> Active -> {ClosedLocal, ClosedRemote, TerminatingAll}.
type worker struct {
	id              uint64
	conn            net.Conn
	engine          *core.Engine
	table           *connTable
	requestShutdown func()
}

// run drives the worker to completion. It never tears down shared state
// itself on a terminate verdict; it only publishes the shutdown signal,
// leaving the Lifecycle Controller to perform the actual teardown.
func (w *worker) run() {
	defer func() {
		w.table.remove(w.id)
		w.conn.Close()
	}()

	framer := core.NewFramer()
	verdict := framer.Run(w.conn, func(value int64) {
		w.engine.Apply(value)
	})

	switch verdict {
	case core.VerdictTerminate:
		log.Printf("connection %d: terminate token received", w.id)
		w.requestShutdown()
	case core.VerdictCloseInvalid:
		color.Yellow("connection %d: framing error, closing", w.id)
	case core.VerdictCloseEOF:
		log.Printf("connection %d: closed", w.id)
	}
}

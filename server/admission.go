package main

import (
	"net"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// connTable is a set of live sockets, keyed by a per-connection
// identifier that has no meaning outside this process. A monotonic
// counter stands in for a UUID here — cheaper to generate and equally
// opaque to callers.
type connTable struct {
	mu      sync.Mutex
	conns   map[uint64]net.Conn
	nextID  uint64
	maxSize int
}

func newConnTable(maxSize int) *connTable {
	return &connTable{
		conns:   make(map[uint64]net.Conn),
		maxSize: maxSize,
	}
}

// admit rejects the connection (ok=false) if the table is already at its
// cap, in which case the caller must close it immediately without
// reading or writing. Otherwise the connection is registered under a
// fresh identifier.
func (t *connTable) admit(conn net.Conn) (id uint64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.conns) >= t.maxSize {
		return 0, false
	}

	t.nextID++
	id = t.nextID
	t.conns[id] = conn
	return id, true
}

// remove drops id from the table, if present. Closing connections on
// local/remote close or framing error is the worker's job; remove only
// updates bookkeeping.
func (t *connTable) remove(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.conns, id)
}

// count reports the number of live connections, used by tests asserting
// the connection cap is never exceeded.
func (t *connTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

// closeAll closes every live connection, as the Lifecycle Controller does
// during shutdown. Socket close errors are aggregated rather than
// discarding all but the last, since each connection's close is
// independent of the others.
func (t *connTable) closeAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var result error
	for id, conn := range t.conns {
		if err := conn.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		delete(t.conns, id)
	}
	return result
}

package core

import "io"

// readChunk is sized generously so a connection sending numbers as fast as
// the kernel will take them doesn't force many small syscalls; mirrors the
// 64KiB read buffer the teacher codebase uses for its own streams.
const readChunk = 64 * 1024

// terminateFrame is the one 10-byte frame that is not a record.
var terminateFrame = [10]byte{'t', 'e', 'r', 'm', 'i', 'n', 'a', 't', 'e', '\n'}

// Verdict is the terminal outcome of framing a connection's byte stream.
type Verdict int

const (
	// VerdictTerminate: the exact `terminate\n` frame was seen.
	VerdictTerminate Verdict = iota
	// VerdictCloseInvalid: a framing error — byte 9 wasn't LF, or a
	// digit position held a non-digit byte that didn't spell out the
	// terminate frame.
	VerdictCloseInvalid
	// VerdictCloseEOF: the peer closed its side of the connection.
	VerdictCloseEOF
)

// Framer converts a byte stream into a sequence of validated 9-digit
// records, delivered one at a time via the deliver callback passed to Run.
// A Framer is single-connection, single-use; it is not safe for concurrent
// use on more than one stream.
type Framer struct {
	carry []byte
}

// NewFramer returns a Framer ready to consume the start of a fresh
// connection's byte stream.
func NewFramer() *Framer {
	return &Framer{}
}

// Run reads from r in a loop, delivering each validated record's integer
// value to deliver, until a terminal verdict is reached. deliver must not
// block on anything that could itself suspend on r.
func (f *Framer) Run(r io.Reader, deliver func(value int64)) Verdict {
	buf := make([]byte, readChunk)
	for {
		n, err := r.Read(buf)
		if n == 0 {
			return VerdictCloseEOF
		}

		data := buf[:n]
		if len(f.carry) > 0 {
			data = append(f.carry, data...)
			f.carry = nil
		}

		offset := 0
		for ; offset+10 <= len(data); offset += 10 {
			frame := data[offset : offset+10]
			if frame[9] != '\n' {
				return VerdictCloseInvalid
			}

			value, ok := parseDigits(frame)
			if !ok {
				if isTerminateFrame(frame) {
					return VerdictTerminate
				}
				return VerdictCloseInvalid
			}
			deliver(value)
		}

		if offset < len(data) {
			f.carry = append([]byte(nil), data[offset:]...)
		}

		if err != nil {
			return VerdictCloseEOF
		}
	}
}

// parseDigits validates and parses the first 9 bytes of a 10-byte frame as
// a decimal integer. ok is false if any of those 9 bytes is not an ASCII
// digit, in which case value is meaningless.
func parseDigits(frame []byte) (value int64, ok bool) {
	for i := 0; i < 9; i++ {
		b := frame[i]
		if b < '0' || b > '9' {
			return 0, false
		}
		value = value*10 + int64(b-'0')
	}
	return value, true
}

func isTerminateFrame(frame []byte) bool {
	for i := 0; i < 10; i++ {
		if frame[i] != terminateFrame[i] {
			return false
		}
	}
	return true
}

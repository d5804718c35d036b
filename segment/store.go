// Package segment builds the byte-backed instruction segments the
// overlay scheduler stitches together: Store (release-on-close byte
// buffer), Tracepoint/Collector (build-time trace metadata), and
// Segment (the isa.Sink the front end actually emits into).
package segment

import (
	"bytes"
	"io"

	"github.com/rajivbishwokarma/tensil/isa"
)

// Store is an in-memory, byte-backed segment buffer: write-only until
// Close, readable after. Nothing in this package needs a segment to
// survive process exit, so a bytes.Buffer stands in for a temporary
// file; Release drops the contents once the overlay traversal has
// consumed them.
type Store struct {
	buf    bytes.Buffer
	closed bool
}

// NewStore creates an empty, writable Store.
func NewStore() *Store {
	return &Store{}
}

// Write appends p to the store. Fails after Close.
func (s *Store) Write(p []byte) (int, error) {
	if s.closed {
		return 0, isa.NewInvariantViolation("write to closed segment store")
	}
	return s.buf.Write(p)
}

// Close seals the store against further writes. Idempotent.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

// Reader returns a fresh, independent reader over the store's
// contents. Valid before or after Close; the returned reader shares
// no state with future writes.
func (s *Store) Reader() io.Reader {
	return bytes.NewReader(s.buf.Bytes())
}

// Len reports the number of bytes written so far.
func (s *Store) Len() int {
	return s.buf.Len()
}

// Release seals the store and drops its contents. Idempotent; the
// file-backed equivalent would be close-and-unlink.
func (s *Store) Release() {
	s.closed = true
	s.buf.Reset()
}

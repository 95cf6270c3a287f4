// Package record splits BIFF12 part streams into records and decodes the
// primitive fields inside record payloads.
package record

import (
	"errors"
	"fmt"
	"iter"
)

// maxLen bounds a single payload. Longer lengths only come from corrupt
// streams.
const maxLen = 10 << 20

// Record is one record of a part stream.
type Record struct {
	ID   int
	Data []byte
}

// Stream reads records from an in-memory part.
//
// Record IDs are stored in 1 to 4 bytes, each contributing 8 bits, with the
// high bit of a byte announcing another one. Lengths are stored in 1 to 4
// bytes of 7-bit little-endian groups.
type Stream struct {
	buf []byte
	pos int
}

// NewStream returns a Stream positioned at the start of part.
func NewStream(part []byte) *Stream {
	return &Stream{buf: part}
}

// ErrCorrupt is wrapped by every error caused by a malformed stream.
var ErrCorrupt = errors.New("record: corrupt stream")

// Next returns the next record. It reports false at the clean end of the
// stream.
func (s *Stream) Next() (Record, bool, error) {
	if s.pos >= len(s.buf) {
		return Record{}, false, nil
	}

	var id uint32
	for i := 0; ; i++ {
		b, ok := s.byte()
		if !ok {
			return Record{}, false, fmt.Errorf("%w: truncated record id at offset %d", ErrCorrupt, s.pos)
		}
		id |= uint32(b) << (8 * i)
		if b&0x80 == 0 {
			break
		}
		if i == 3 {
			return Record{}, false, fmt.Errorf("%w: record id longer than 4 bytes", ErrCorrupt)
		}
	}

	var n uint32
	for i := 0; ; i++ {
		b, ok := s.byte()
		if !ok {
			return Record{}, false, fmt.Errorf("%w: truncated length of record 0x%X", ErrCorrupt, id)
		}
		n |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			break
		}
		if i == 3 {
			return Record{}, false, fmt.Errorf("%w: length of record 0x%X longer than 4 bytes", ErrCorrupt, id)
		}
	}
	if n > maxLen {
		return Record{}, false, fmt.Errorf("%w: record 0x%X claims %d bytes", ErrCorrupt, id, n)
	}
	if int(n) > len(s.buf)-s.pos {
		return Record{}, false, fmt.Errorf("%w: record 0x%X needs %d bytes, %d left", ErrCorrupt, id, n, len(s.buf)-s.pos)
	}

	data := s.buf[s.pos : s.pos+int(n) : s.pos+int(n)]
	s.pos += int(n)
	return Record{ID: int(id), Data: data}, true, nil
}

func (s *Stream) byte() (byte, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

// All ranges over the records of part. A decoding error is yielded once as
// the last element.
func All(part []byte) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		s := NewStream(part)
		for {
			rec, ok, err := s.Next()
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !ok || !yield(rec, nil) {
				return
			}
		}
	}
}

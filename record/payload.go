package record

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
)

// Payload decodes the fields of one record payload in order.
type Payload struct {
	data []byte
	pos  int
}

// NewPayload returns a Payload reading data from the start.
func NewPayload(data []byte) *Payload {
	return &Payload{data: data}
}

func (p *Payload) take(n int) ([]byte, error) {
	if n < 0 || len(p.data)-p.pos < n {
		return nil, io.ErrUnexpectedEOF
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}

// Skip advances past n bytes.
func (p *Payload) Skip(n int) error {
	_, err := p.take(n)
	return err
}

// Uint8 reads one byte.
func (p *Payload) Uint8() (uint8, error) {
	b, err := p.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint32 reads a little-endian uint32.
func (p *Payload) Uint32() (uint32, error) {
	b, err := p.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Double reads a little-endian IEEE-754 float64.
func (p *Payload) Double() (float64, error) {
	b, err := p.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// RK reads the 4-byte packed number of a Num cell.
//
// Bit 1 selects a 30-bit signed integer over the upper half of a float64,
// bit 0 divides the result by 100.
func (p *Payload) RK() (float64, error) {
	u, err := p.Uint32()
	if err != nil {
		return 0, err
	}
	var v float64
	if u&0x02 != 0 {
		v = float64(int32(u) >> 2)
	} else {
		v = math.Float64frombits(uint64(u&^0x03) << 32)
	}
	if u&0x01 != 0 {
		v /= 100
	}
	return v, nil
}

// maxChars bounds the character count of a wide string.
const maxChars = 0x3FFFFFFF

// WideString reads a character count followed by that many UTF-16LE code
// units.
func (p *Payload) WideString() (string, error) {
	n, err := p.Uint32()
	if err != nil {
		return "", err
	}
	if n > maxChars {
		return "", fmt.Errorf("record: string of %d characters", n)
	}
	b, err := p.take(int(n) * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return string(utf16.Decode(units)), nil
}

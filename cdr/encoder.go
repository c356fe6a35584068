package cdr

import (
	"encoding/binary"
	"math"
)

// Encapsulation identifiers. Only little-endian plain CDR is produced.
const (
	RepresentationBE byte = 0x00
	RepresentationLE byte = 0x01

	HeaderSize = 4
)

const defaultCapacity = 256

// Encoder writes one CDR message. It is not safe for concurrent use and
// must not be shared between messages.
type Encoder struct {
	c *Cursor
}

// NewEncoder returns an encoder whose buffer grows as needed. Writes
// through it never fail with a buffer overrun.
func NewEncoder() *Encoder {
	e := &Encoder{c: newWriteCursor(make([]byte, 0, defaultCapacity), false)}
	// cannot fail on a growable buffer
	_ = e.writeHeader()
	return e
}

// NewFixedEncoder returns an encoder limited to capacity bytes, header
// included. Writes past the limit fail with ErrBufferOverrun.
func NewFixedEncoder(capacity int) (*Encoder, error) {
	if capacity < 0 {
		capacity = 0
	}
	e := &Encoder{c: newWriteCursor(make([]byte, 0, capacity), true)}
	if err := e.writeHeader(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Encoder) writeHeader() error {
	p, err := e.c.extend(HeaderSize, "encapsulation header")
	if err != nil {
		return err
	}
	p[0], p[1], p[2], p[3] = 0x00, RepresentationLE, 0x00, 0x00
	e.c.markOrigin()
	return nil
}

// Bytes returns the encoded message, header included. The slice aliases
// the encoder buffer.
func (e *Encoder) Bytes() []byte {
	return e.c.buf[:e.c.pos]
}

// Cursor exposes the underlying cursor.
func (e *Encoder) Cursor() *Cursor {
	return e.c
}

func (e *Encoder) WriteBool(v bool) error {
	var b uint8
	if v {
		b = 1
	}
	return e.WriteUint8(b)
}

func (e *Encoder) WriteUint8(v uint8) error {
	p, err := e.c.Write(1, "uint8")
	if err != nil {
		return err
	}
	p[0] = v
	return nil
}

func (e *Encoder) WriteInt8(v int8) error {
	return e.WriteUint8(uint8(v))
}

func (e *Encoder) WriteUint16(v uint16) error {
	p, err := e.c.Write(2, "uint16")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(p, v)
	return nil
}

func (e *Encoder) WriteInt16(v int16) error {
	return e.WriteUint16(uint16(v))
}

func (e *Encoder) WriteUint32(v uint32) error {
	p, err := e.c.Write(4, "uint32")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(p, v)
	return nil
}

func (e *Encoder) WriteInt32(v int32) error {
	return e.WriteUint32(uint32(v))
}

func (e *Encoder) WriteUint64(v uint64) error {
	p, err := e.c.Write(8, "uint64")
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(p, v)
	return nil
}

func (e *Encoder) WriteInt64(v int64) error {
	return e.WriteUint64(uint64(v))
}

func (e *Encoder) WriteFloat32(v float32) error {
	return e.WriteUint32(math.Float32bits(v))
}

func (e *Encoder) WriteFloat64(v float64) error {
	return e.WriteUint64(math.Float64bits(v))
}

// WriteString writes the length (bytes plus NUL terminator), the bytes
// and the terminator. The empty string is written as a bare zero length.
func (e *Encoder) WriteString(s string) error {
	if len(s) == 0 {
		return e.WriteUint32(0)
	}
	if err := e.WriteUint32(uint32(len(s) + 1)); err != nil {
		return err
	}
	p, err := e.c.extend(len(s)+1, "string")
	if err != nil {
		return err
	}
	copy(p, s)
	return nil
}

// WriteSequenceLength writes the element count that precedes a sequence.
func (e *Encoder) WriteSequenceLength(n int) error {
	return e.WriteUint32(uint32(n))
}

// WriteBytes writes a length-prefixed octet sequence.
func (e *Encoder) WriteBytes(b []byte) error {
	if err := e.WriteSequenceLength(len(b)); err != nil {
		return err
	}
	return e.WriteOctets(b)
}

// WriteOctets writes b verbatim, without a length prefix or padding. Used
// for fixed-size octet arrays.
func (e *Encoder) WriteOctets(b []byte) error {
	p, err := e.c.extend(len(b), "octets")
	if err != nil {
		return err
	}
	copy(p, b)
	return nil
}

// WriteFloat32s writes a length-prefixed float32 sequence.
func (e *Encoder) WriteFloat32s(v []float32) error {
	if err := e.WriteSequenceLength(len(v)); err != nil {
		return err
	}
	for _, f := range v {
		if err := e.WriteFloat32(f); err != nil {
			return err
		}
	}
	return nil
}

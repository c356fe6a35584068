package cdr

import (
	"encoding/binary"
	"math"
)

// Decoder reads one CDR message. It is not safe for concurrent use.
type Decoder struct {
	c              *Cursor
	strict         bool
	representation [2]byte
	options        [2]byte
}

// Option configures a Decoder.
type Option func(*Decoder)

// Strict rejects any encapsulation header other than little-endian plain
// CDR with ErrUnsupportedEncoding. By default the header is read and
// ignored.
func Strict() Option {
	return func(d *Decoder) {
		d.strict = true
	}
}

// NewDecoder consumes the encapsulation header of data and returns a
// decoder positioned on the first payload field. The decoder reads data in
// place; callers must not modify it while decoding.
func NewDecoder(data []byte, opts ...Option) (*Decoder, error) {
	d := &Decoder{c: newReadCursor(data)}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.readHeader(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Decoder) readHeader() error {
	p, err := d.c.take(HeaderSize, "encapsulation header")
	if err != nil {
		return err
	}
	d.representation = [2]byte{p[0], p[1]}
	d.options = [2]byte{p[2], p[3]}
	if d.strict && (p[0] != 0x00 || p[1] != RepresentationLE) {
		return &Error{Kind: KindUnsupportedEncoding, Op: "encapsulation header", Offset: 0}
	}
	d.c.markOrigin()
	return nil
}

// Representation returns the two representation identifier bytes read
// from the header.
func (d *Decoder) Representation() [2]byte {
	return d.representation
}

// Options returns the two representation option bytes read from the
// header.
func (d *Decoder) Options() [2]byte {
	return d.options
}

// Cursor exposes the underlying cursor.
func (d *Decoder) Cursor() *Cursor {
	return d.c
}

// Remaining is the number of payload bytes not yet consumed.
func (d *Decoder) Remaining() int {
	return d.c.Remaining()
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadUint8()
	return b != 0, err
}

func (d *Decoder) ReadUint8() (uint8, error) {
	p, err := d.c.Read(1, "uint8")
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (d *Decoder) ReadInt8() (int8, error) {
	v, err := d.ReadUint8()
	return int8(v), err
}

func (d *Decoder) ReadUint16() (uint16, error) {
	p, err := d.c.Read(2, "uint16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(p), nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

func (d *Decoder) ReadUint32() (uint32, error) {
	p, err := d.c.Read(4, "uint32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(p), nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

func (d *Decoder) ReadUint64() (uint64, error) {
	p, err := d.c.Read(8, "uint64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(p), nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	return math.Float32frombits(v), err
}

func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString reads a length-prefixed, NUL-terminated string. A length
// below one yields "" and consumes nothing past the length field.
func (d *Decoder) ReadString() (string, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", nil
	}
	p, err := d.c.take(int(n), "string")
	if err != nil {
		return "", err
	}
	if p[len(p)-1] == 0 {
		p = p[:len(p)-1]
	}
	return string(p), nil
}

// ReadSequenceLength reads the element count that precedes a sequence.
// Every element takes at least one byte, so a count larger than the
// remaining input is reported as an underrun before anything is allocated.
func (d *Decoder) ReadSequenceLength() (int, error) {
	start := d.c.Offset()
	n, err := d.ReadInt32()
	if err != nil {
		return 0, err
	}
	if n < 0 || int(n) > d.c.Remaining() {
		return 0, &Error{Kind: KindBufferUnderrun, Op: "sequence length", Offset: start, Need: int(n)}
	}
	return int(n), nil
}

// ReadBytes reads a length-prefixed octet sequence into a new slice.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadSequenceLength()
	if err != nil {
		return nil, err
	}
	return d.ReadOctets(n)
}

// ReadOctets reads exactly n bytes with no prefix or padding into a new
// slice.
func (d *Decoder) ReadOctets(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	p, err := d.c.take(n, "octets")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

// ReadFloat32s reads a length-prefixed float32 sequence. A zero length
// returns nil without further reads.
func (d *Decoder) ReadFloat32s() ([]float32, error) {
	n, err := d.ReadSequenceLength()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	if n*4 > d.c.Remaining() {
		return nil, &Error{Kind: KindBufferUnderrun, Op: "float32 sequence", Offset: d.c.Offset(), Need: n * 4}
	}
	out := make([]float32, n)
	for i := range out {
		if out[i], err = d.ReadFloat32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

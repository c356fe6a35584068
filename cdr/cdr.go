// Package cdr implements the little-endian plain CDR encoding used by ROS 2
// middleware: a 4-byte encapsulation header followed by naturally aligned
// primitives, length-prefixed strings and sequences.
//
// Alignment is measured from the first byte after the encapsulation
// header. Strings carry their NUL terminator in the length prefix, except
// the empty string which is encoded as a zero length.
package cdr

// Marshaler is implemented by types that write themselves to an Encoder.
type Marshaler interface {
	Serialize(e *Encoder) error
}

// Unmarshaler is implemented by types that read themselves from a Decoder.
type Unmarshaler interface {
	Deserialize(d *Decoder) error
}

// Marshal encodes m into a fresh message.
func Marshal(m Marshaler) ([]byte, error) {
	e := NewEncoder()
	if err := m.Serialize(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal decodes data into m. Trailing bytes after the last field are
// ignored.
func Unmarshal(data []byte, m Unmarshaler, opts ...Option) error {
	d, err := NewDecoder(data, opts...)
	if err != nil {
		return err
	}
	return m.Deserialize(d)
}

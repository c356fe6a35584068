package cdr

import (
	"fmt"
)

// Kind classifies codec failures.
type Kind int

const (
	// KindBufferUnderrun is a read past the end of the input.
	KindBufferUnderrun Kind = iota + 1
	// KindBufferOverrun is a write past the capacity of a fixed-size encoder.
	KindBufferOverrun
	// KindUnsupportedEncoding is an encapsulation header rejected in strict mode.
	KindUnsupportedEncoding
)

func (k Kind) String() string {
	switch k {
	case KindBufferUnderrun:
		return "buffer underrun"
	case KindBufferOverrun:
		return "buffer overrun"
	case KindUnsupportedEncoding:
		return "unsupported encoding"
	}
	return fmt.Sprintf("cdr kind %d", int(k))
}

// Error is a codec failure at a payload offset.
type Error struct {
	Kind   Kind
	Op     string
	Offset int
	Need   int
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "cdr: " + e.Kind.String()
	}
	if e.Need > 0 {
		return fmt.Sprintf("cdr: %s: %s at offset %d (need %d bytes)", e.Op, e.Kind, e.Offset, e.Need)
	}
	return fmt.Sprintf("cdr: %s: %s at offset %d", e.Op, e.Kind, e.Offset)
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrBufferUnderrun)
// works regardless of where the failure happened.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors for errors.Is.
var (
	ErrBufferUnderrun      = &Error{Kind: KindBufferUnderrun}
	ErrBufferOverrun       = &Error{Kind: KindBufferOverrun}
	ErrUnsupportedEncoding = &Error{Kind: KindUnsupportedEncoding}
)

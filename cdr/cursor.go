package cdr

// Cursor is a positioned view over a byte buffer.
//
// A read cursor walks an existing buffer and never moves past its end. A
// write cursor appends at its position, growing the buffer unless it was
// created with a fixed capacity. Alignment is computed relative to the
// origin, which the codec places right after the encapsulation header.
type Cursor struct {
	buf    []byte
	pos    int
	origin int
	write  bool
	fixed  bool
}

func newReadCursor(data []byte) *Cursor {
	return &Cursor{buf: data}
}

func newWriteCursor(buf []byte, fixed bool) *Cursor {
	return &Cursor{buf: buf[:0], write: true, fixed: fixed}
}

// Offset is the position relative to the alignment origin.
func (c *Cursor) Offset() int {
	return c.pos - c.origin
}

// Len is the number of bytes in the buffer, header included.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining is the number of unread bytes. Always zero for a write cursor.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// markOrigin makes the current position the alignment origin.
func (c *Cursor) markOrigin() {
	c.origin = c.pos
}

// Advance moves the position n bytes forward. A write cursor fills the
// skipped bytes with zeros.
func (c *Cursor) Advance(n int) error {
	if c.write {
		_, err := c.extend(n, "advance")
		return err
	}
	_, err := c.take(n, "advance")
	return err
}

// Align pads the position to the next multiple of width.
func (c *Cursor) Align(width int) error {
	if width <= 1 {
		return nil
	}
	padding := (width - c.Offset()%width) % width
	if padding == 0 {
		return nil
	}
	return c.Advance(padding)
}

// Read aligns to width and returns the next width bytes.
func (c *Cursor) Read(width int, op string) ([]byte, error) {
	if err := c.Align(width); err != nil {
		return nil, err
	}
	return c.take(width, op)
}

// Write aligns to width and returns a zeroed slot of width bytes to fill.
func (c *Cursor) Write(width int, op string) ([]byte, error) {
	if err := c.Align(width); err != nil {
		return nil, err
	}
	return c.extend(width, op)
}

func (c *Cursor) take(n int, op string) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, &Error{Kind: KindBufferUnderrun, Op: op, Offset: c.Offset(), Need: n}
	}
	p := c.buf[c.pos : c.pos+n]
	c.pos += n
	return p, nil
}

func (c *Cursor) extend(n int, op string) ([]byte, error) {
	end := c.pos + n
	if n < 0 {
		return nil, &Error{Kind: KindBufferOverrun, Op: op, Offset: c.Offset(), Need: n}
	}
	if end > cap(c.buf) {
		if c.fixed {
			return nil, &Error{Kind: KindBufferOverrun, Op: op, Offset: c.Offset(), Need: n}
		}
		grown := make([]byte, len(c.buf), 2*cap(c.buf)+n)
		copy(grown, c.buf)
		c.buf = grown
	}
	c.buf = c.buf[:end]
	p := c.buf[c.pos:end]
	clear(p)
	c.pos = end
	return p, nil
}

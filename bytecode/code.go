package bytecode

// Code is a compiled instruction buffer. It is immutable after creation and
// safe for concurrent use.
type Code struct {
	code []byte
}

// New returns a Code holding a copy of b.
func New(b []byte) *Code {
	code := make([]byte, len(b))
	copy(code, b)
	return &Code{code: code}
}

// Len returns the size of the buffer in bytes.
func (c *Code) Len() int {
	if c == nil {
		return 0
	}
	return len(c.code)
}

// Bytes returns a copy of the buffer.
func (c *Code) Bytes() []byte {
	out := make([]byte, c.Len())
	if c != nil {
		copy(out, c.code)
	}
	return out
}

// ByteAt returns the byte at the given offset.
func (c *Code) ByteAt(offset int) byte {
	return c.code[offset]
}

// Equal reports whether two buffers hold the same bytes.
func (c *Code) Equal(other *Code) bool {
	if c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if c.code[i] != other.code[i] {
			return false
		}
	}
	return true
}

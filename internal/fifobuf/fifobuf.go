// Package fifobuf provides a circular byte buffer used by the UART
// transport to accumulate raw serial bytes until a complete SYNC-framed
// packet is available. Adapted from gopper's protocol.FifoBuffer.
package fifobuf

// Buffer is a circular buffer for serial receive data.
type Buffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// New creates a Buffer with the given capacity. One slot is always kept
// free to distinguish empty from full.
func New(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, capacity), size: capacity}
}

// Write appends data, returning the number of bytes actually stored.
func (f *Buffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		next := (f.write + 1) % f.size
		if next == f.read {
			break
		}
		f.buf[f.write] = b
		f.write = next
		written++
	}
	return written
}

// Available returns the number of bytes ready to read.
func (f *Buffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes that can still be written.
func (f *Buffer) Free() int {
	return f.size - f.Available() - 1
}

// Data returns the available bytes as a contiguous slice, copying across
// the wrap point if necessary. Frame parsing needs a contiguous view to
// scan for SYNC bytes and slice out a frame.
func (f *Buffer) Data() []byte {
	if f.read <= f.write {
		return f.buf[f.read:f.write]
	}
	avail := f.Available()
	result := make([]byte, avail)
	firstLen := f.size - f.read
	copy(result, f.buf[f.read:])
	copy(result[firstLen:], f.buf[:f.write])
	return result
}

// Pop discards n bytes from the front of the buffer.
func (f *Buffer) Pop(n int) {
	for i := 0; i < n && f.read != f.write; i++ {
		f.read = (f.read + 1) % f.size
	}
}

// IsEmpty reports whether the buffer holds no data.
func (f *Buffer) IsEmpty() bool { return f.read == f.write }

// Reset discards all buffered data.
func (f *Buffer) Reset() {
	f.read = 0
	f.write = 0
}

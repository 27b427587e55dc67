package cbor

import (
	"io"
	"sync"
)

// ByteBuffer is a pooled, growable output buffer used by the text renderers
// (Diag, ToJSON) and by callers that buffer a whole message before parsing
// it. Unlike Writer it grows on demand.
type ByteBuffer struct {
	b []byte
}

// maxPooledSize keeps very large buffers out of the pool.
const maxPooledSize = 1 << 20

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 1024)} }}

// GetByteBuffer obtains an empty pooled ByteBuffer.
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.Reset()
	return bb
}

// PutByteBuffer returns the buffer to the pool. Callers must copy out
// anything they still need first.
func PutByteBuffer(bb *ByteBuffer) {
	if cap(bb.b) > maxPooledSize {
		return
	}
	bb.Reset()
	bbPool.Put(bb)
}

// Bytes returns the buffered bytes. They stay valid until the next write or
// PutByteBuffer.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns the number of buffered bytes.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Reset empties the buffer; capacity is kept.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure grows the buffer so that n more bytes fit without reallocation.
func (bb *ByteBuffer) Ensure(n int) {
	if cap(bb.b)-len(bb.b) >= n {
		return
	}
	bb.b = Require(bb.b, max(n, cap(bb.b)))
}

// Extend advances the length by n and returns the new region for direct
// writes.
func (bb *ByteBuffer) Extend(n int) []byte {
	old := len(bb.b)
	bb.Ensure(n)
	bb.b = bb.b[:old+n]
	return bb.b[old:]
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// ReadFrom implements io.ReaderFrom and buffers r until EOF, which is how a
// whole message is loaded before Parse.
func (bb *ByteBuffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		if cap(bb.b)-len(bb.b) < 32*1024 {
			bb.Ensure(32 * 1024)
		}
		n, err := r.Read(bb.b[len(bb.b):cap(bb.b)])
		if n > 0 {
			bb.b = bb.b[:len(bb.b)+n]
			total += int64(n)
		}
		if err != nil {
			if err == io.EOF {
				return total, nil
			}
			return total, err
		}
	}
}

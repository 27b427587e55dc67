package cbor

// Writer encodes CBOR into a fixed, caller-owned buffer. It never grows
// the buffer: a write that does not fit returns ErrOverrun and leaves the
// buffer unchanged.
type Writer struct {
	buf []byte
}

// NewWriter constructs a Writer that fills buf from the start.
func NewWriter(buf []byte) *Writer { return &Writer{buf: buf[:0:len(buf)]} }

// Bytes returns the encoded bytes.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return len(w.buf) }

// Available returns how many bytes can still be written.
func (w *Writer) Available() int { return cap(w.buf) - len(w.buf) }

// Reset discards everything written so far.
func (w *Writer) Reset() { w.buf = w.buf[:0] }

// raw appends encoded bytes if they fit.
func (w *Writer) raw(enc ...[]byte) error {
	n := 0
	for _, e := range enc {
		n += len(e)
	}
	if n > w.Available() {
		return ErrOverrun
	}
	for _, e := range enc {
		w.buf = append(w.buf, e...)
	}
	return nil
}

// WriteUint64 writes an unsigned integer.
func (w *Writer) WriteUint64(v uint64) error {
	var tmp [Uint64Size]byte
	return w.raw(AppendUint64(tmp[:0], v))
}

// WriteUint writes a uint value.
func (w *Writer) WriteUint(v uint) error { return w.WriteUint64(uint64(v)) }

// WriteInt64 writes an int64 value.
func (w *Writer) WriteInt64(v int64) error {
	var tmp [Int64Size]byte
	return w.raw(AppendInt64(tmp[:0], v))
}

// WriteInt writes an int value.
func (w *Writer) WriteInt(v int) error { return w.WriteInt64(int64(v)) }

// WriteNegative writes the negative integer -1-n.
func (w *Writer) WriteNegative(n uint64) error {
	var tmp [Int64Size]byte
	return w.raw(AppendNegative(tmp[:0], n))
}

// WriteBytes writes a byte string value.
func (w *Writer) WriteBytes(v []byte) error {
	var tmp [BytesPrefixSize]byte
	return w.raw(appendUintCore(tmp[:0], majorTypeBytes, uint64(len(v))), v)
}

// WriteString writes a text string value.
func (w *Writer) WriteString(s string) error {
	var tmp [StringPrefixSize]byte
	hdr := appendUintCore(tmp[:0], majorTypeText, uint64(len(s)))
	if len(hdr)+len(s) > w.Available() {
		return ErrOverrun
	}
	w.buf = append(w.buf, hdr...)
	w.buf = append(w.buf, s...)
	return nil
}

// WriteArrayHeader writes an array header with the given size.
func (w *Writer) WriteArrayHeader(sz uint32) error {
	var tmp [ArrayHeaderSize]byte
	return w.raw(AppendArrayHeader(tmp[:0], sz))
}

// WriteMapHeader writes a map header with the given number of pairs.
func (w *Writer) WriteMapHeader(sz uint32) error {
	var tmp [MapHeaderSize]byte
	return w.raw(AppendMapHeader(tmp[:0], sz))
}

func (w *Writer) writeByte(c byte) error {
	if w.Available() < 1 {
		return ErrOverrun
	}
	w.buf = append(w.buf, c)
	return nil
}

// WriteArrayHeaderIndefinite writes an indefinite-length array header.
func (w *Writer) WriteArrayHeaderIndefinite() error {
	return w.writeByte(makeByte(majorTypeArray, addInfoIndefinite))
}

// WriteMapHeaderIndefinite writes an indefinite-length map header.
func (w *Writer) WriteMapHeaderIndefinite() error {
	return w.writeByte(makeByte(majorTypeMap, addInfoIndefinite))
}

// WriteBytesHeaderIndefinite writes an indefinite-length byte string header.
func (w *Writer) WriteBytesHeaderIndefinite() error {
	return w.writeByte(makeByte(majorTypeBytes, addInfoIndefinite))
}

// WriteTextHeaderIndefinite writes an indefinite-length text string header.
func (w *Writer) WriteTextHeaderIndefinite() error {
	return w.writeByte(makeByte(majorTypeText, addInfoIndefinite))
}

// WriteBreak writes a break stop code.
func (w *Writer) WriteBreak() error { return w.writeByte(breakByte) }

// WriteBool writes a bool value.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.writeByte(makeByte(majorTypeSimple, simpleTrue))
	}
	return w.writeByte(makeByte(majorTypeSimple, simpleFalse))
}

// WriteNil writes null.
func (w *Writer) WriteNil() error { return w.writeByte(makeByte(majorTypeSimple, simpleNull)) }

// WriteUndefined writes undefined.
func (w *Writer) WriteUndefined() error {
	return w.writeByte(makeByte(majorTypeSimple, simpleUndefined))
}

// WriteSimpleValue writes a generic simple value.
func (w *Writer) WriteSimpleValue(v uint8) error {
	var tmp [2]byte
	return w.raw(AppendSimpleValue(tmp[:0], v))
}

// WriteFloat16 writes f narrowed to half precision.
func (w *Writer) WriteFloat16(f float32) error {
	var tmp [Float16Size]byte
	return w.raw(AppendFloat16(tmp[:0], f))
}

// WriteFloat32 writes a float32 value.
func (w *Writer) WriteFloat32(f float32) error {
	var tmp [Float32Size]byte
	return w.raw(AppendFloat32(tmp[:0], f))
}

// WriteFloat64 writes a float64 value.
func (w *Writer) WriteFloat64(f float64) error {
	var tmp [Float64Size]byte
	return w.raw(AppendFloat64(tmp[:0], f))
}

// WriteFloat writes f in the narrowest exact width.
func (w *Writer) WriteFloat(f float64) error {
	var tmp [Float64Size]byte
	return w.raw(AppendFloat(tmp[:0], f))
}

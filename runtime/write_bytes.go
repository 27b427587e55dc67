package cbor

import (
	"encoding/binary"
	"math"
)

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// headerSize returns the encoded size of a header carrying argument u.
func headerSize(u uint64) int {
	switch {
	case u <= addInfoDirect:
		return 1
	case u <= math.MaxUint8:
		return 2
	case u <= math.MaxUint16:
		return 3
	case u <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// putHeader writes a header for majorType and argument u at o[n:] and
// returns the index just past it. o must have room for headerSize(u) bytes.
func putHeader(o []byte, n int, majorType uint8, u uint64) int {
	switch headerSize(u) {
	case 1:
		o[n] = makeByte(majorType, uint8(u))
		return n + 1
	case 2:
		o[n] = makeByte(majorType, addInfoUint8)
		o[n+1] = uint8(u)
		return n + 2
	case 3:
		o[n] = makeByte(majorType, addInfoUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(u))
		return n + 3
	case 5:
		o[n] = makeByte(majorType, addInfoUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(u))
		return n + 5
	default:
		o[n] = makeByte(majorType, addInfoUint64)
		binary.BigEndian.PutUint64(o[n+1:], u)
		return n + 9
	}
}

// appendUintCore encodes an unsigned integer with the given major type
func appendUintCore(b []byte, majorType uint8, u uint64) []byte {
	if u <= addInfoDirect {
		return append(b, makeByte(majorType, uint8(u)))
	}
	o, n := ensure(b, headerSize(u))
	putHeader(o, n, majorType, u)
	return o
}

// appendPayload appends a definite-length string header and its payload,
// reserving space once.
func appendPayload[T string | []byte](b []byte, majorType uint8, data T) []byte {
	sz := uint64(len(data))
	o, n := ensure(b, headerSize(sz)+len(data))
	n = putHeader(o, n, majorType, sz)
	copy(o[n:], data)
	return o
}

// AppendUint64 appends an unsigned integer
func AppendUint64(b []byte, u uint64) []byte {
	return appendUintCore(b, majorTypeUint, u)
}

// AppendUint appends a uint
func AppendUint(b []byte, u uint) []byte {
	return AppendUint64(b, uint64(u))
}

// AppendInt64 appends an int64 using the shortest integer encoding.
// Negative values are encoded under major type 1 as -1-n.
func AppendInt64(b []byte, i int64) []byte {
	// Fast path for small positive values 0..23 (single-byte encoding).
	if i >= 0 && i <= addInfoDirect {
		return append(b, makeByte(majorTypeUint, uint8(i)))
	}
	if i < 0 {
		return appendUintCore(b, majorTypeNegInt, uint64(-1-i))
	}
	return appendUintCore(b, majorTypeUint, uint64(i))
}

// AppendInt appends an int
func AppendInt(b []byte, i int) []byte {
	return AppendInt64(b, int64(i))
}

// AppendNegative appends the negative integer -1-n. It reaches the values
// below math.MinInt64 that AppendInt64 cannot express.
func AppendNegative(b []byte, n uint64) []byte {
	return appendUintCore(b, majorTypeNegInt, n)
}

// AppendBytes appends a byte string
func AppendBytes(b []byte, data []byte) []byte {
	return appendPayload(b, majorTypeBytes, data)
}

// AppendString appends a text string
func AppendString(b []byte, s string) []byte {
	return appendPayload(b, majorTypeText, s)
}

// AppendStringFromBytes appends a text string from bytes
func AppendStringFromBytes(b []byte, data []byte) []byte {
	return appendPayload(b, majorTypeText, data)
}

// AppendMapHeader appends a map header with the given number of pairs
func AppendMapHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, majorTypeMap, uint64(sz))
}

// AppendArrayHeader appends an array header with the given size
func AppendArrayHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, majorTypeArray, uint64(sz))
}

// AppendArrayHeaderIndefinite appends an indefinite-length array header (0x9f)
func AppendArrayHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeArray, addInfoIndefinite))
}

// AppendMapHeaderIndefinite appends an indefinite-length map header (0xbf)
func AppendMapHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeMap, addInfoIndefinite))
}

// AppendTextHeaderIndefinite appends an indefinite-length text string header (0x7f)
func AppendTextHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeText, addInfoIndefinite))
}

// AppendBytesHeaderIndefinite appends an indefinite-length byte string header (0x5f)
func AppendBytesHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(majorTypeBytes, addInfoIndefinite))
}

// AppendBreak appends a break stop code (0xff)
func AppendBreak(b []byte) []byte {
	return append(b, breakByte)
}

// AppendBool appends a bool
func AppendBool(b []byte, val bool) []byte {
	if val {
		return append(b, makeByte(majorTypeSimple, simpleTrue))
	}
	return append(b, makeByte(majorTypeSimple, simpleFalse))
}

// AppendNil appends a nil value
func AppendNil(b []byte) []byte {
	return append(b, makeByte(majorTypeSimple, simpleNull))
}

// AppendUndefined appends an undefined simple value (23)
func AppendUndefined(b []byte) []byte {
	return append(b, makeByte(majorTypeSimple, simpleUndefined))
}

// AppendSimpleValue appends a generic simple value.
// Values 0..23 are encoded in the additional information;
// larger values are encoded as 0xf8 XX.
func AppendSimpleValue(b []byte, val uint8) []byte {
	if val <= addInfoDirect {
		return append(b, makeByte(majorTypeSimple, val))
	}
	return append(b, makeByte(majorTypeSimple, addInfoUint8), val)
}

// AppendFloat16 appends f narrowed to a half-precision float. Mantissa bits
// that do not fit are dropped; see IsShrinkableToHalf.
func AppendFloat16(b []byte, f float32) []byte {
	return appendHalfBits(b, SingleToHalf(f))
}

func appendHalfBits(b []byte, h uint16) []byte {
	o, n := ensure(b, Float16Size)
	o[n] = makeByte(majorTypeSimple, simpleFloat16)
	binary.BigEndian.PutUint16(o[n+1:], h)
	return o
}

// AppendFloat32 appends a float32
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, Float32Size)
	o[n] = makeByte(majorTypeSimple, simpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat64 appends a float64
func AppendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, Float64Size)
	o[n] = makeByte(majorTypeSimple, simpleFloat64)
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// AppendFloat appends f in the narrowest of half, single or double precision
// that holds it exactly.
func AppendFloat(b []byte, f float64) []byte {
	if !IsShrinkableToSingle(f) {
		return AppendFloat64(b, f)
	}
	f32 := DoubleToSingle(f)
	if IsShrinkableToHalf(f32) {
		return appendHalfBits(b, SingleToHalf(f32))
	}
	return AppendFloat32(b, f32)
}

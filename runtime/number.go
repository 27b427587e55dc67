package cbor

import (
	"math"
	"strconv"
)

// Number is an integer or float item decoded without picking a Go type up
// front. Integers keep the wire form, a magnitude and a sign, so the whole
// range from -2^64 to 2^64-1 fits. The zero value is the integer 0.
type Number struct {
	bits  uint64 // integer magnitude, or float64 bits
	neg   bool   // the integer is -1-bits
	float bool
}

// DecodeNumber returns an integer or float item as a Number. Half and
// single precision floats are widened to float64.
func DecodeNumber(it Item, msg []byte) (Number, error) {
	switch it.Type {
	case IntegerType:
		mag, neg, err := integer(it, msg)
		return Number{bits: mag, neg: neg}, err
	case FloatType:
		f, err := DecodeFloat64(it, msg)
		return Number{bits: math.Float64bits(f), float: true}, err
	}
	return Number{}, TypeError{Method: IntegerType, Encoded: it.Type}
}

// IsFloat reports whether the number came from a float item.
func (n Number) IsFloat() bool { return n.float }

// Int64 returns the number as an int64 and reports whether that is exact.
func (n Number) Int64() (int64, bool) {
	switch {
	case n.float:
		f := math.Float64frombits(n.bits)
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case n.bits > math.MaxInt64:
		return 0, false
	case n.neg:
		return -1 - int64(n.bits), true
	}
	return int64(n.bits), true
}

// Uint64 returns the number as a uint64 and reports whether that is exact.
func (n Number) Uint64() (uint64, bool) {
	switch {
	case n.float:
		f := math.Float64frombits(n.bits)
		if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
			return 0, false
		}
		return uint64(f), true
	case n.neg:
		return 0, false
	}
	return n.bits, true
}

// Float64 returns the number as a float64, rounding large integers.
func (n Number) Float64() float64 {
	switch {
	case n.float:
		return math.Float64frombits(n.bits)
	case n.neg:
		return -1 - float64(n.bits)
	}
	return float64(n.bits)
}

// AppendCBOR encodes the number onto b. Floats use the shortest width that
// keeps the value exact.
func (n Number) AppendCBOR(b []byte) []byte {
	switch {
	case n.float:
		return AppendFloat(b, math.Float64frombits(n.bits))
	case n.neg:
		return AppendNegative(b, n.bits)
	}
	return AppendUint64(b, n.bits)
}

func (n Number) String() string {
	if n.float {
		return strconv.FormatFloat(math.Float64frombits(n.bits), 'g', -1, 64)
	}
	return formatInteger(n.bits, n.neg)
}

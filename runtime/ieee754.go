package cbor

import "math"

// floatFormat describes an IEEE 754 binary interchange format by its field
// widths. The sign is always one bit wide and sits above the exponent.
type floatFormat struct {
	expBits  uint
	mantBits uint
}

func (f floatFormat) bias() int        { return 1<<(f.expBits-1) - 1 }
func (f floatFormat) expMax() uint64   { return 1<<f.expBits - 1 }
func (f floatFormat) mantMask() uint64 { return 1<<f.mantBits - 1 }
func (f floatFormat) hidden() uint64   { return 1 << f.mantBits }

func (f floatFormat) split(bits uint64) (sign, exp, mant uint64) {
	mant = bits & f.mantMask()
	exp = (bits >> f.mantBits) & f.expMax()
	sign = (bits >> (f.expBits + f.mantBits)) & 1
	return sign, exp, mant
}

func (f floatFormat) join(sign, exp, mant uint64) uint64 {
	return sign<<(f.expBits+f.mantBits) | exp<<f.mantBits | mant
}

// widen converts bits in src to the wider dst format. The conversion is
// always exact except for NaN payloads, which collapse to either the
// all-ones mantissa or signalingNaNMant.
func widen(bits uint64, src, dst floatFormat) uint64 {
	sign, e, m := src.split(bits)
	shift := dst.mantBits - src.mantBits

	switch {
	case e == src.expMax():
		switch m {
		case 0:
			return dst.join(sign, dst.expMax(), 0)
		case src.mantMask():
			return dst.join(sign, dst.expMax(), dst.mantMask())
		default:
			return dst.join(sign, dst.expMax(), signalingNaNMant)
		}
	case e == 0 && m == 0:
		return dst.join(sign, 0, 0)
	case e == 0:
		// subnormal: move the leading set bit into the hidden position
		n := 0
		for m&src.hidden() == 0 {
			m <<= 1
			n++
		}
		m &= src.mantMask()
		exp := dst.bias() - src.bias() - n + 1
		return dst.join(sign, uint64(exp), m<<shift)
	default:
		exp := int(e) - src.bias() + dst.bias()
		return dst.join(sign, uint64(exp), m<<shift)
	}
}

// narrow converts bits in src to the narrower dst format. Mantissa bits that
// do not fit are discarded, exponents above the dst range saturate to NaN and
// exponents below it become dst subnormals or zero.
func narrow(bits uint64, src, dst floatFormat) uint64 {
	sign, e, m := src.split(bits)
	drop := src.mantBits - dst.mantBits

	switch {
	case e == src.expMax():
		mant := m >> drop
		if m != 0 && mant == 0 {
			mant = 1 // keep NaN a NaN
		}
		return dst.join(sign, dst.expMax(), mant)
	case e == 0:
		return dst.join(sign, 0, 0)
	}

	exp := int(e) - src.bias() + dst.bias()
	switch {
	case exp >= int(dst.expMax()):
		return dst.join(sign, dst.expMax(), dst.mantMask())
	case exp <= 0:
		n := drop + uint(1-exp)
		if n > src.mantBits+1 {
			return dst.join(sign, 0, 0)
		}
		return dst.join(sign, 0, (m|src.hidden())>>n)
	default:
		return dst.join(sign, uint64(exp), m>>drop)
	}
}

// shrinkable reports whether narrow(bits, src, dst) loses nothing.
func shrinkable(bits uint64, src, dst floatFormat) bool {
	_, e, m := src.split(bits)
	drop := src.mantBits - dst.mantBits

	switch {
	case e == src.expMax():
		return true
	case e == 0:
		return m == 0
	}

	exp := int(e) - src.bias() + dst.bias()
	switch {
	case exp >= int(dst.expMax()):
		return false
	case exp <= 0:
		n := drop + uint(1-exp)
		if n > src.mantBits+1 {
			return false
		}
		return (m|src.hidden())&(1<<n-1) == 0
	default:
		return m&(1<<drop-1) == 0
	}
}

// HalfToSingle widens IEEE 754 binary16 bits to a float32.
func HalfToSingle(h uint16) float32 {
	return math.Float32frombits(uint32(widen(uint64(h), float16Format, float32Format)))
}

// HalfToDouble widens IEEE 754 binary16 bits to a float64.
func HalfToDouble(h uint16) float64 {
	return math.Float64frombits(widen(uint64(h), float16Format, float64Format))
}

// SingleToHalf narrows f to binary16 bits, truncating the mantissa.
func SingleToHalf(f float32) uint16 {
	return uint16(narrow(uint64(math.Float32bits(f)), float32Format, float16Format))
}

// DoubleToHalf narrows f to binary16 bits, truncating the mantissa.
func DoubleToHalf(f float64) uint16 {
	return uint16(narrow(math.Float64bits(f), float64Format, float16Format))
}

// DoubleToSingle narrows f to a float32, truncating the mantissa. Unlike a
// Go conversion it never rounds and saturates out-of-range values to NaN.
func DoubleToSingle(f float64) float32 {
	return math.Float32frombits(uint32(narrow(math.Float64bits(f), float64Format, float32Format)))
}

// IsShrinkableToHalf reports whether f survives SingleToHalf exactly.
// Zero, infinities and NaN are always shrinkable.
func IsShrinkableToHalf(f float32) bool {
	return shrinkable(uint64(math.Float32bits(f)), float32Format, float16Format)
}

// IsShrinkableToSingle reports whether f survives DoubleToSingle exactly.
func IsShrinkableToSingle(f float64) bool {
	return shrinkable(math.Float64bits(f), float64Format, float32Format)
}

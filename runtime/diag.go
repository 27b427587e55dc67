package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Diag renders a descriptor table in RFC 8949 diagnostic notation. Top-level
// items are separated by ", ". msg must be the message items were parsed
// from.
func Diag(msg []byte, items []Item) (string, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	first := true
	for i := 0; i < len(items); {
		if items[i].IsBreak() {
			i++
			continue
		}
		if !first {
			bb.WriteString(", ")
		}
		first = false
		var err error
		i, err = diagItem(bb, msg, items, i)
		if err != nil {
			return "", err
		}
	}
	return string(bb.Bytes()), nil
}

// diagItem renders items[i] and its children and returns the index of the
// next sibling.
func diagItem(buf *ByteBuffer, msg []byte, items []Item, i int) (int, error) {
	if i >= len(items) {
		return i, ErrIllegal
	}
	it := items[i]

	switch it.Type {
	case IntegerType:
		mag, neg, err := integer(it, msg)
		if err != nil {
			return i, err
		}
		buf.WriteString(formatInteger(mag, neg))
		return i + 1, nil

	case StringType:
		if it.Size == IndefiniteSize {
			return diagChildren(buf, msg, items, i, "(_ ", ")", false)
		}
		b, err := DecodeBytes(it, msg)
		if err != nil {
			return i, err
		}
		if IsText(it, msg) {
			buf.WriteString(strconv.Quote(string(b)))
		} else {
			buf.WriteString("h'")
			d := buf.Extend(hex.EncodedLen(len(b)))
			hex.Encode(d, b)
			buf.WriteString("'")
		}
		return i + 1, nil

	case ArrayType:
		if it.Size == IndefiniteSize {
			return diagChildren(buf, msg, items, i, "[_ ", "]", false)
		}
		return diagChildren(buf, msg, items, i, "[", "]", false)

	case MapType:
		if it.Size == IndefiniteSize {
			return diagChildren(buf, msg, items, i, "{_ ", "}", true)
		}
		return diagChildren(buf, msg, items, i, "{", "}", true)

	case FloatType:
		if it.IsBreak() {
			return i, ErrBreak
		}
		f, err := DecodeFloat64(it, msg)
		if err != nil {
			return i, err
		}
		buf.WriteString(formatFloatDiag(f))
		return i + 1, nil

	case SimpleType:
		v, err := simple(it, msg)
		if err != nil {
			return i, err
		}
		switch v {
		case simpleFalse:
			buf.WriteString("false")
		case simpleTrue:
			buf.WriteString("true")
		case simpleNull:
			buf.WriteString("null")
		case simpleUndefined:
			buf.WriteString("undefined")
		default:
			buf.WriteString("simple(")
			buf.WriteString(strconv.Itoa(int(v)))
			buf.WriteString(")")
		}
		return i + 1, nil
	}
	return i, ErrIllegal
}

// diagChildren renders the children of the container at items[i] between
// start and end, as key: value pairs when pairs is set.
func diagChildren(buf *ByteBuffer, msg []byte, items []Item, i int, start, end string, pairs bool) (int, error) {
	it := items[i]
	buf.WriteString(start)
	j := i + 1
	for n := 0; it.Size == IndefiniteSize || n < it.Size; n++ {
		if j >= len(items) {
			return j, ErrIllegal
		}
		if it.Size == IndefiniteSize && items[j].IsBreak() {
			j++
			break
		}
		switch {
		case pairs && n%2 == 1:
			buf.WriteString(": ")
		case n > 0:
			buf.WriteString(", ")
		}
		var err error
		j, err = diagItem(buf, msg, items, j)
		if err != nil {
			return j, err
		}
	}
	buf.WriteString(end)
	return j, nil
}

func formatInteger(mag uint64, neg bool) string {
	if !neg {
		return strconv.FormatUint(mag, 10)
	}
	if mag == math.MaxUint64 {
		return "-18446744073709551616"
	}
	return "-" + strconv.FormatUint(mag+1, 10)
}

// formatFloatDiag returns a diagnostic string for f matching the RFC 8949
// examples: fixed notation between 1e-7 and 1e21, exponent notation outside,
// and always a fraction or exponent so floats never read as integers.
func formatFloatDiag(f float64) string {
	switch {
	case math.IsInf(f, +1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	af := math.Abs(f)
	if af == 0 || (af >= 1e-7 && af < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

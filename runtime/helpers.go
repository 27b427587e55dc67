package cbor

import "unicode/utf8"

// getType returns the item type a header byte introduces.
func getType(b byte) Type {
	switch getMajorType(b) {
	case majorTypeUint, majorTypeNegInt:
		return IntegerType
	case majorTypeBytes, majorTypeText:
		return StringType
	case majorTypeArray:
		return ArrayType
	case majorTypeMap:
		return MapType
	case majorTypeSimple:
		switch followingBytes(getAddInfo(b)) {
		case 0, 1:
			return SimpleType
		case 2, 4, 8:
			return FloatType
		}
		if getAddInfo(b) == simpleBreak {
			return FloatType
		}
	}
	return UnknownType
}

// NextType returns the type of the item starting at b[0] without parsing it.
// Tags and reserved headers report UnknownType.
func NextType(b []byte) Type {
	if len(b) == 0 {
		return UnknownType
	}
	return getType(b[0])
}

// Require ensures that b has capacity for at least n additional bytes
// without reallocation. It returns a slice that shares the original
// contents and has sufficient capacity for appending n bytes.
func Require(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b
	}
	nb := make([]byte, len(b), len(b)+n)
	copy(nb, b)
	return nb
}

// IsLikelyJSON reports whether the given byte slice looks like JSON text
// rather than CBOR. It is a heuristic and not a formal discriminator:
//
//   - It requires the data to be valid UTF-8.
//   - It then checks the first non-whitespace byte against the JSON
//     value grammar (object/array/string/number/true/false/null).
//
// Most CBOR payloads fail one of these checks.
func IsLikelyJSON(b []byte) bool {
	if !utf8.Valid(b) {
		return false
	}
	i := 0
	for i < len(b) {
		c := b[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' {
			i++
			continue
		}
		break
	}
	if i >= len(b) {
		return false
	}
	switch ch := b[i]; {
	case ch == '{' || ch == '[' || ch == '"' || ch == '-':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == 't' || ch == 'f' || ch == 'n':
		return true
	}
	return false
}

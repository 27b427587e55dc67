package cbor

import (
	"encoding/binary"
	"math"
)

// integer returns the magnitude of an integer item and whether it is
// negative. The value of a negative item is -1-mag.
func integer(it Item, msg []byte) (mag uint64, neg bool, err error) {
	if it.Type != IntegerType {
		return 0, false, TypeError{Method: IntegerType, Encoded: it.Type}
	}
	lead, wire, err := header(it, msg, majorTypeUint, majorTypeNegInt)
	if err != nil {
		return 0, false, err
	}
	switch len(wire) {
	case 0:
		mag = uint64(getAddInfo(lead))
	case 1:
		mag = uint64(wire[0])
	case 2:
		mag = uint64(be.Uint16(wire))
	case 4:
		mag = uint64(be.Uint32(wire))
	default:
		mag = be.Uint64(wire)
	}
	return mag, getMajorType(lead) == majorTypeNegInt, nil
}

// simple returns the raw code of a simple value item. Its Size is always 1:
// codes below 24 are read from the header byte, others from the byte at
// Offset.
func simple(it Item, msg []byte) (uint8, error) {
	if it.Type != SimpleType {
		return 0, TypeError{Method: SimpleType, Encoded: it.Type}
	}
	if it.Size != 1 || it.Offset < 1 || it.Offset > len(msg) {
		return 0, ErrIllegal
	}
	lead := msg[it.Offset-1]
	if getMajorType(lead) != majorTypeSimple {
		return 0, ErrIllegal
	}
	switch ai := getAddInfo(lead); {
	case ai <= addInfoDirect:
		return ai, nil
	case ai == addInfoUint8 && it.Offset < len(msg):
		return msg[it.Offset], nil
	}
	return 0, ErrIllegal
}

// DecodeUint64 returns the value of a non-negative integer item.
func DecodeUint64(it Item, msg []byte) (uint64, error) {
	mag, neg, err := integer(it, msg)
	if err != nil {
		return 0, err
	}
	if neg {
		v := int64(math.MinInt64)
		if mag <= math.MaxInt64 {
			v = -1 - int64(mag)
		}
		return 0, UintBelowZero{Value: v}
	}
	return mag, nil
}

// DecodeInt64 returns the value of an integer item.
func DecodeInt64(it Item, msg []byte) (int64, error) {
	mag, neg, err := integer(it, msg)
	if err != nil {
		return 0, err
	}
	if mag > math.MaxInt64 {
		if neg {
			return 0, IntOverflow{Magnitude: mag}
		}
		return 0, UintOverflow{Value: mag, FailedBitsize: 64}
	}
	if neg {
		return -1 - int64(mag), nil
	}
	return int64(mag), nil
}

// IsNegative reports whether it is a negative integer.
func IsNegative(it Item, msg []byte) bool {
	_, neg, err := integer(it, msg)
	return err == nil && neg
}

// DecodeFloat64 returns the value of a half, single or double float item.
func DecodeFloat64(it Item, msg []byte) (float64, error) {
	if it.Type != FloatType {
		return 0, TypeError{Method: FloatType, Encoded: it.Type}
	}
	var b [8]byte
	if err := Decode(it, msg, b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), nil
}

// DecodeSimple returns the raw code of a simple value item (20 for false,
// 21 for true, 22 for null, 23 for undefined).
func DecodeSimple(it Item, msg []byte) (uint8, error) {
	return simple(it, msg)
}

// DecodeBool returns the value of a true or false item.
func DecodeBool(it Item, msg []byte) (bool, error) {
	v, err := simple(it, msg)
	if err != nil {
		return false, err
	}
	switch v {
	case simpleFalse:
		return false, nil
	case simpleTrue:
		return true, nil
	default:
		return false, TypeError{Method: SimpleType, Encoded: SimpleType}
	}
}

// IsNull reports whether it is the null simple value.
func IsNull(it Item, msg []byte) bool {
	v, err := simple(it, msg)
	return err == nil && v == simpleNull
}

// IsUndefined reports whether it is the undefined simple value.
func IsUndefined(it Item, msg []byte) bool {
	v, err := simple(it, msg)
	return err == nil && v == simpleUndefined
}

// DecodeBytes returns the payload of a definite-length string item as a
// sub-slice of msg. Indefinite strings are returned chunk by chunk through
// their child items and yield ErrInvalid here.
func DecodeBytes(it Item, msg []byte) ([]byte, error) {
	if it.Type != StringType {
		return nil, TypeError{Method: StringType, Encoded: it.Type}
	}
	if it.Size == IndefiniteSize {
		return nil, ErrInvalid
	}
	if it.Offset < 0 || it.Size < 0 || it.Offset+it.Size > len(msg) {
		return nil, ErrIllegal
	}
	return msg[it.Offset : it.Offset+it.Size : it.Offset+it.Size], nil
}

// DecodeString returns the payload of a definite-length string item as a
// string sharing memory with msg.
func DecodeString(it Item, msg []byte) (string, error) {
	b, err := DecodeBytes(it, msg)
	if err != nil {
		return "", err
	}
	return UnsafeString(b), nil
}

// stringMajor recovers the major type of a string item from the header in
// front of its payload.
func stringMajor(it Item, msg []byte) (uint8, bool) {
	if it.Type != StringType || it.Offset < 1 || it.Offset > len(msg) {
		return 0, false
	}
	if it.Size == IndefiniteSize {
		lead := msg[it.Offset-1]
		return getMajorType(lead), getAddInfo(lead) == addInfoIndefinite
	}
	// Only the real header can match: any shorter candidate would start
	// on a zero high byte of the real length.
	for _, following := range [...]int{0, 1, 2, 4, 8} {
		at := it.Offset - 1 - following
		if at < 0 {
			break
		}
		lead := msg[at]
		major := getMajorType(lead)
		if (major != majorTypeBytes && major != majorTypeText) || followingBytes(getAddInfo(lead)) != following {
			continue
		}
		p := Parser{msg: msg, pos: at}
		if p.argument(getAddInfo(lead), following) == uint64(it.Size) {
			return major, true
		}
	}
	return 0, false
}

// IsText reports whether a string item is a text string rather than a byte
// string.
func IsText(it Item, msg []byte) bool {
	major, ok := stringMajor(it, msg)
	return ok && major == majorTypeText
}

// This package is a zero-allocation CBOR (RFC 8949) item parser and decoder.
//
// Decoding happens in two passes over a fully buffered message:
//
//   - Parse walks the message once and writes a flat, depth-first table of
//     Item descriptors into caller-owned storage. Nested arrays and maps are
//     flattened: a container is immediately followed by its children.
//   - Decode materializes one Item into a caller-owned output buffer, on
//     demand, using the descriptor and the same message slice.
//
// Iterate walks a descriptor table respecting nesting, and Unmarshal layers
// key dispatch for maps on top of it. The Append family and Writer encode
// values, picking the shortest lossless float width.
//
// Nothing in the parse/decode path allocates, and no state is shared between
// calls: a Parser belongs to one goroutine, independent parsers may run
// concurrently.
package cbor

// DefaultMaxDepth is the container nesting limit used by new parsers.
const DefaultMaxDepth = 8

// Size sentinels recorded in Item.Size.
const (
	// IndefiniteSize marks a string, array or map whose length is not
	// declared; its children run until a break marker.
	IndefiniteSize = -1

	// BreakSize marks the FloatType item recorded for a break marker (0xff).
	BreakSize = -2
)

// CBOR major types (3 bits)
const (
	majorTypeUint   = 0 // unsigned integer
	majorTypeNegInt = 1 // negative integer
	majorTypeBytes  = 2 // byte string
	majorTypeText   = 3 // text string (UTF-8)
	majorTypeArray  = 4 // array
	majorTypeMap    = 5 // map
	majorTypeTag    = 6 // semantic tag
	majorTypeSimple = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31
)

// Following-byte markers returned by followingBytes.
const (
	indefiniteFollowing = -1
	reservedFollowing   = -2
)

// followingBytesTable maps the 5-bit additional info to the number of
// bytes that follow the header.
var followingBytesTable = [32]int8{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	1, 2, 4, 8,
	reservedFollowing, reservedFollowing, reservedFollowing,
	indefiniteFollowing,
}

// followingBytes returns the following-byte count for addInfo, or one of
// indefiniteFollowing / reservedFollowing.
func followingBytes(addInfo uint8) int {
	return int(followingBytesTable[addInfo&0x1f])
}

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(majorType, addInfo uint8) byte {
	return byte((majorType << 5) | addInfo)
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) uint8 {
	return (b >> 5) & 0x07
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Type is the kind of a parsed item. Byte and text strings share StringType;
// unsigned and negative integers share IntegerType.
type Type uint8

// Item types
const (
	UnknownType Type = iota
	IntegerType      // unsigned and negative integer
	StringType       // byte string and text string
	ArrayType        // array
	MapType          // map
	FloatType        // half, single and double float; also the break marker
	SimpleType       // false, true, null, undefined and other simple values
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case IntegerType:
		return "integer"
	case StringType:
		return "string"
	case ArrayType:
		return "array"
	case MapType:
		return "map"
	case FloatType:
		return "float"
	case SimpleType:
		return "simple value"
	default:
		return "unknown"
	}
}

// Item describes one parsed CBOR data item. It references the message it was
// parsed from by offset and never copies it, so the message must stay valid
// and unmodified while items are decoded.
type Item struct {
	Type Type

	// Offset is where the item's payload begins. For integers, floats and
	// simple values the header byte sits at Offset-1.
	Offset int

	// Size is the number of following value bytes for integers, floats and
	// simple values (0 when the value is embedded in the header byte), the
	// payload length for strings, the number of child items for arrays and
	// maps (two per map entry), or IndefiniteSize / BreakSize.
	Size int
}

// IsBreak reports whether the item is a break marker.
func (it *Item) IsBreak() bool { return it.Type == FloatType && it.Size == BreakSize }

// IsIndefinite reports whether the item is an indefinite-length string,
// array or map.
func (it *Item) IsIndefinite() bool { return it.Size == IndefiniteSize }

// IsContainer reports whether the item is an array or a map.
func (it *Item) IsContainer() bool { return it.Type == ArrayType || it.Type == MapType }

// Len returns the declared number of elements: entries for arrays, pairs
// for maps, bytes for strings. Indefinite items return IndefiniteSize.
func (it *Item) Len() int {
	if it.Type == MapType && it.Size >= 0 {
		return it.Size / 2
	}
	return it.Size
}

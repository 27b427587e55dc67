package cbor

// Worst-case encoded sizes for common types. For variable-length types
// such as strings and byte slices, the total encoded size is the
// corresponding prefix size plus the length of the value.
const (
	Int64Size        = 9
	Uint64Size       = Int64Size
	Float16Size      = 3
	Float32Size      = 5
	Float64Size      = 9
	BoolSize         = 1
	NilSize          = 1
	MapHeaderSize    = 9
	ArrayHeaderSize  = 9
	BytesPrefixSize  = 9
	StringPrefixSize = 9
)

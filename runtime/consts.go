package cbor

const (
	float16ExpBits  = 5
	float16MantBits = 10

	float32ExpBits  = 8
	float32MantBits = 23

	float64ExpBits  = 11
	float64MantBits = 52

	// signalingNaNMant is the mantissa written when a NaN payload other
	// than all-ones is widened.
	signalingNaNMant = 1
)

var (
	float16Format = floatFormat{expBits: float16ExpBits, mantBits: float16MantBits}
	float32Format = floatFormat{expBits: float32ExpBits, mantBits: float32MantBits}
	float64Format = floatFormat{expBits: float64ExpBits, mantBits: float64MantBits}
)

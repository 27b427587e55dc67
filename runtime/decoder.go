package cbor

import (
	"encoding/binary"
	"math"
)

// Endian selects the byte order Decode writes numbers in.
type Endian uint8

// Byte orders
const (
	LittleEndian Endian = iota
	BigEndian
)

// String implements fmt.Stringer
func (e Endian) String() string {
	if e == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Decoder materializes parsed items into caller-owned buffers. The zero
// value writes little-endian.
type Decoder struct {
	Order Endian
}

// Decode writes the value of it into buf using little-endian byte order.
func Decode(it Item, msg, buf []byte) error {
	return Decoder{}.Decode(it, msg, buf)
}

// Decode writes the value of it into buf. msg must be the message it was
// parsed from.
//
// Integers are extended to fill all of buf: unsigned values with zeros,
// negative values with 0xff before the complemented wire bytes are laid
// over the low end. A negative value whose magnitude needs the top bit of
// its wire width wraps to a positive number when buf is exactly that wide
// (-129, encoded as 38 80, decodes to 0x7f in a single byte); callers that
// need the full range must pass a buffer wider than the wire value.
//
// Strings are copied. Arrays, maps and indefinite string headers have no
// value of their own and leave buf untouched. Half floats are widened to a
// float32 for buffers of four to seven bytes and to a float64 for eight or
// more; single floats are widened to float64 for buffers of eight or more.
// Float bits are written at the start of buf. Simple values are written as
// one unsigned byte, with false and null mapped to 0 and true to 1.
//
// Decode returns ErrOverrun without writing anything when buf is too small,
// ErrBreak for a break marker, and ErrIllegal when the item does not match
// the message.
func (d Decoder) Decode(it Item, msg, buf []byte) error {
	switch it.Type {
	case IntegerType:
		return d.decodeInteger(it, msg, buf)
	case StringType:
		return decodeString(it, msg, buf)
	case ArrayType, MapType:
		return nil
	case FloatType:
		if it.Size == BreakSize {
			return ErrBreak
		}
		return d.decodeFloat(it, msg, buf)
	case SimpleType:
		return d.decodeSimple(it, msg, buf)
	default:
		return ErrIllegal
	}
}

// header returns the header byte and wire bytes of a scalar item after
// checking that they lie within msg and agree with the descriptor.
func header(it Item, msg []byte, majors ...uint8) (byte, []byte, error) {
	if it.Offset < 1 || it.Size < 0 || it.Offset+it.Size > len(msg) {
		return 0, nil, ErrIllegal
	}
	lead := msg[it.Offset-1]
	if followingBytes(getAddInfo(lead)) != it.Size {
		return 0, nil, ErrIllegal
	}
	major := getMajorType(lead)
	for _, m := range majors {
		if m == major {
			return lead, msg[it.Offset : it.Offset+it.Size], nil
		}
	}
	return 0, nil, ErrIllegal
}

func (d Decoder) decodeInteger(it Item, msg, buf []byte) error {
	lead, wire, err := header(it, msg, majorTypeUint, majorTypeNegInt)
	if err != nil {
		return err
	}
	var embedded [1]byte
	if len(wire) == 0 {
		embedded[0] = getAddInfo(lead)
		wire = embedded[:]
	}
	if len(buf) < len(wire) {
		return ErrOverrun
	}

	if getMajorType(lead) == majorTypeUint {
		clear(buf)
		d.place(buf, wire, false)
		return nil
	}
	for i := range buf {
		buf[i] = 0xff
	}
	d.place(buf, wire, true)
	return nil
}

// place copies big-endian wire bytes into the low end of buf in the
// decoder's byte order, optionally complementing them.
func (d Decoder) place(buf, wire []byte, complement bool) {
	var mask byte
	if complement {
		mask = 0xff
	}
	n := len(wire)
	if d.Order == BigEndian {
		off := len(buf) - n
		for i, b := range wire {
			buf[off+i] = b ^ mask
		}
		return
	}
	for i, b := range wire {
		buf[n-1-i] = b ^ mask
	}
}

func decodeString(it Item, msg, buf []byte) error {
	if it.Size == IndefiniteSize {
		return nil
	}
	if it.Offset < 0 || it.Size < 0 || it.Offset+it.Size > len(msg) {
		return ErrIllegal
	}
	if len(buf) < it.Size {
		return ErrOverrun
	}
	copy(buf, msg[it.Offset:it.Offset+it.Size])
	return nil
}

func (d Decoder) decodeFloat(it Item, msg, buf []byte) error {
	if it.Size != 2 && it.Size != 4 && it.Size != 8 {
		return ErrIllegal
	}
	_, wire, err := header(it, msg, majorTypeSimple)
	if err != nil {
		return err
	}

	switch it.Size {
	case 2:
		h := be.Uint16(wire)
		switch {
		case len(buf) >= 8:
			d.put64(buf, math.Float64bits(HalfToDouble(h)))
		case len(buf) >= 4:
			d.put32(buf, math.Float32bits(HalfToSingle(h)))
		default:
			return ErrOverrun
		}
	case 4:
		bits := be.Uint32(wire)
		switch {
		case len(buf) >= 8:
			d.put64(buf, widen(uint64(bits), float32Format, float64Format))
		case len(buf) >= 4:
			d.put32(buf, bits)
		default:
			return ErrOverrun
		}
	default:
		if len(buf) < 8 {
			return ErrOverrun
		}
		d.put64(buf, be.Uint64(wire))
	}
	return nil
}

func (d Decoder) put32(buf []byte, v uint32) {
	if d.Order == BigEndian {
		binary.BigEndian.PutUint32(buf, v)
		return
	}
	binary.LittleEndian.PutUint32(buf, v)
}

func (d Decoder) put64(buf []byte, v uint64) {
	if d.Order == BigEndian {
		binary.BigEndian.PutUint64(buf, v)
		return
	}
	binary.LittleEndian.PutUint64(buf, v)
}

func (d Decoder) decodeSimple(it Item, msg, buf []byte) error {
	v, err := simple(it, msg)
	if err != nil {
		return err
	}
	if len(buf) < 1 {
		return ErrOverrun
	}
	switch v {
	case simpleFalse, simpleNull:
		v = 0
	case simpleTrue:
		v = 1
	}
	clear(buf)
	one := [1]byte{v}
	d.place(buf, one[:], false)
	return nil
}

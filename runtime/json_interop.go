package cbor

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
)

// ToJSON renders a descriptor table as JSON. Each top-level item becomes one
// JSON document; documents are separated by newlines. The mapping is:
//
//   - byte strings become base64 (standard alphabet) JSON strings
//   - map keys that are not text strings are rendered in diagnostic notation
//   - NaN, infinities, undefined and other simple values become null
func ToJSON(msg []byte, items []Item) ([]byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	first := true
	for i := 0; i < len(items); {
		if items[i].IsBreak() {
			i++
			continue
		}
		if !first {
			bb.WriteString("\n")
		}
		first = false
		var err error
		if i, err = toJSON(bb, msg, items, i); err != nil {
			return nil, err
		}
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

// toJSON writes items[i] and its children and returns the index of the next
// sibling.
func toJSON(buf *ByteBuffer, msg []byte, items []Item, i int) (int, error) {
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
			v, n, err := ToValue(msg, items[i:])
			if err != nil {
				return i, err
			}
			switch s := v.(type) {
			case string:
				writeJSONString(buf, s)
			case []byte:
				encodeBase64Std(buf, s)
			}
			return i + n, nil
		}
		b, err := DecodeBytes(it, msg)
		if err != nil {
			return i, err
		}
		if IsText(it, msg) {
			writeJSONString(buf, UnsafeString(b))
		} else {
			encodeBase64Std(buf, b)
		}
		return i + 1, nil

	case ArrayType:
		buf.WriteString("[")
		j, err := jsonChildren(buf, msg, items, i, func(n int) {
			if n > 0 {
				buf.WriteString(",")
			}
		}, nil)
		if err != nil {
			return j, err
		}
		buf.WriteString("]")
		return j, nil

	case MapType:
		buf.WriteString("{")
		j, err := jsonChildren(buf, msg, items, i, func(n int) {
			switch {
			case n%2 == 1:
				buf.WriteString(":")
			case n > 0:
				buf.WriteString(",")
			}
		}, jsonKey)
		if err != nil {
			return j, err
		}
		buf.WriteString("}")
		return j, nil

	case FloatType:
		if it.IsBreak() {
			return i, ErrBreak
		}
		f, err := DecodeFloat64(it, msg)
		if err != nil {
			return i, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
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
		default:
			buf.WriteString("null")
		}
		return i + 1, nil
	}
	return i, ErrIllegal
}

// jsonChildren writes the children of the container at items[i]. sep is
// called before each child with its position. key, when set, writes map keys
// in place of toJSON.
func jsonChildren(buf *ByteBuffer, msg []byte, items []Item, i int, sep func(n int), key func(*ByteBuffer, []byte, []Item, int) (int, error)) (int, error) {
	it := items[i]
	j := i + 1
	for n := 0; it.Size == IndefiniteSize || n < it.Size; n++ {
		if j >= len(items) {
			return j, ErrIllegal
		}
		if it.Size == IndefiniteSize && items[j].IsBreak() {
			return j + 1, nil
		}
		sep(n)
		var err error
		if key != nil && n%2 == 0 {
			j, err = key(buf, msg, items, j)
		} else {
			j, err = toJSON(buf, msg, items, j)
		}
		if err != nil {
			return j, err
		}
	}
	return j, nil
}

// jsonKey writes a map key as a JSON string.
func jsonKey(buf *ByteBuffer, msg []byte, items []Item, i int) (int, error) {
	it := items[i]
	if it.Type == StringType && it.Size != IndefiniteSize && IsText(it, msg) {
		return toJSON(buf, msg, items, i)
	}
	n := Span(items[i:])
	d, err := Diag(msg, items[i:i+n])
	if err != nil {
		return i, err
	}
	writeJSONString(buf, d)
	return i + n, nil
}

func writeJSONString(buf *ByteBuffer, s string) {
	js, _ := json.Marshal(s)
	buf.Write(js)
}

// encodeBase64Std writes src as a quoted standard base64 JSON string.
func encodeBase64Std(buf *ByteBuffer, src []byte) {
	buf.WriteString(`"`)
	out := buf.Extend(base64.StdEncoding.EncodedLen(len(src)))
	base64.StdEncoding.Encode(out, src)
	buf.WriteString(`"`)
}

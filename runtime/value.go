package cbor

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
	"slices"
	"sort"
)

// Undefined is the Go form of the undefined simple value.
type Undefined struct{}

// Simple is the Go form of a simple value other than false, true, null and
// undefined.
type Simple uint8

// ToValue converts the item at items[0] and its children into a Go value
// and returns the number of slots consumed. The mapping is:
//
//   - unsigned integers to uint64, negative integers to int64, or *big.Int
//     below math.MinInt64
//   - text strings to string, byte strings to []byte; indefinite strings
//     are joined
//   - arrays to []any
//   - maps to map[string]any when every key is a text string, otherwise
//     map[any]any with non-comparable keys replaced by their diagnostic
//     notation
//   - floats to float64
//   - false and true to bool, null to nil, undefined to Undefined and other
//     simple values to Simple
func ToValue(msg []byte, items []Item) (any, int, error) {
	if len(items) == 0 {
		return nil, 0, ErrIllegal
	}
	it := items[0]

	switch it.Type {
	case IntegerType:
		mag, neg, err := integer(it, msg)
		if err != nil {
			return nil, 0, err
		}
		if !neg {
			return mag, 1, nil
		}
		if mag <= math.MaxInt64 {
			return -1 - int64(mag), 1, nil
		}
		z := new(big.Int).SetUint64(mag)
		return z.Sub(z.Neg(z), big.NewInt(1)), 1, nil

	case StringType:
		text := IsText(it, msg)
		if it.Size != IndefiniteSize {
			b, err := DecodeBytes(it, msg)
			if err != nil {
				return nil, 0, err
			}
			if text {
				return string(b), 1, nil
			}
			return bytes.Clone(b), 1, nil
		}
		var joined []byte
		n := 1
		for ; n < len(items) && !items[n].IsBreak(); n++ {
			b, err := DecodeBytes(items[n], msg)
			if err != nil {
				return nil, n, err
			}
			joined = append(joined, b...)
		}
		if n >= len(items) {
			return nil, n, ErrIllegal
		}
		if text {
			return string(joined), n + 1, nil
		}
		if joined == nil {
			joined = []byte{}
		}
		return joined, n + 1, nil

	case ArrayType:
		out := []any{}
		n, err := eachChild(items, func(child []Item) (int, error) {
			v, used, err := ToValue(msg, child)
			if err == nil {
				out = append(out, v)
			}
			return used, err
		})
		return out, n, err

	case MapType:
		return mapValue(msg, items)

	case FloatType:
		if it.IsBreak() {
			return nil, 1, ErrBreak
		}
		f, err := DecodeFloat64(it, msg)
		return f, 1, err

	case SimpleType:
		v, err := simple(it, msg)
		if err != nil {
			return nil, 0, err
		}
		switch v {
		case simpleFalse:
			return false, 1, nil
		case simpleTrue:
			return true, 1, nil
		case simpleNull:
			return nil, 1, nil
		case simpleUndefined:
			return Undefined{}, 1, nil
		default:
			return Simple(v), 1, nil
		}
	}
	return nil, 0, ErrIllegal
}

// ToValues converts every top-level item in items. Break markers between
// top-level items are skipped.
func ToValues(msg []byte, items []Item) ([]any, error) {
	var out []any
	for i := 0; i < len(items); {
		if items[i].IsBreak() {
			i++
			continue
		}
		v, n, err := ToValue(msg, items[i:])
		if err != nil {
			return out, err
		}
		out = append(out, v)
		i += n
	}
	return out, nil
}

// eachChild calls fn with the table starting at each child of the container
// at items[0]. fn returns the slots it consumed. eachChild returns the slots
// consumed by the whole container.
func eachChild(items []Item, fn func(child []Item) (int, error)) (int, error) {
	it := items[0]
	i := 1
	for n := 0; it.Size == IndefiniteSize || n < it.Size; n++ {
		if i >= len(items) {
			return i, ErrIllegal
		}
		if it.Size == IndefiniteSize && items[i].IsBreak() {
			return i + 1, nil
		}
		used, err := fn(items[i:])
		i += used
		if err != nil {
			return i, err
		}
	}
	return i, nil
}

func mapValue(msg []byte, items []Item) (any, int, error) {
	var (
		keys    []any
		vals    []any
		allText = true
		isKey   = true
	)
	n, err := eachChild(items, func(child []Item) (int, error) {
		v, used, err := ToValue(msg, child)
		if err != nil {
			return used, err
		}
		if isKey {
			if _, ok := v.(string); !ok || !IsText(child[0], msg) {
				allText = false
			}
			if v != nil && !reflect.TypeOf(v).Comparable() {
				d, err := Diag(msg, child[:used])
				if err != nil {
					return used, err
				}
				v = d
			}
			keys = append(keys, v)
		} else {
			vals = append(vals, v)
		}
		isKey = !isKey
		return used, nil
	})
	if err != nil {
		return nil, n, err
	}
	if len(keys) != len(vals) {
		return nil, n, ErrIllegal
	}

	if allText {
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k.(string)] = vals[i]
		}
		return out, n, nil
	}
	out := make(map[any]any, len(keys))
	for i, k := range keys {
		out[k] = vals[i]
	}
	return out, n, nil
}

// FromValue appends the CBOR encoding of v to b. It accepts the types
// ToValue produces plus the other Go integer and float types, Number and
// []any / map values of them. Floats use the narrowest exact width and map
// entries are written in the deterministic order of RFC 8949 (shorter
// encoded keys first, then bytewise).
func FromValue(b []byte, v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return AppendNil(b), nil
	case bool:
		return AppendBool(b, x), nil
	case int:
		return AppendInt64(b, int64(x)), nil
	case int8:
		return AppendInt64(b, int64(x)), nil
	case int16:
		return AppendInt64(b, int64(x)), nil
	case int32:
		return AppendInt64(b, int64(x)), nil
	case int64:
		return AppendInt64(b, x), nil
	case uint:
		return AppendUint64(b, uint64(x)), nil
	case uint8:
		return AppendUint64(b, uint64(x)), nil
	case uint16:
		return AppendUint64(b, uint64(x)), nil
	case uint32:
		return AppendUint64(b, uint64(x)), nil
	case uint64:
		return AppendUint64(b, x), nil
	case *big.Int:
		return appendBigInt(b, x)
	case float32:
		return AppendFloat(b, float64(x)), nil
	case float64:
		return AppendFloat(b, x), nil
	case Number:
		return x.AppendCBOR(b), nil
	case string:
		return AppendString(b, x), nil
	case []byte:
		return AppendBytes(b, x), nil
	case Undefined:
		return AppendUndefined(b), nil
	case Simple:
		return AppendSimpleValue(b, uint8(x)), nil
	case []any:
		b = AppendArrayHeader(b, uint32(len(x)))
		var err error
		for _, e := range x {
			if b, err = FromValue(b, e); err != nil {
				return b, err
			}
		}
		return b, nil
	case map[string]any:
		pairs := make([]rawPair, 0, len(x))
		for k, e := range x {
			pairs = append(pairs, rawPair{key: AppendString(nil, k), val: e})
		}
		return appendPairs(b, pairs)
	case map[any]any:
		pairs := make([]rawPair, 0, len(x))
		for k, e := range x {
			kb, err := FromValue(nil, k)
			if err != nil {
				return b, err
			}
			pairs = append(pairs, rawPair{key: kb, val: e})
		}
		return appendPairs(b, pairs)
	default:
		return b, &ErrUnsupportedType{T: reflect.TypeOf(v)}
	}
}

type rawPair struct {
	key []byte
	val any
}

func appendPairs(b []byte, pairs []rawPair) ([]byte, error) {
	sort.Slice(pairs, func(i, j int) bool {
		ki, kj := pairs[i].key, pairs[j].key
		if len(ki) != len(kj) {
			return len(ki) < len(kj)
		}
		return bytes.Compare(ki, kj) < 0
	})
	b = AppendMapHeader(b, uint32(len(pairs)))
	var err error
	for _, p := range pairs {
		b = append(b, p.key...)
		if b, err = FromValue(b, p.val); err != nil {
			return b, err
		}
	}
	return b, nil
}

func appendBigInt(b []byte, z *big.Int) ([]byte, error) {
	if z.IsUint64() {
		return AppendUint64(b, z.Uint64()), nil
	}
	if z.Sign() < 0 {
		// -1-z is the encoded magnitude
		m := new(big.Int).Neg(z)
		m.Sub(m, big.NewInt(1))
		if m.IsUint64() {
			return AppendNegative(b, m.Uint64()), nil
		}
	}
	return b, &ErrUnsupportedType{T: reflect.TypeOf(z)}
}

// Equal reports whether two values from ToValue are deeply equal, treating
// NaN as equal to NaN.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case float64:
		y, ok := b.(float64)
		return ok && (x == y || (math.IsNaN(x) && math.IsNaN(y)))
	case []any:
		y, ok := b.([]any)
		return ok && slices.EqualFunc(x, y, Equal)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, ok := y[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	case *big.Int:
		y, ok := b.(*big.Int)
		return ok && x.Cmp(y) == 0
	default:
		return reflect.DeepEqual(a, b)
	}
}
